package models

// PullRequest represents a pull request as returned by the dashboard listing
type PullRequest struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	State       string  `json:"state"`
	CreatedDate int64   `json:"createdDate"`
	Author      Author  `json:"author"`
	ToRef       Ref     `json:"toRef"`
	Links       PRLinks `json:"links"`
}

// Author wraps the participant entry for the pull request author
type Author struct {
	User User `json:"user"`
}

// User represents a Bitbucket user
type User struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Slug        string `json:"slug"`
}

// Ref represents the source or destination ref of a pull request
type Ref struct {
	ID         string     `json:"id"`
	DisplayID  string     `json:"displayId"`
	Repository Repository `json:"repository"`
}

// Repository represents a Bitbucket repository
type Repository struct {
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
	Project Project `json:"project"`
}

// Project represents the project that owns a repository
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// PRLinks holds the links attached to a pull request
type PRLinks struct {
	Self []Link `json:"self"`
}

// Link is a single href entry
type Link struct {
	Href string `json:"href"`
}

// SelfLink returns the canonical link of the pull request, or "" if none
func (pr PullRequest) SelfLink() string {
	if len(pr.Links.Self) == 0 {
		return ""
	}
	return pr.Links.Self[0].Href
}

// Commit represents a commit on a pull request
type Commit struct {
	ID              string `json:"id"`
	DisplayID       string `json:"displayId"`
	Message         string `json:"message"`
	AuthorTimestamp int64  `json:"authorTimestamp"`
}

// Page is a generic paged response from the Bitbucket REST API
type Page[T any] struct {
	Values        []T  `json:"values"`
	Size          int  `json:"size"`
	Limit         int  `json:"limit"`
	Start         int  `json:"start"`
	IsLastPage    bool `json:"isLastPage"`
	NextPageStart int  `json:"nextPageStart"`
}

// Diff is the diff of a single commit
type Diff struct {
	Diffs []FileDiff `json:"diffs"`
}

// FileDiff is the diff of a single file
type FileDiff struct {
	Hunks []Hunk `json:"hunks"`
}

// Hunk is a contiguous block of a file diff
type Hunk struct {
	Segments []Segment `json:"segments"`
}

// Segment types reported by the server
const (
	SegmentAdded   = "ADDED"
	SegmentRemoved = "REMOVED"
	SegmentContext = "CONTEXT"
)

// Segment is a typed run of lines within a hunk
type Segment struct {
	Type  string        `json:"type"`
	Lines []SegmentLine `json:"lines"`
}

// SegmentLine is a single line of a segment
type SegmentLine struct {
	Line        string `json:"line"`
	Source      int    `json:"source"`
	Destination int    `json:"destination"`
}

// IssueLink is an issue-tracker key linked to a pull request
type IssueLink struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
