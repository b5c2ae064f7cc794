package models

// LineStats holds line-change counts. Modified is always Added + Deleted.
type LineStats struct {
	Added    int `json:"lines_added"`
	Deleted  int `json:"lines_deleted"`
	Modified int `json:"lines_modified"`
}

// NewLineStats builds LineStats from added and deleted counts
func NewLineStats(added, deleted int) LineStats {
	return LineStats{
		Added:    added,
		Deleted:  deleted,
		Modified: added + deleted,
	}
}

// Add returns the sum of two LineStats
func (s LineStats) Add(other LineStats) LineStats {
	return NewLineStats(s.Added+other.Added, s.Deleted+other.Deleted)
}

// PullRequestRecord is a pull request enriched with commit, diff and issue data
type PullRequestRecord struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	Author            string   `json:"author"`
	AuthorDisplayName string   `json:"author_display_name"`
	State             string   `json:"state"`
	CreatedTimestamp  int64    `json:"created_timestamp"`
	CreatedDate       string   `json:"created_date"`
	DestBranch        string   `json:"dest_branch"`
	Repo              string   `json:"repo"`
	RepoSlug          string   `json:"repo_slug"`
	ProjectKey        string   `json:"project_key"`
	PRLink            string   `json:"pr_link"`
	Commits           []string `json:"commits"`
	CommitCount       int      `json:"commit_count"`
	LineStats
	Issues []string `json:"issues"`
}

// UserStats holds the in-window pull requests of one user
type UserStats struct {
	Username string              `json:"username"`
	PRCount  int                 `json:"pr_count"`
	PRList   []PullRequestRecord `json:"pr_list"`
	// FetchError is set when the pull request listing for the user failed,
	// so an empty PRList can be told apart from a user with no activity.
	FetchError string `json:"fetch_error,omitempty"`
}

// AggregateStats is the result of a whole run
type AggregateStats struct {
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
	TotalPRCount int         `json:"total_pr_count"`
	Users        []UserStats `json:"users"`
}
