package bitbucket

import (
	"context"
	"fmt"
	"sync"

	"github.com/ryo246912/bb-pr-stats/internal/models"
)

// MockClient implements BitbucketClient for testing
type MockClient struct {
	mu sync.Mutex

	// Control test behavior, keyed by username, pull request id or commit id
	PullRequests      map[string][]models.PullRequest
	PullRequestsError map[string]error
	Commits           map[int][]models.Commit
	Diffs             map[string]models.LineStats
	Issues            map[int][]string
	IssuesError       map[int]error

	// Track method calls
	ListPullRequestsCalls []string
	ListCommitsCalls      []int
	DiffStatsCalls        []string
	LinkedIssuesCalls     []int

	// Store call arguments for verification
	LastLimit   int
	LastProject string
	LastRepo    string
}

// ListPullRequests mocks the dashboard listing
func (m *MockClient) ListPullRequests(ctx context.Context, username string, limit int) ([]models.PullRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListPullRequestsCalls = append(m.ListPullRequestsCalls, username)
	m.LastLimit = limit
	if err := m.PullRequestsError[username]; err != nil {
		return nil, err
	}
	return m.PullRequests[username], nil
}

// ListCommits mocks the paginated commit listing
func (m *MockClient) ListCommits(ctx context.Context, project, repoSlug string, prID int) []models.Commit {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCommitsCalls = append(m.ListCommitsCalls, prID)
	m.LastProject = project
	m.LastRepo = repoSlug
	return m.Commits[prID]
}

// DiffStats mocks the per-commit diff call
func (m *MockClient) DiffStats(ctx context.Context, project, repoSlug, commitID string) models.LineStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DiffStatsCalls = append(m.DiffStatsCalls, commitID)
	return m.Diffs[commitID]
}

// LinkedIssues mocks the tracker-link call
func (m *MockClient) LinkedIssues(ctx context.Context, project, repoSlug string, prID int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkedIssuesCalls = append(m.LinkedIssuesCalls, prID)
	if err := m.IssuesError[prID]; err != nil {
		return nil, err
	}
	return m.Issues[prID], nil
}

// Reset clears all tracking data for fresh test
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListPullRequestsCalls = nil
	m.ListCommitsCalls = nil
	m.DiffStatsCalls = nil
	m.LinkedIssuesCalls = nil
	m.LastLimit = 0
	m.LastProject = ""
	m.LastRepo = ""
}

// CreateTestPR builds a pull request authored by username in PROJ/repo
func CreateTestPR(id int, username string, createdMs int64) models.PullRequest {
	return models.PullRequest{
		ID:          id,
		Title:       fmt.Sprintf("Test PR #%d", id),
		State:       "OPEN",
		CreatedDate: createdMs,
		Author: models.Author{User: models.User{
			Name:        username,
			DisplayName: fmt.Sprintf("Display %s", username),
		}},
		ToRef: models.Ref{
			DisplayID: "main",
			Repository: models.Repository{
				Name:    "Repo",
				Slug:    "repo",
				Project: models.Project{Key: "PROJ"},
			},
		},
		Links: models.PRLinks{Self: []models.Link{
			{Href: fmt.Sprintf("https://code.example.com/projects/PROJ/repos/repo/pull-requests/%d", id)},
		}},
	}
}

// CreateTestCommits builds count commits with ids prefix-1 .. prefix-count
func CreateTestCommits(prefix string, count int) []models.Commit {
	commits := make([]models.Commit, count)
	for i := 0; i < count; i++ {
		commits[i] = models.Commit{
			ID:        fmt.Sprintf("%s-%d", prefix, i+1),
			DisplayID: fmt.Sprintf("%s%d", prefix, i+1),
		}
	}
	return commits
}

// Error helpers for testing error conditions
func NewAPIError(message string) error {
	return fmt.Errorf("API error: %s", message)
}

func NewNetworkError() error {
	return fmt.Errorf("%w: network connection failed", ErrFetchFailed)
}
