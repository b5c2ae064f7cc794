package bitbucket

import (
	"context"

	"github.com/ryo246912/bb-pr-stats/internal/models"
)

// DiffStatter computes line-change counts for a single commit
type DiffStatter interface {
	DiffStats(ctx context.Context, project, repoSlug, commitID string) models.LineStats
}

// BitbucketClient defines the interface for Bitbucket Server operations
type BitbucketClient interface {
	ListPullRequests(ctx context.Context, username string, limit int) ([]models.PullRequest, error)
	ListCommits(ctx context.Context, project, repoSlug string, prID int) []models.Commit
	DiffStatter
	LinkedIssues(ctx context.Context, project, repoSlug string, prID int) ([]string, error)
}

// Ensure Client implements BitbucketClient interface
var _ BitbucketClient = (*Client)(nil)
