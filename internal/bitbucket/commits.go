package bitbucket

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/ryo246912/bb-pr-stats/internal/lib/sl"
	"github.com/ryo246912/bb-pr-stats/internal/models"
)

// CommitPageSize is the number of commits requested per page
const CommitPageSize = 25

// ListCommits pages through the commits of a pull request. A failed page
// ends the listing; whatever was collected so far is returned.
func (c *Client) ListCommits(ctx context.Context, project, repoSlug string, prID int) []models.Commit {
	path := fmt.Sprintf("/rest/api/latest%s/pull-requests/%d/commits", repoPath(project, repoSlug), prID)

	commits := []models.Commit{}
	start := 0
	for {
		params := url.Values{}
		params.Set("start", strconv.Itoa(start))
		params.Set("limit", strconv.Itoa(CommitPageSize))

		var page models.Page[models.Commit]
		if err := c.fetch(ctx, path, params, &page); err != nil {
			c.log.Warn("commit listing ended early",
				slog.String("project", project),
				slog.String("repo", repoSlug),
				slog.Int("pr", prID),
				slog.Int("collected", len(commits)),
				sl.Err(err),
			)
			return commits
		}

		commits = append(commits, page.Values...)
		if page.IsLastPage || len(page.Values) == 0 {
			return commits
		}
		// a next page that does not move forward would loop forever
		if page.NextPageStart <= start {
			return commits
		}
		start = page.NextPageStart
	}
}
