package bitbucket

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/ryo246912/bb-pr-stats/internal/models"
)

const dashboardPullRequestsPath = "/rest/api/latest/dashboard/pull-requests"

// DefaultPullRequestLimit is the page size of the dashboard listing. Only one
// page is fetched.
const DefaultPullRequestLimit = 1000

// ListPullRequests fetches up to limit of the newest pull requests authored by username
func (c *Client) ListPullRequests(ctx context.Context, username string, limit int) ([]models.PullRequest, error) {
	if limit <= 0 {
		limit = DefaultPullRequestLimit
	}

	params := url.Values{}
	params.Set("role", "AUTHOR")
	params.Set("user", username)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("order", "NEWEST")

	var page models.Page[models.PullRequest]
	if err := c.fetch(ctx, dashboardPullRequestsPath, params, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch pull requests for %s: %w", username, err)
	}

	if !page.IsLastPage {
		c.log.Warn("pull request listing was capped, older pull requests are not included",
			slog.String("user", username),
			slog.Int("limit", limit),
			slog.Int("returned", len(page.Values)),
		)
	}
	return page.Values, nil
}
