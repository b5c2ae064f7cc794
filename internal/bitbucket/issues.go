package bitbucket

import (
	"context"
	"fmt"

	"github.com/ryo246912/bb-pr-stats/internal/models"
)

// LinkedIssues fetches the keys of tracker issues linked to a pull request
func (c *Client) LinkedIssues(ctx context.Context, project, repoSlug string, prID int) ([]string, error) {
	path := fmt.Sprintf("/rest/jira/1.0%s/pull-requests/%d/issues", repoPath(project, repoSlug), prID)

	var links []models.IssueLink
	if err := c.fetch(ctx, path, nil, &links); err != nil {
		return nil, fmt.Errorf("failed to fetch linked issues: %w", err)
	}

	keys := make([]string, 0, len(links))
	for _, link := range links {
		if link.Key != "" {
			keys = append(keys, link.Key)
		}
	}
	return keys, nil
}
