package bitbucket

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/ryo246912/bb-pr-stats/internal/lib/sl"
	"github.com/ryo246912/bb-pr-stats/internal/models"
)

// DiffStats fetches the diff of a commit and counts its added and removed
// lines. A failed fetch yields zero counts.
func (c *Client) DiffStats(ctx context.Context, project, repoSlug, commitID string) models.LineStats {
	path := fmt.Sprintf("/rest/api/latest%s/commits/%s/diff", repoPath(project, repoSlug), url.PathEscape(commitID))

	var diff models.Diff
	if err := c.fetch(ctx, path, nil, &diff); err != nil {
		c.log.Warn("diff unavailable, counting zero lines",
			slog.String("project", project),
			slog.String("repo", repoSlug),
			slog.String("commit", commitID),
			sl.Err(err),
		)
		return models.LineStats{}
	}
	return CountDiffLines(diff)
}

// CountDiffLines sums the lines of ADDED and REMOVED segments. Context and
// any other segment types are ignored.
func CountDiffLines(diff models.Diff) models.LineStats {
	added, deleted := 0, 0
	for _, file := range diff.Diffs {
		for _, hunk := range file.Hunks {
			for _, segment := range hunk.Segments {
				switch segment.Type {
				case models.SegmentAdded:
					added += len(segment.Lines)
				case models.SegmentRemoved:
					deleted += len(segment.Lines)
				}
			}
		}
	}
	return models.NewLineStats(added, deleted)
}

// CalculateTotalsForCommits sums the diff stats of every commit
func CalculateTotalsForCommits(ctx context.Context, d DiffStatter, project, repoSlug string, commits []models.Commit) models.LineStats {
	var totals models.LineStats
	for _, commit := range commits {
		totals = totals.Add(d.DiffStats(ctx, project, repoSlug, commit.ID))
	}
	return totals
}
