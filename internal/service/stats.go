package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ryo246912/bb-pr-stats/internal/bitbucket"
	"github.com/ryo246912/bb-pr-stats/internal/lib/sl"
	"github.com/ryo246912/bb-pr-stats/internal/models"
	"github.com/ryo246912/bb-pr-stats/internal/ui"
	"github.com/ryo246912/bb-pr-stats/internal/window"
)

// Options tunes a StatsService. Zero values fall back to defaults.
type Options struct {
	// PullRequestLimit caps the dashboard listing per user
	PullRequestLimit int
	// MaxWorkers is the number of users processed at once
	MaxWorkers int
	// DisplayLocation is the timezone of created_date strings
	DisplayLocation *time.Location
	Logger          *slog.Logger
}

// StatsService collects and enriches pull requests per user
type StatsService struct {
	client   bitbucket.BitbucketClient
	reporter ui.ProgressReporter
	limit    int
	workers  int
	loc      *time.Location
	log      *slog.Logger
}

// NewStatsService creates a new service instance
func NewStatsService(client bitbucket.BitbucketClient, reporter ui.ProgressReporter, opts Options) *StatsService {
	s := &StatsService{
		client:   client,
		reporter: reporter,
		limit:    opts.PullRequestLimit,
		workers:  opts.MaxWorkers,
		loc:      opts.DisplayLocation,
		log:      opts.Logger,
	}
	if s.limit <= 0 {
		s.limit = bitbucket.DefaultPullRequestLimit
	}
	if s.workers <= 0 {
		s.workers = 1
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.log == nil {
		s.log = sl.NewDiscardLogger()
	}
	if s.reporter == nil {
		s.reporter = ui.NopReporter{}
	}
	return s
}

// Collect processes every user and returns the aggregate. Users appear in
// the order given regardless of MaxWorkers. Only context cancellation makes
// it return an error; per-user and per-pull-request failures are absorbed.
func (s *StatsService) Collect(ctx context.Context, usernames []string, w window.Window) (models.AggregateStats, error) {
	results := make([]models.UserStats, len(usernames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, username := range usernames {
		i, username := i, username
		g.Go(func() error {
			stats, err := s.collectUser(gctx, username, w)
			if err != nil {
				return err
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.AggregateStats{}, err
	}

	agg := models.AggregateStats{
		StartDate: w.Start,
		EndDate:   w.End,
		Users:     results,
	}
	for _, u := range results {
		agg.TotalPRCount += u.PRCount
	}
	return agg, nil
}

// collectUser lists the user's pull requests, filters them by window and
// enriches each survivor in server order
func (s *StatsService) collectUser(ctx context.Context, username string, w window.Window) (models.UserStats, error) {
	s.reporter.UserStarted(username)

	stats := models.UserStats{
		Username: username,
		PRList:   []models.PullRequestRecord{},
	}

	prs, err := s.client.ListPullRequests(ctx, username, s.limit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, ctxErr
		}
		s.log.Error("pull request listing failed, user has no data",
			slog.String("user", username),
			sl.Err(err),
		)
		stats.FetchError = err.Error()
		s.reporter.UserDone(stats)
		return stats, nil
	}

	for _, pr := range prs {
		if !w.Contains(pr.CreatedDate) {
			continue
		}
		stats.PRList = append(stats.PRList, s.enrich(ctx, pr))
		if err := ctx.Err(); err != nil {
			return stats, err
		}
	}
	stats.PRCount = len(stats.PRList)

	s.log.Debug("user done",
		slog.String("user", username),
		slog.Int("listed", len(prs)),
		slog.Int("in_window", stats.PRCount),
	)
	s.reporter.UserDone(stats)
	return stats, nil
}

// enrich runs commit collection, diff summation and issue linking in
// sequence and folds the results into one record
func (s *StatsService) enrich(ctx context.Context, pr models.PullRequest) models.PullRequestRecord {
	repo := pr.ToRef.Repository
	project, slug := repo.Project.Key, repo.Slug

	commits := s.client.ListCommits(ctx, project, slug, pr.ID)
	totals := bitbucket.CalculateTotalsForCommits(ctx, s.client, project, slug, commits)

	issues, err := s.client.LinkedIssues(ctx, project, slug, pr.ID)
	if err != nil {
		s.log.Warn("linked issues unavailable",
			slog.String("project", project),
			slog.String("repo", slug),
			slog.Int("pr", pr.ID),
			sl.Err(err),
		)
	}
	if issues == nil {
		issues = []string{}
	}

	commitIDs := make([]string, 0, len(commits))
	for _, c := range commits {
		commitIDs = append(commitIDs, c.ID)
	}

	return models.PullRequestRecord{
		ID:                pr.ID,
		Title:             pr.Title,
		Author:            pr.Author.User.Name,
		AuthorDisplayName: pr.Author.User.DisplayName,
		State:             pr.State,
		CreatedTimestamp:  pr.CreatedDate,
		CreatedDate:       window.FormatTimestamp(pr.CreatedDate, s.loc),
		DestBranch:        pr.ToRef.DisplayID,
		Repo:              repo.Name,
		RepoSlug:          slug,
		ProjectKey:        project,
		PRLink:            pr.SelfLink(),
		Commits:           commitIDs,
		CommitCount:       len(commitIDs),
		LineStats:         totals,
		Issues:            issues,
	}
}
