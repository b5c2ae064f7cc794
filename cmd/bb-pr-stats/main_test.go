package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryo246912/bb-pr-stats/internal/bitbucket"
	"github.com/ryo246912/bb-pr-stats/internal/config"
	"github.com/ryo246912/bb-pr-stats/internal/lib/sl"
	"github.com/ryo246912/bb-pr-stats/internal/models"
	"github.com/ryo246912/bb-pr-stats/internal/report"
	"github.com/ryo246912/bb-pr-stats/internal/ui"
	"github.com/ryo246912/bb-pr-stats/internal/window"
)

func TestMain(m *testing.M) {
	pterm.DisableOutput()
	os.Exit(m.Run())
}

func millis(t *testing.T, value string) int64 {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts.UnixMilli()
}

func testCollection(t *testing.T, client bitbucket.BitbucketClient) collection {
	t.Helper()
	dir := t.TempDir()
	w, err := window.New("2024-03-06", "2024-03-13", time.UTC)
	require.NoError(t, err)

	return collection{
		cfg: &config.Config{
			ServerFQDN:       "code.example.com",
			BearerToken:      "abc",
			Usernames:        []string{"alice"},
			OutputFile:       filepath.Join(dir, "pr_stats_output.json"),
			TableOutputFile:  filepath.Join(dir, "pr_stats_output.csv"),
			PullRequestLimit: 1000,
			MaxWorkers:       1,
		},
		window:   w,
		client:   client,
		reporter: &ui.MockReporter{},
		prompter: &ui.MockPrompter{},
		display:  time.UTC,
		log:      sl.NewDiscardLogger(),
	}
}

func TestCollect_WritesReports(t *testing.T) {
	client := &bitbucket.MockClient{
		PullRequests: map[string][]models.PullRequest{
			"alice": {
				bitbucket.CreateTestPR(2, "alice", millis(t, "2024-03-07T10:00:00Z")),
				bitbucket.CreateTestPR(1, "alice", millis(t, "2024-03-01T10:00:00Z")),
			},
		},
		Commits: map[int][]models.Commit{2: {{ID: "c1"}}},
		Diffs:   map[string]models.LineStats{"c1": models.NewLineStats(3, 2)},
		IssuesError: map[int]error{
			2: bitbucket.NewNetworkError(),
		},
	}
	c := testCollection(t, client)

	require.NoError(t, collect(context.Background(), c))

	stats, err := report.ReadJSON(c.cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalPRCount)
	require.Len(t, stats.Users, 1)
	assert.Equal(t, "alice", stats.Users[0].Username)
	assert.Equal(t, 1, stats.Users[0].PRCount)
	rec := stats.Users[0].PRList[0]
	assert.Equal(t, models.LineStats{Added: 3, Deleted: 2, Modified: 5}, rec.LineStats)
	assert.Equal(t, []string{}, rec.Issues)

	assert.True(t, report.FileExists(c.cfg.TableOutputFile))
	assert.False(t, c.prompter.(*ui.MockPrompter).ConfirmOverwriteCalled)
}

func TestCollect_ConfirmOverwrite(t *testing.T) {
	tests := []struct {
		name          string
		existing      bool
		confirmed     bool
		promptErr     error
		expectedErr   error
		expectPrompt  bool
		expectWritten bool
	}{
		{name: "no existing files", existing: false, expectPrompt: false, expectWritten: true},
		{name: "user confirms", existing: true, confirmed: true, expectPrompt: true, expectWritten: true},
		{name: "user declines", existing: true, confirmed: false, expectPrompt: true, expectedErr: errCancelled},
		{name: "prompt fails", existing: true, promptErr: errors.New("no tty"), expectPrompt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCollection(t, &bitbucket.MockClient{})
			c.confirm = true
			prompter := &ui.MockPrompter{Confirmed: tt.confirmed, ConfirmationError: tt.promptErr}
			c.prompter = prompter
			if tt.existing {
				require.NoError(t, os.WriteFile(c.cfg.OutputFile, []byte("{}"), 0o600))
			}

			err := collect(context.Background(), c)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			case tt.promptErr != nil:
				assert.ErrorIs(t, err, tt.promptErr)
			default:
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectPrompt, prompter.ConfirmOverwriteCalled)
			if tt.expectPrompt {
				assert.Equal(t, c.cfg.OutputFile, prompter.LastPath)
			}
			assert.Equal(t, tt.expectWritten, report.FileExists(c.cfg.TableOutputFile))
		})
	}
}

func TestRootCommand_Args(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: []string{}},
		{name: "only start date", args: []string{"2024-03-06"}},
		{name: "too many", args: []string{"2024-03-06", "2024-03-13", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCommand()
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			assert.ErrorIs(t, err, errUsage)
		})
	}
}

func TestRootCommand_ConfigErrorsAbortEarly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bearer_token":"abc"}`), 0o600))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", path, "2024-03-06", "2024-03-13"})
	err := cmd.Execute()

	assert.ErrorIs(t, err, config.ErrMissingFQDN)
}

func TestRootCommand_BadDateIsUsageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bitbucket_server_fqdn":"code.example.com","bearer_token":"abc","display_timezone":"UTC"}`), 0o600))

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", path, "2024-13-06", "2024-03-13"})
	err := cmd.Execute()

	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, err.Error(), "invalid start date")
}
