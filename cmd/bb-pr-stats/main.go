package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/ryo246912/bb-pr-stats/internal/bitbucket"
	"github.com/ryo246912/bb-pr-stats/internal/config"
	"github.com/ryo246912/bb-pr-stats/internal/lib/sl"
	"github.com/ryo246912/bb-pr-stats/internal/models"
	"github.com/ryo246912/bb-pr-stats/internal/report"
	"github.com/ryo246912/bb-pr-stats/internal/service"
	"github.com/ryo246912/bb-pr-stats/internal/ui"
	"github.com/ryo246912/bb-pr-stats/internal/window"
)

// Version can be overridden at build time with -ldflags "-X main.Version=..."
var Version = "dev"

var errUsage = errors.New("usage error")

const usageText = `Please provide start date and end date as command line arguments.
Usage: bb-pr-stats <start_date> <end_date>
Example: bb-pr-stats 2024-03-06 2024-03-13
The dates should be in the format YYYY-MM-DD`

var errCancelled = errors.New("cancelled: output files left untouched")

type runOptions struct {
	configPath       string
	verbose          bool
	confirmOverwrite bool
}

// collection is everything a run needs once configuration is resolved
type collection struct {
	cfg      *config.Config
	window   window.Window
	client   bitbucket.BitbucketClient
	reporter ui.ProgressReporter
	prompter ui.Prompter
	display  *time.Location
	log      *slog.Logger
	confirm  bool
}

func runCommand(ctx context.Context, opts *runOptions, startDate, endDate string) error {
	cfg, err := config.Load(config.ResolvePath(opts.configPath))
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	log, err := sl.NewLogger(os.Stderr, level)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	windowLoc, err := window.LoadLocation(cfg.WindowTimezone, time.Local)
	if err != nil {
		return err
	}
	displayLoc, err := window.LoadLocation(cfg.DisplayTimezone, time.UTC)
	if err != nil {
		return err
	}

	w, err := window.New(startDate, endDate, windowLoc)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	client, err := bitbucket.NewClient(bitbucket.Options{
		BaseURL: bitbucket.BaseURLForHost(cfg.ServerFQDN),
		Token:   cfg.BearerToken,
		Timeout: cfg.RequestTimeout(),
		Retry: bitbucket.RetryPolicy{
			MaxAttempts: cfg.RetryAttempts,
			Backoff:     bitbucket.ConstantBackoff(cfg.RetryDelay()),
			Sleep:       bitbucket.SleepContext,
		},
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("failed to create Bitbucket client: %w", err)
	}

	return collect(ctx, collection{
		cfg:      cfg,
		window:   w,
		client:   client,
		reporter: ui.NewTerminalReporter(),
		prompter: &ui.DefaultPrompter{},
		display:  displayLoc,
		log:      log,
		confirm:  opts.confirmOverwrite,
	})
}

// collect runs the pipeline and writes both reports
func collect(ctx context.Context, c collection) error {
	if c.confirm {
		ok, err := confirmOverwrite(c.prompter, c.cfg.OutputFile, c.cfg.TableOutputFile)
		if err != nil {
			return err
		}
		if !ok {
			return errCancelled
		}
	}

	c.log.Info("collecting pull request stats",
		slog.String("start", c.window.Start),
		slog.String("end", c.window.End),
		slog.Int("users", len(c.cfg.Usernames)),
	)
	ui.PrintSectionHeader(fmt.Sprintf("Fetching pull request stats for the period %s to %s", c.window.Start, c.window.End))

	svc := service.NewStatsService(c.client, c.reporter, service.Options{
		PullRequestLimit: c.cfg.PullRequestLimit,
		MaxWorkers:       c.cfg.MaxWorkers,
		DisplayLocation:  c.display,
		Logger:           c.log,
	})
	stats, err := svc.Collect(ctx, c.cfg.Usernames, c.window)
	if err != nil {
		return fmt.Errorf("failed to collect pull request stats: %w", err)
	}

	return writeReports(c.cfg, stats)
}

func writeReports(cfg *config.Config, stats models.AggregateStats) error {
	if err := report.WriteJSON(cfg.OutputFile, stats); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	if err := report.WriteCSV(cfg.TableOutputFile, stats); err != nil {
		return fmt.Errorf("failed to write table report: %w", err)
	}

	ui.PrintSummary(stats)
	ui.PrintWritten(cfg.OutputFile, cfg.TableOutputFile)
	return nil
}

// confirmOverwrite asks once if any of paths already exists
func confirmOverwrite(p ui.Prompter, paths ...string) (bool, error) {
	for _, path := range paths {
		if report.FileExists(path) {
			return p.ConfirmOverwrite(path)
		}
	}
	return true, nil
}

func newRootCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "bb-pr-stats <start_date> <end_date>",
		Short: "Collect pull request statistics from a Bitbucket Server",
		Long: `bb-pr-stats lists the pull requests authored by each configured user
between two dates (inclusive), adds commit, line-change and linked issue
data to each of them and writes the result as JSON and CSV.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), opts, args[0], args[1])
		},
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to the JSON config file (default: $CONFIG_PATH or config.json)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.confirmOverwrite, "confirm-overwrite", false, "Ask before replacing existing output files")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCommand().ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, errCancelled):
		fmt.Fprintln(os.Stderr, err)
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, usageText)
		if err != errUsage {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
