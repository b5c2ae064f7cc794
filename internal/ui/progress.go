package ui

import (
	"sync"

	"github.com/pterm/pterm"

	"github.com/ryo246912/bb-pr-stats/internal/models"
)

// TerminalReporter prints progress lines to stdout
type TerminalReporter struct {
	// pterm printers are shared globals
	mu sync.Mutex
}

func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{}
}

func (r *TerminalReporter) UserStarted(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pterm.Info.Printfln("Fetching pull requests for %s", username)
}

func (r *TerminalReporter) UserDone(stats models.UserStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats.FetchError != "" {
		pterm.Warning.Printfln("%s: pull requests could not be listed", stats.Username)
		return
	}
	pterm.Success.Printfln("%s: %d pull request(s) in window", stats.Username, stats.PRCount)
}

// PrintSectionHeader prints a prominent section header
func PrintSectionHeader(title string) {
	pterm.Println()
	pterm.DefaultSection.Println(title)
}

// PrintSummary prints the per-user summary table
func PrintSummary(agg models.AggregateStats) {
	PrintSectionHeader("Summary " + agg.StartDate + " .. " + agg.EndDate)
	pterm.Print(FormatSummaryTable(agg))
}

// PrintWritten reports the files a run produced
func PrintWritten(paths ...string) {
	for _, path := range paths {
		pterm.Success.Printfln("Wrote %s", path)
	}
}
