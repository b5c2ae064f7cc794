package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ryo246912/bb-pr-stats/internal/models"
)

const (
	userColumnWidth   = 20
	numberColumnWidth = 9
)

func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// Truncate shortens str to at most width display cells, ending in "..."
func Truncate(str string, width int) string {
	return runewidth.Truncate(str, width, "...")
}

// FormatSummaryTable renders per-user totals with a trailing TOTAL row
func FormatSummaryTable(agg models.AggregateStats) string {
	var b strings.Builder
	writeRow(&b, "USER", "PRS", "COMMITS", "ADDED", "DELETED", "MODIFIED")

	var totalCommits int
	var totalLines models.LineStats
	for _, u := range agg.Users {
		commits := 0
		var lines models.LineStats
		for _, pr := range u.PRList {
			commits += pr.CommitCount
			lines = lines.Add(pr.LineStats)
		}
		totalCommits += commits
		totalLines = totalLines.Add(lines)

		name := u.Username
		if u.FetchError != "" {
			name += " (!)"
		}
		writeRow(&b, name,
			fmt.Sprint(u.PRCount),
			fmt.Sprint(commits),
			fmt.Sprint(lines.Added),
			fmt.Sprint(lines.Deleted),
			fmt.Sprint(lines.Modified),
		)
	}

	writeRow(&b, "TOTAL",
		fmt.Sprint(agg.TotalPRCount),
		fmt.Sprint(totalCommits),
		fmt.Sprint(totalLines.Added),
		fmt.Sprint(totalLines.Deleted),
		fmt.Sprint(totalLines.Modified),
	)
	return b.String()
}

func writeRow(b *strings.Builder, user string, cols ...string) {
	row := PadRight(Truncate(user, userColumnWidth), userColumnWidth)
	for _, c := range cols {
		row += " " + PadRight(c, numberColumnWidth)
	}
	b.WriteString(strings.TrimRight(row, " "))
	b.WriteString("\n")
}
