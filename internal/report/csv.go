package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/ryo246912/bb-pr-stats/internal/models"
)

// TableHeader is the header row of the tabular report
var TableHeader = []string{
	"Author",
	"Repository",
	"Title",
	"State",
	"Created Date",
	"Destination Branch",
	"Link",
	"Issues",
	"Lines Added",
	"Lines Deleted",
	"Lines Modified",
	"Commit Count",
	"Commits",
}

// TableRows flattens stats into one row per pull request, users in order
func TableRows(stats models.AggregateStats) [][]string {
	rows := [][]string{}
	for _, u := range stats.Users {
		for _, pr := range u.PRList {
			rows = append(rows, []string{
				pr.AuthorDisplayName,
				pr.Repo,
				pr.Title,
				pr.State,
				pr.CreatedDate,
				pr.DestBranch,
				pr.PRLink,
				strings.Join(pr.Issues, ", "),
				strconv.Itoa(pr.Added),
				strconv.Itoa(pr.Deleted),
				strconv.Itoa(pr.Modified),
				strconv.Itoa(pr.CommitCount),
				strings.Join(pr.Commits, ", "),
			})
		}
	}
	return rows
}

// WriteCSV writes the tabular report to filePath atomically
func WriteCSV(filePath string, stats models.AggregateStats) error {
	return writeAtomic(filePath, func(w io.Writer) error {
		return EncodeCSV(w, stats)
	})
}

// EncodeCSV writes the header and every row to w
func EncodeCSV(w io.Writer, stats models.AggregateStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TableHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(TableRows(stats)); err != nil {
		return err
	}
	return cw.Error()
}
