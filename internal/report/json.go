// Package report writes the aggregate of a run to disk: an indented JSON
// document mirroring models.AggregateStats and a flat CSV table with one row
// per enriched pull request.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ryo246912/bb-pr-stats/internal/models"
)

// WriteJSON writes stats to filePath atomically (temp file + rename)
func WriteJSON(filePath string, stats models.AggregateStats) error {
	return writeAtomic(filePath, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	})
}

// ReadJSON reads a file previously written by WriteJSON
func ReadJSON(filePath string) (models.AggregateStats, error) {
	var stats models.AggregateStats

	data, err := os.ReadFile(filePath)
	if err != nil {
		return stats, fmt.Errorf("failed to read JSON file %s: %w", filePath, err)
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return stats, fmt.Errorf("failed to parse JSON file %s: %w", filePath, err)
	}
	return stats, nil
}

// writeAtomic writes through a temp file next to filePath and renames it
// into place once the content is synced.
func writeAtomic(filePath string, write func(io.Writer) error) (err error) {
	tmpFile := filePath + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", tmpFile, err)
	}

	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tmpFile)
		}
	}()

	if err = write(file); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpFile, err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file %s: %w", tmpFile, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", tmpFile, err)
	}
	if err = os.Rename(tmpFile, filePath); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file to %s: %w", filePath, err)
	}
	return nil
}

// FileExists reports whether path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
