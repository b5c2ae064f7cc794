package ui

import (
	"sync"

	"github.com/ryo246912/bb-pr-stats/internal/models"
)

// Prompter defines interface for user interaction
type Prompter interface {
	ConfirmOverwrite(path string) (bool, error)
}

// DefaultPrompter implements the actual prompting logic
type DefaultPrompter struct{}

// ConfirmOverwrite asks whether an existing file may be replaced
func (p *DefaultPrompter) ConfirmOverwrite(path string) (bool, error) {
	return ConfirmOverwrite(path)
}

// ProgressReporter receives per-user progress of a run
type ProgressReporter interface {
	UserStarted(username string)
	UserDone(stats models.UserStats)
}

// NopReporter discards progress
type NopReporter struct{}

func (NopReporter) UserStarted(string)        {}
func (NopReporter) UserDone(models.UserStats) {}

// MockPrompter for testing
type MockPrompter struct {
	Confirmed         bool
	ConfirmationError error

	// Call tracking
	ConfirmOverwriteCalled bool
	LastPath               string
}

// ConfirmOverwrite mocks confirmation
func (m *MockPrompter) ConfirmOverwrite(path string) (bool, error) {
	m.ConfirmOverwriteCalled = true
	m.LastPath = path
	return m.Confirmed, m.ConfirmationError
}

// MockReporter records progress calls for testing
type MockReporter struct {
	mu      sync.Mutex
	Started []string
	Done    []models.UserStats
}

func (m *MockReporter) UserStarted(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started = append(m.Started, username)
}

func (m *MockReporter) UserDone(stats models.UserStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Done = append(m.Done, stats)
}
