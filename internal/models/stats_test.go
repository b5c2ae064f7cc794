package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineStats_Add(t *testing.T) {
	tests := []struct {
		name     string
		a        LineStats
		b        LineStats
		expected LineStats
	}{
		{
			name:     "zero plus zero",
			expected: LineStats{},
		},
		{
			name:     "sums added and deleted",
			a:        NewLineStats(3, 2),
			b:        NewLineStats(10, 1),
			expected: LineStats{Added: 13, Deleted: 3, Modified: 16},
		},
		{
			name:     "modified is recomputed from parts",
			a:        LineStats{Added: 1, Deleted: 1, Modified: 99},
			b:        NewLineStats(0, 0),
			expected: LineStats{Added: 1, Deleted: 1, Modified: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Add(tt.b)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got.Added+got.Deleted, got.Modified)
		})
	}
}

func TestPullRequestRecord_JSONFlattensLineStats(t *testing.T) {
	rec := PullRequestRecord{
		ID:        7,
		LineStats: NewLineStats(3, 2),
		Commits:   []string{"abc"},
		Issues:    []string{},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 3, decoded["lines_added"])
	assert.EqualValues(t, 2, decoded["lines_deleted"])
	assert.EqualValues(t, 5, decoded["lines_modified"])
	assert.NotContains(t, decoded, "LineStats")
}

func TestUserStats_FetchErrorOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(UserStats{Username: "alice", PRList: []PullRequestRecord{}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "fetch_error")
}
