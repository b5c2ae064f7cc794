package bitbucket

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryo246912/bb-pr-stats/internal/models"
)

// commitServer serves total commits in pages, failing every request whose
// start is failFrom or later when failFrom >= 0
func commitServer(t *testing.T, total, failFrom int) (http.Handler, *[]int) {
	var mu sync.Mutex
	starts := []int{}

	router := chi.NewRouter()
	router.Get("/rest/api/latest/projects/{project}/repos/{repo}/pull-requests/{id}/commits", func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		assert.Equal(t, CommitPageSize, limit)

		mu.Lock()
		starts = append(starts, start)
		mu.Unlock()

		if failFrom >= 0 && start >= failFrom {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}

		page := models.Page[models.Commit]{Start: start, Limit: limit}
		for i := start; i < total && i < start+limit; i++ {
			page.Values = append(page.Values, models.Commit{ID: fmt.Sprintf("c%02d", i)})
		}
		page.Size = len(page.Values)
		page.IsLastPage = start+limit >= total
		if !page.IsLastPage {
			page.NextPageStart = start + limit
		}
		writeJSON(w, r, page)
	})
	return router, &starts
}

func TestClient_ListCommits(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		failFrom       int
		expectedCount  int
		expectedStarts []int
	}{
		{name: "single page", total: 5, failFrom: -1, expectedCount: 5, expectedStarts: []int{0}},
		{name: "two pages of 25 and 5", total: 30, failFrom: -1, expectedCount: 30, expectedStarts: []int{0, 25}},
		{name: "exactly one full page", total: 25, failFrom: -1, expectedCount: 25, expectedStarts: []int{0}},
		{name: "empty pull request", total: 0, failFrom: -1, expectedCount: 0, expectedStarts: []int{0}},
		{name: "second page fails", total: 60, failFrom: 25, expectedCount: 25, expectedStarts: []int{0, 25, 25, 25}},
		{name: "first page fails", total: 10, failFrom: 0, expectedCount: 0, expectedStarts: []int{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, starts := commitServer(t, tt.total, tt.failFrom)
			client, _ := newTestClient(t, router)

			commits := client.ListCommits(context.Background(), "PROJ", "repo", 1)

			require.NotNil(t, commits)
			assert.Len(t, commits, tt.expectedCount)
			assert.Equal(t, tt.expectedStarts, *starts)
			for i, c := range commits {
				assert.Equal(t, fmt.Sprintf("c%02d", i), c.ID)
			}
		})
	}
}

func TestClient_ListCommits_StopsWhenNextPageDoesNotAdvance(t *testing.T) {
	calls := 0
	router := chi.NewRouter()
	router.Get("/rest/api/latest/projects/{project}/repos/{repo}/pull-requests/{id}/commits", func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, r, models.Page[models.Commit]{
			Values:        []models.Commit{{ID: "same"}},
			IsLastPage:    false,
			NextPageStart: 0,
		})
	})
	client, _ := newTestClient(t, router)

	commits := client.ListCommits(context.Background(), "PROJ", "repo", 1)

	assert.Len(t, commits, 1)
	assert.Equal(t, 1, calls)
}
