package googletasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdemo/internal/service"
)

func newFakeGoogle(t *testing.T) *Source {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("/tasks/v1/users/@me/lists/@default", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"id": "L1", "title": "My Tasks"})
	})
	mux.HandleFunc("/tasks/v1/users/@me/lists", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(w, map[string]any{
				"items":         []any{map[string]any{"id": "L1", "title": "My Tasks"}},
				"nextPageToken": "p2",
			})
			return
		}
		writeJSON(w, map[string]any{"items": []any{map[string]any{"id": "L2", "title": "Work"}}})
	})
	mux.HandleFunc("/tasks/v1/lists/L2/tasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("showCompleted"))
		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(w, map[string]any{
				"items": []any{map[string]any{
					"id": "g1", "title": "Send invoice", "notes": "March", "due": "2024-03-01T00:00:00.000Z",
				}},
				"nextPageToken": "next",
			})
			return
		}
		writeJSON(w, map[string]any{"items": []any{map[string]any{"id": "g2", "title": "Call bank"}}})
	})
	mux.HandleFunc("/tasks/v1/lists/gone/tasks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Not Found"}}`))
	})
	mux.HandleFunc("/tasks/v1/lists/denied/tasks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	src, err := NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)
	return src
}

func TestSource_Lists(t *testing.T) {
	src := newFakeGoogle(t)

	lists, err := src.Lists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []service.ExternalList{
		{ID: DefaultListID, Title: "My Tasks", IsDefault: true},
		{ID: "L2", Title: "Work"},
	}, lists)
}

func TestSource_OpenTasksAcrossPages(t *testing.T) {
	src := newFakeGoogle(t)

	got, err := src.OpenTasks(context.Background(), "L2")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "g1", got[0].ID)
	assert.Equal(t, "March", got[0].Notes)
	require.NotNil(t, got[0].Due)
	assert.True(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Equal(*got[0].Due))

	assert.Equal(t, "Call bank", got[1].Title)
	assert.Nil(t, got[1].Due)
}

func TestSource_Errors(t *testing.T) {
	src := newFakeGoogle(t)

	_, err := src.OpenTasks(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.OpenTasks(context.Background(), "denied")
	assert.ErrorIs(t, err, ErrTokenRejected)
}
