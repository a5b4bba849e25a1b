package mockapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdemo/internal/service"
)

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore()
	Seed(store, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	srv := httptest.NewServer(NewHandler(store, Options{}))
	t.Cleanup(srv.Close)
	return srv, store
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestServer_ListTasksWireShape(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/tasks?client_id=" + DemoClientGlobex)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]any
	decode(t, resp, &raw)
	assert.Contains(t, raw, "items")
	assert.Contains(t, raw, "nextCursor")
	assert.Nil(t, raw["nextCursor"])
	assert.Equal(t, false, raw["hasMore"])

	items := raw["items"].([]any)
	require.Len(t, items, 1)
	first := items[0].(map[string]any)
	assert.Equal(t, DemoClientGlobex, first["clientId"])
	assert.Equal(t, "todo", first["status"])
	assert.Contains(t, first, "createdAt")
}

func TestServer_ListTasksEmpty(t *testing.T) {
	srv, store := newTestServer(t)
	empty := store.AddClient("", "Empty Co")

	queries := []string{
		"client_id=" + empty.ID,
		"client_id=" + DemoClientGlobex + "&status=done",
	}
	for _, q := range queries {
		resp, err := http.Get(srv.URL + "/api/tasks?" + q)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode, q)
		assert.Contains(t, string(body), `"items":[]`, q)
		assert.Contains(t, string(body), `"nextCursor":null`, q)
		assert.Contains(t, string(body), `"hasMore":false`, q)
	}
}

func TestServer_ListTasksValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing client", "", http.StatusUnprocessableEntity},
		{"bad limit", "client_id=" + DemoClientAcme + "&limit=0", http.StatusUnprocessableEntity},
		{"limit too large", "client_id=" + DemoClientAcme + "&limit=101", http.StatusUnprocessableEntity},
		{"bad status", "client_id=" + DemoClientAcme + "&status=later", http.StatusUnprocessableEntity},
		{"bad cursor", "client_id=" + DemoClientAcme + "&cursor=abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/tasks?" + tt.query)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestServer_CreateTask(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"clientId":"` + DemoClientGlobex + `","title":"  Ship it  ","description":"soon"}`
	resp, err := http.Post(srv.URL+"/api/tasks", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var task service.Task
	decode(t, resp, &task)
	assert.Equal(t, "Ship it", task.Title)
	assert.Equal(t, service.StatusTodo, task.Status)
	assert.NotEmpty(t, task.ID)
}

func TestServer_CreateTaskEmptyTitle(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"clientId":"` + DemoClientGlobex + `","title":"   "}`
	resp, err := http.Post(srv.URL+"/api/tasks", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var payload struct {
		Detail []validationIssue `json:"detail"`
	}
	decode(t, resp, &payload)
	require.Len(t, payload.Detail, 1)
	assert.Equal(t, "Title cannot be empty", payload.Detail[0].Msg)
}

func TestServer_CreateTaskTitleLengthCountsCharacters(t *testing.T) {
	srv, _ := newTestServer(t)

	post := func(title string) int {
		body, err := json.Marshal(map[string]string{"clientId": DemoClientGlobex, "title": title})
		require.NoError(t, err)
		resp, err := http.Post(srv.URL+"/api/tasks", "application/json", strings.NewReader(string(body)))
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusCreated, post(strings.Repeat("é", maxTitleLength)))
	assert.Equal(t, http.StatusUnprocessableEntity, post(strings.Repeat("é", maxTitleLength+1)))
}

func TestServer_StatusAndDelete(t *testing.T) {
	srv, store := newTestServer(t)
	task := store.Put(service.Task{ClientID: DemoClientGlobex, Title: "flip me"})

	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/tasks/"+task.ID+"/status", strings.NewReader(`{"status":"done"}`))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	var updated service.Task
	decode(t, resp, &updated)
	assert.Equal(t, service.StatusDone, updated.Status)

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/tasks/"+task.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/tasks/" + task.ID)
	require.NoError(t, err)
	var notFound map[string]string
	decode(t, resp, &notFound)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Task not found", notFound["detail"])
}

func TestServer_OverdueCountRouteWinsOverTaskID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/tasks/overdue-count")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var counts []service.OverdueCount
	decode(t, resp, &counts)
	require.Len(t, counts, 2)
	assert.Equal(t, DemoClientAcme, counts[0].ClientID)
	assert.Greater(t, counts[0].OverdueCount, 0)
}

func TestServer_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
