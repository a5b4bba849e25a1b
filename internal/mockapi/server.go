package mockapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"taskdemo/internal/logging"
	"taskdemo/internal/service"
)

const (
	defaultLimit   = 20
	maxLimit       = 100
	maxTitleLength = 500
)

// Options configures the HTTP handler.
type Options struct {
	Logger *slog.Logger
	// AllowedOrigins for CORS. Defaults to the Vite dev server origin.
	AllowedOrigins []string
}

// NewHandler returns the router serving the tasks API from store.
func NewHandler(store *Store, opts Options) http.Handler {
	logger := logging.OrDiscard(opts.Logger).With("component", "mockapi")
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	h := &handlers{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, requestLogger(logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/health", h.health)
	r.Get("/api/clients", h.listClients)
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", h.listTasks)
		r.Post("/", h.createTask)
		r.Get("/overdue-count", h.overdueCount)
		r.Get("/{taskID}", h.getTask)
		r.Patch("/{taskID}/status", h.updateStatus)
		r.Delete("/{taskID}", h.deleteTask)
	})
	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"elapsed", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

type handlers struct {
	store  *Store
	logger *slog.Logger
}

type createTaskBody struct {
	ClientID    string     `json:"clientId"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	ExternalID  *string    `json:"externalId"`
}

// pageBody always carries nextCursor, null on the last page.
type pageBody struct {
	Items      []service.Task `json:"items"`
	NextCursor *string        `json:"nextCursor"`
	HasMore    bool           `json:"hasMore"`
}

type updateStatusBody struct {
	Status string `json:"status"`
}

type validationIssue struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.Health{Status: "ok", Message: "Tasks API is running"})
}

func (h *handlers) listClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Clients())
}

func (h *handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	clientID := q.Get("client_id")
	if _, err := uuid.Parse(clientID); err != nil {
		writeValidation(w, "query", "client_id", "client_id must be a valid UUID")
		return
	}

	limit := defaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			writeValidation(w, "query", "limit", "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	status := service.Status(q.Get("status"))
	if status != "" && !status.Valid() {
		writeValidation(w, "query", "status", "status must be todo or done")
		return
	}

	page, err := h.store.List(clientID, limit, q.Get("cursor"), status)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid cursor")
		return
	}
	body := pageBody{Items: page.Items, HasMore: page.HasMore}
	if page.NextCursor != "" {
		body.NextCursor = &page.NextCursor
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *handlers) createTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidation(w, "body", "", "request body must be a JSON object")
		return
	}
	if _, err := uuid.Parse(body.ClientID); err != nil {
		writeValidation(w, "body", "clientId", "clientId must be a valid UUID")
		return
	}
	if body.Title == nil {
		writeValidation(w, "body", "title", "Field required")
		return
	}
	title := strings.TrimSpace(*body.Title)
	if title == "" {
		writeValidation(w, "body", "title", "Title cannot be empty")
		return
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		writeValidation(w, "body", "title", "Title must be at most 500 characters")
		return
	}

	req := service.CreateTaskRequest{ClientID: body.ClientID, Title: title, DueDate: body.DueDate}
	if body.Description != nil {
		req.Description = *body.Description
	}
	if body.ExternalID != nil {
		req.ExternalID = strings.TrimSpace(*body.ExternalID)
	}

	task, err := h.store.Create(req)
	switch {
	case errors.Is(err, errClientNotFound):
		writeDetail(w, http.StatusNotFound, "Client not found")
		return
	case errors.Is(err, errDuplicateExtern):
		writeDetail(w, http.StatusConflict, "Task with external id "+req.ExternalID+" already exists")
		return
	case err != nil:
		h.logger.Error("create task failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *handlers) taskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "taskID")
	if _, err := uuid.Parse(id); err != nil {
		writeValidation(w, "path", "task_id", "task_id must be a valid UUID")
		return "", false
	}
	return id, true
}

func (h *handlers) getTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	task, err := h.store.Get(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handlers) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	var body updateStatusBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !service.Status(body.Status).Valid() {
		writeValidation(w, "body", "status", "status must be todo or done")
		return
	}
	task, err := h.store.SetStatus(id, service.Status(body.Status))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(id); err != nil {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (h *handlers) overdueCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.OverdueCounts())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidation writes a 422 in the list-of-issues shape.
func writeValidation(w http.ResponseWriter, where, field, msg string) {
	loc := []string{where}
	if field != "" {
		loc = append(loc, field)
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string][]validationIssue{
		"detail": {{Loc: loc, Msg: msg}},
	})
}
