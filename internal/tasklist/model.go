package tasklist

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskdemo/internal/logging"
	"taskdemo/internal/service"
)

// DefaultPageSize is the number of tasks requested per page.
const DefaultPageSize = 10

const (
	fetchFallback  = "Failed to fetch tasks"
	createFallback = "Failed to create task"
)

var (
	// ErrNoClient is returned when an operation needs a client and none is set.
	ErrNoClient = errors.New("no client selected")

	// ErrEmptyTitle is returned by Create when the trimmed title is empty.
	ErrEmptyTitle = errors.New("title required")

	// ErrLoadMoreUnavailable is returned by LoadMore when there is no cursor, no more
	// pages, or a fetch is already in flight. No request is issued.
	ErrLoadMoreUnavailable = errors.New("nothing more to load")

	// ErrCreateInFlight is returned by Create while a previous create is unresolved.
	ErrCreateInFlight = errors.New("a task is already being created")

	// ErrSuperseded is returned by a fetch whose result was discarded because the
	// client or filter changed while it was in flight.
	ErrSuperseded = errors.New("fetch superseded")
)

// Backend is the part of service.Service the list needs.
type Backend interface {
	ListTasks(ctx context.Context, params service.ListTasksParams) (service.TaskPage, error)
	CreateTask(ctx context.Context, req service.CreateTaskRequest) (service.Task, error)
}

// Options configures a Model. The zero value is usable.
type Options struct {
	// PageSize defaults to DefaultPageSize.
	PageSize int

	// Filter is the initial status filter. Defaults to service.FilterAll.
	Filter service.Filter

	Logger *slog.Logger

	// OnChange is called with a fresh snapshot after every state change.
	// It runs on the goroutine that made the change, outside the model lock.
	OnChange func(Snapshot)

	// Now and NewRef are overridable for tests.
	Now    func() time.Time
	NewRef func() uuid.UUID
}

// Model is the task list state for one mounted client.
//
// Every reset (client change, filter change, refresh) starts a new generation. The
// request of the previous generation is cancelled, and a response that still arrives
// for it is dropped without touching state.
type Model struct {
	backend  Backend
	pageSize int
	logger   *slog.Logger
	onChange func(Snapshot)
	now      func() time.Time
	newRef   func() uuid.UUID

	mu         sync.Mutex
	clientID   string
	filter     service.Filter
	entries    []Entry
	cursor     string
	hasMore    bool
	loading    bool
	submitting bool
	errMsg     string
	gen        uint64
	cancel     context.CancelFunc
}

// New returns an unmounted model. Call SetClient to start fetching.
func New(backend Backend, opts Options) *Model {
	m := &Model{
		backend:  backend,
		pageSize: opts.PageSize,
		logger:   logging.OrDiscard(opts.Logger).With("component", "tasklist"),
		onChange: opts.OnChange,
		now:      opts.Now,
		newRef:   opts.NewRef,
		filter:   opts.Filter,
		hasMore:  true,
	}
	if m.filter == "" {
		m.filter = service.FilterAll
	}
	if m.pageSize <= 0 {
		m.pageSize = DefaultPageSize
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newRef == nil {
		m.newRef = uuid.New
	}
	return m
}

// Snapshot returns a copy of the current state.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Model) snapshotLocked() Snapshot {
	entries := make([]Entry, len(m.entries))
	copy(entries, m.entries)
	return Snapshot{
		ClientID:   m.clientID,
		Filter:     m.filter,
		Entries:    entries,
		Cursor:     m.cursor,
		HasMore:    m.hasMore,
		Loading:    m.loading,
		Submitting: m.submitting,
		Err:        m.errMsg,
	}
}

// SetClient mounts the list on clientID and fetches its first page.
func (m *Model) SetClient(ctx context.Context, clientID string) error {
	m.mu.Lock()
	m.clientID = clientID
	return m.resetAndFetch(ctx)
}

// SetFilter switches the status filter and fetches the first page again.
// Already fetched entries are discarded, not filtered locally.
func (m *Model) SetFilter(ctx context.Context, filter service.Filter) error {
	if filter == "" {
		filter = service.FilterAll
	}
	m.mu.Lock()
	m.filter = filter
	return m.resetAndFetch(ctx)
}

// Refresh discards the accumulated entries and fetches the first page again.
func (m *Model) Refresh(ctx context.Context) error {
	m.mu.Lock()
	return m.resetAndFetch(ctx)
}

// LoadMore fetches the page after the stored cursor and appends it.
func (m *Model) LoadMore(ctx context.Context) error {
	m.mu.Lock()
	if m.cursor == "" || !m.hasMore || m.loading {
		m.mu.Unlock()
		return ErrLoadMoreUnavailable
	}
	f := m.beginFetchLocked(ctx, m.cursor)
	m.mu.Unlock()
	m.notify()
	return m.runFetch(f)
}

// resetAndFetch must be called with m.mu held; it releases it.
func (m *Model) resetAndFetch(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	m.entries = nil
	m.cursor = ""
	m.hasMore = true
	m.loading = false
	m.submitting = false

	if m.clientID == "" {
		m.mu.Unlock()
		m.notify()
		return ErrNoClient
	}

	f := m.beginFetchLocked(ctx, "")
	m.mu.Unlock()
	m.notify()
	return m.runFetch(f)
}

type fetch struct {
	ctx          context.Context
	cancel       context.CancelFunc
	gen          uint64
	params       service.ListTasksParams
	continuation bool
}

func (m *Model) beginFetchLocked(ctx context.Context, cursor string) *fetch {
	fctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.loading = true
	m.errMsg = ""
	return &fetch{
		ctx:    fctx,
		cancel: cancel,
		gen:    m.gen,
		params: service.ListTasksParams{
			ClientID: m.clientID,
			Limit:    m.pageSize,
			Cursor:   cursor,
			Filter:   m.filter,
		},
		continuation: cursor != "",
	}
}

func (m *Model) runFetch(f *fetch) error {
	defer f.cancel()

	log := m.logger.With("client_id", f.params.ClientID, "filter", string(f.params.Filter), "continuation", f.continuation)
	log.Debug("fetching tasks")

	page, err := m.backend.ListTasks(f.ctx, f.params)

	m.mu.Lock()
	if f.gen != m.gen {
		m.mu.Unlock()
		log.Debug("dropping superseded response")
		return ErrSuperseded
	}
	m.loading = false
	m.cancel = nil

	if err != nil {
		m.errMsg = service.DisplayMessage(err, fetchFallback)
		m.hasMore = false
		m.mu.Unlock()
		log.Warn("fetch tasks failed", "error", err)
		m.notify()
		return err
	}

	if f.continuation {
		m.entries = append(m.entries, confirmed(page.Items)...)
	} else {
		m.entries = confirmed(page.Items)
	}
	m.cursor = page.NextCursor
	m.hasMore = page.HasMore
	total := len(m.entries)
	m.mu.Unlock()

	log.Debug("fetched tasks", "received", len(page.Items), "total", total, "has_more", page.HasMore)
	m.notify()
	return nil
}

// Create inserts a pending entry at the top, then asks the backend to create the task.
// On success the pending entry is replaced in place by the created task; on failure it
// is removed and the error becomes the current error. A reset while the call is in
// flight detaches it: the result is returned to the caller but leaves the list alone.
func (m *Model) Create(ctx context.Context, title, description string) (service.Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return service.Task{}, ErrEmptyTitle
	}

	m.mu.Lock()
	if m.clientID == "" {
		m.mu.Unlock()
		return service.Task{}, ErrNoClient
	}
	if m.submitting {
		m.mu.Unlock()
		return service.Task{}, ErrCreateInFlight
	}

	ref := m.newRef()
	now := m.now().UTC()
	pending := Entry{
		Kind: Pending,
		Ref:  ref,
		Task: service.Task{
			ClientID:    m.clientID,
			Title:       title,
			Description: description,
			Status:      service.StatusTodo,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	m.entries = append([]Entry{pending}, m.entries...)
	m.submitting = true
	m.errMsg = ""
	gen := m.gen
	req := service.CreateTaskRequest{
		ClientID:    m.clientID,
		Title:       title,
		Description: description,
	}
	m.mu.Unlock()
	m.notify()

	log := m.logger.With("client_id", req.ClientID, "ref", ref.String())
	log.Debug("creating task")

	created, err := m.backend.CreateTask(ctx, req)

	m.mu.Lock()
	if gen != m.gen {
		// The list was reset while the create was in flight; its pending entry is gone
		// and the flags belong to the new generation.
		m.mu.Unlock()
		if err != nil {
			log.Warn("create task failed after reset", "error", err)
			return service.Task{}, err
		}
		log.Debug("created task after reset", "task_id", created.ID)
		return created, nil
	}
	m.submitting = false
	idx := m.indexOfRefLocked(ref)
	if err != nil {
		if idx >= 0 {
			m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
		}
		m.errMsg = service.DisplayMessage(err, createFallback)
		m.mu.Unlock()
		log.Warn("create task failed", "error", err)
		m.notify()
		return service.Task{}, err
	}
	if idx >= 0 {
		m.entries[idx] = Entry{Kind: Confirmed, Task: created}
	}
	m.mu.Unlock()

	log.Debug("created task", "task_id", created.ID, "replaced", idx >= 0)
	m.notify()
	return created, nil
}

func (m *Model) indexOfRefLocked(ref uuid.UUID) int {
	for i, e := range m.entries {
		if e.Kind == Pending && e.Ref == ref {
			return i
		}
	}
	return -1
}

// ClearError dismisses the current error.
func (m *Model) ClearError() {
	m.mu.Lock()
	m.errMsg = ""
	m.mu.Unlock()
	m.notify()
}

// Close cancels any in-flight fetch. Its response will be dropped.
func (m *Model) Close() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	m.loading = false
	m.submitting = false
	m.mu.Unlock()
}

func (m *Model) notify() {
	if m.onChange == nil {
		return
	}
	m.onChange(m.Snapshot())
}
