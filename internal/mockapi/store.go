// Package mockapi serves an in-memory implementation of the tasks REST API, for local
// development and tests.
package mockapi

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskdemo/internal/service"
)

var (
	errTaskNotFound    = errors.New("task not found")
	errClientNotFound  = errors.New("client not found")
	errInvalidCursor   = errors.New("invalid cursor")
	errDuplicateExtern = errors.New("external id already exists")
)

// Store keeps clients and tasks in memory.
type Store struct {
	mu      sync.RWMutex
	clients []service.Client
	tasks   map[string]service.Task
	now     func() time.Time
}

// NewStore returns an empty store using the wall clock.
func NewStore() *Store {
	return &Store{
		tasks: make(map[string]service.Task),
		now:   time.Now,
	}
}

// SetClock replaces the clock used for new timestamps and overdue checks.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddClient adds a client. An empty id gets a random UUID.
func (s *Store) AddClient(id, name string) service.Client {
	if id == "" {
		id = uuid.NewString()
	}
	c := service.Client{ID: id, Name: name}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, c)
	return c
}

// Put stores a task as-is, filling in a missing ID, status and timestamps.
func (s *Store) Put(t service.Task) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = service.StatusTodo
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now().UTC()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	s.tasks[t.ID] = t
	return t
}

// Clients returns the clients in insertion order.
func (s *Store) Clients() []service.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]service.Client, len(s.clients))
	copy(out, s.clients)
	return out
}

func (s *Store) hasClientLocked(id string) bool {
	for _, c := range s.clients {
		if c.ID == id {
			return true
		}
	}
	return false
}

// List returns one page of a client's tasks, newest first.
func (s *Store) List(clientID string, limit int, cursor string, status service.Status) (service.TaskPage, error) {
	var after *cursorKey
	if cursor != "" {
		k, err := decodeCursor(cursor)
		if err != nil {
			return service.TaskPage{}, err
		}
		after = &k
	}

	s.mu.RLock()
	matching := []service.Task{}
	for _, t := range s.tasks {
		if t.ClientID != clientID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		if after != nil && !after.before(t) {
			continue
		}
		matching = append(matching, t)
	}
	s.mu.RUnlock()

	sort.Slice(matching, func(i, j int) bool {
		return keyOf(matching[i]).before(matching[j])
	})

	page := service.TaskPage{Items: matching}
	if len(matching) > limit {
		page.Items = matching[:limit]
		page.HasMore = true
		page.NextCursor = encodeCursor(keyOf(page.Items[limit-1]))
	}
	return page, nil
}

// Create validates and stores a new task.
func (s *Store) Create(req service.CreateTaskRequest) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasClientLocked(req.ClientID) {
		return service.Task{}, errClientNotFound
	}
	if req.ExternalID != "" {
		for _, t := range s.tasks {
			if t.ExternalID == req.ExternalID {
				return service.Task{}, fmt.Errorf("%w: %s", errDuplicateExtern, req.ExternalID)
			}
		}
	}

	now := s.now().UTC()
	t := service.Task{
		ID:          uuid.NewString(),
		ClientID:    req.ClientID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      service.StatusTodo,
		DueDate:     req.DueDate,
		ExternalID:  req.ExternalID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	return t, nil
}

// Get returns a task by ID.
func (s *Store) Get(id string) (service.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return service.Task{}, errTaskNotFound
	}
	return t, nil
}

// SetStatus updates the status of a task.
func (s *Store) SetStatus(id string, status service.Status) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return service.Task{}, errTaskNotFound
	}
	t.Status = status
	t.UpdatedAt = s.now().UTC()
	s.tasks[id] = t
	return t, nil
}

// Delete removes a task.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return errTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

// OverdueCounts counts, per client, open tasks whose due date has passed.
func (s *Store) OverdueCounts() []service.OverdueCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	counts := make(map[string]int)
	for _, t := range s.tasks {
		if t.Status != service.StatusDone && t.DueDate != nil && t.DueDate.Before(now) {
			counts[t.ClientID]++
		}
	}
	out := make([]service.OverdueCount, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, service.OverdueCount{ClientID: c.ID, OverdueCount: counts[c.ID]})
	}
	return out
}

// cursorKey is the position of a task in newest-first order.
type cursorKey struct {
	createdAt time.Time
	id        string
}

func keyOf(t service.Task) cursorKey {
	return cursorKey{createdAt: t.CreatedAt, id: t.ID}
}

// before reports whether t comes after k in newest-first order.
func (k cursorKey) before(t service.Task) bool {
	if !t.CreatedAt.Equal(k.createdAt) {
		return t.CreatedAt.Before(k.createdAt)
	}
	return t.ID < k.id
}

func encodeCursor(k cursorKey) string {
	raw := k.createdAt.UTC().Format(time.RFC3339Nano) + "|" + k.id
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (cursorKey, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return cursorKey{}, errInvalidCursor
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return cursorKey{}, errInvalidCursor
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return cursorKey{}, errInvalidCursor
	}
	return cursorKey{createdAt: createdAt, id: id}, nil
}
