// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskdemo/internal/service"
)

// BaseTime is the creation time of the first task added with AddTask.
// Each later task is one minute newer.
var BaseTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// FakeService is an in-memory implementation of service.Service for testing.
// Tasks are listed newest first, like the real backend. Cursors are offsets.
type FakeService struct {
	mu      sync.RWMutex
	clients []service.Client
	tasks   []service.Task // insertion order, oldest first
	nextID  int
	now     time.Time

	// ListCalls records every ListTasks request.
	ListCalls []service.ListTasksParams
	// Created records every CreateTask request.
	Created []service.CreateTaskRequest

	// Error injection for testing
	HealthErr        error
	ListClientsErr   error
	ListTasksErr     error
	CreateTaskErr    error
	GetTaskErr       error
	UpdateStatusErr  error
	DeleteTaskErr    error
	OverdueCountsErr error

	// Overdue is returned by OverdueCounts.
	Overdue []service.OverdueCount
}

// NewFakeService creates a FakeService with no clients.
func NewFakeService() *FakeService {
	return &FakeService{now: BaseTime}
}

// AddClient adds a client.
func (f *FakeService) AddClient(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients = append(f.clients, service.Client{ID: id, Name: name})
}

// AddTask adds a todo task and returns it.
func (f *FakeService) AddTask(clientID, taskID, title string) service.Task {
	return f.AddTaskWithStatus(clientID, taskID, title, service.StatusTodo)
}

// AddTaskWithStatus adds a task with the given status and returns it.
func (f *FakeService) AddTaskWithStatus(clientID, taskID, title string, status service.Status) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(service.Task{ID: taskID, ClientID: clientID, Title: title, Status: status})
}

func (f *FakeService) insertLocked(t service.Task) service.Task {
	f.nextID++
	if t.ID == "" {
		t.ID = "task-" + strconv.Itoa(f.nextID)
	}
	ts := f.now
	f.now = f.now.Add(time.Minute)
	t.CreatedAt = ts
	t.UpdatedAt = ts
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns all tasks of a client, newest first.
func (f *FakeService) Tasks(clientID string) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filteredLocked(clientID, service.FilterAll)
}

func (f *FakeService) filteredLocked(clientID string, filter service.Filter) []service.Task {
	var out []service.Task
	for i := len(f.tasks) - 1; i >= 0; i-- {
		t := f.tasks[i]
		if t.ClientID != clientID {
			continue
		}
		if s := filter.Status(); s != "" && t.Status != s {
			continue
		}
		out = append(out, t)
	}
	return out
}

func notFound(op string) error {
	return &service.APIError{Op: op, StatusCode: http.StatusNotFound, Detail: "Task not found"}
}

// Health implements service.Service.
func (f *FakeService) Health(ctx context.Context) (service.Health, error) {
	if f.HealthErr != nil {
		return service.Health{}, f.HealthErr
	}
	return service.Health{Status: "ok", Message: "Tasks API is running"}, nil
}

// ListClients implements service.Service.
func (f *FakeService) ListClients(ctx context.Context) ([]service.Client, error) {
	if f.ListClientsErr != nil {
		return nil, f.ListClientsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Client, len(f.clients))
	copy(result, f.clients)
	return result, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, params service.ListTasksParams) (service.TaskPage, error) {
	f.mu.Lock()
	f.ListCalls = append(f.ListCalls, params)
	f.mu.Unlock()

	if f.ListTasksErr != nil {
		return service.TaskPage{}, f.ListTasksErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	all := f.filteredLocked(params.ClientID, params.Filter)
	start := 0
	if params.Cursor != "" {
		n, err := strconv.Atoi(params.Cursor)
		if err != nil || n < 0 {
			return service.TaskPage{}, &service.APIError{Op: "list tasks", StatusCode: http.StatusBadRequest, Detail: "Invalid cursor"}
		}
		start = n
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	page := service.TaskPage{Items: append([]service.Task{}, all[start:end]...)}
	if end < len(all) {
		page.HasMore = true
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, req service.CreateTaskRequest) (service.Task, error) {
	f.mu.Lock()
	f.Created = append(f.Created, req)
	f.mu.Unlock()

	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return service.Task{}, &service.APIError{Op: "create task", StatusCode: http.StatusUnprocessableEntity, Detail: "Title cannot be empty"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if req.ExternalID != "" {
		for _, t := range f.tasks {
			if t.ExternalID == req.ExternalID {
				return service.Task{}, &service.APIError{
					Op:         "create task",
					StatusCode: http.StatusConflict,
					Detail:     fmt.Sprintf("Task with external id %s already exists", req.ExternalID),
				}
			}
		}
	}
	return f.insertLocked(service.Task{
		ClientID:    req.ClientID,
		Title:       title,
		Description: req.Description,
		Status:      service.StatusTodo,
		DueDate:     req.DueDate,
		ExternalID:  req.ExternalID,
	}), nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, taskID string) (service.Task, error) {
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return service.Task{}, notFound("get task")
}

// UpdateTaskStatus implements service.Service.
func (f *FakeService) UpdateTaskStatus(ctx context.Context, taskID string, status service.Status) (service.Task, error) {
	if f.UpdateStatusErr != nil {
		return service.Task{}, f.UpdateStatusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks[i].Status = status
			f.tasks[i].UpdatedAt = f.now
			return f.tasks[i], nil
		}
	}
	return service.Task{}, notFound("update task status")
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound("delete task")
}

// OverdueCounts implements service.Service.
func (f *FakeService) OverdueCounts(ctx context.Context) ([]service.OverdueCount, error) {
	if f.OverdueCountsErr != nil {
		return nil, f.OverdueCountsErr
	}
	return f.Overdue, nil
}

// FakeSource is an in-memory service.ImportSource.
type FakeSource struct {
	ListsResult []service.ExternalList
	TasksByList map[string][]service.ExternalTask
	Err         error
}

// Lists implements service.ImportSource.
func (f *FakeSource) Lists(ctx context.Context) ([]service.ExternalList, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.ListsResult, nil
}

// OpenTasks implements service.ImportSource.
func (f *FakeSource) OpenTasks(ctx context.Context, listID string) ([]service.ExternalTask, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.TasksByList[listID], nil
}
