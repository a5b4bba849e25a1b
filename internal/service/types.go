// Package service defines the backend-agnostic types and interface for task operations.
package service

import "time"

// Status is the persisted state of a task.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusDone
}

// Filter restricts which task statuses the list endpoint returns.
type Filter string

const (
	FilterAll  Filter = "all"
	FilterTodo Filter = "todo"
	FilterDone Filter = "done"
)

// ParseFilter parses a filter name. The empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterTodo, FilterDone:
		return Filter(s), nil
	}
	return "", &InvalidFilterError{Value: s}
}

// Status returns the status sent on the wire, or "" for FilterAll.
func (f Filter) Status() Status {
	if f == FilterAll || f == "" {
		return ""
	}
	return Status(f)
}

// InvalidFilterError is returned by ParseFilter.
type InvalidFilterError struct {
	Value string
}

func (e *InvalidFilterError) Error() string {
	return "invalid status filter: " + e.Value + " (want all, todo or done)"
}

// Task is a task as persisted by the backend.
type Task struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"clientId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ExternalID  string     `json:"externalId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateTaskRequest asks the backend to create a task.
// The backend assigns the ID, status and timestamps.
type CreateTaskRequest struct {
	ClientID    string     `json:"clientId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ExternalID  string     `json:"externalId,omitempty"`
}

// UpdateTaskStatusRequest changes the status of an existing task.
type UpdateTaskStatusRequest struct {
	Status Status `json:"status"`
}

// ListTasksParams selects one page of a client's tasks.
type ListTasksParams struct {
	ClientID string
	Limit    int
	// Cursor is the continuation token of the previous page; empty for the first page.
	Cursor string
	Filter Filter
}

// TaskPage is one page of tasks plus the token to continue from.
type TaskPage struct {
	Items []Task `json:"items"`
	// NextCursor is empty when the backend returned null.
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// Client owns tasks. Read-only from this side.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OverdueCount is the number of open tasks past their due date for one client.
type OverdueCount struct {
	ClientID     string `json:"clientId"`
	OverdueCount int    `json:"overdueCount"`
}

// Health is the backend liveness report.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ExternalTask is a task read from an import source.
type ExternalTask struct {
	ID    string
	Title string
	Notes string
	Due   *time.Time
}

// ExternalList is a task list in an import source.
type ExternalList struct {
	ID        string
	Title     string
	IsDefault bool
}
