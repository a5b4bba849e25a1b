package service

import "context"

// Service defines the task backend operations.
// Views and commands never talk HTTP directly.
type Service interface {
	// Health reports whether the backend is up.
	Health(ctx context.Context) (Health, error)

	// ListClients returns all clients in backend order.
	ListClients(ctx context.Context) ([]Client, error)

	// ListTasks returns one page of a client's tasks.
	ListTasks(ctx context.Context, params ListTasksParams) (TaskPage, error)

	// CreateTask creates a task and returns it as persisted.
	CreateTask(ctx context.Context, req CreateTaskRequest) (Task, error)

	// GetTask returns a single task by ID.
	GetTask(ctx context.Context, taskID string) (Task, error)

	// UpdateTaskStatus sets the status of a task and returns the updated task.
	UpdateTaskStatus(ctx context.Context, taskID string, status Status) (Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, taskID string) error

	// OverdueCounts returns per-client counts of open tasks past due.
	OverdueCounts(ctx context.Context) ([]OverdueCount, error)
}

// ImportSource reads tasks from an external task system.
type ImportSource interface {
	// Lists returns the task lists of the source.
	Lists(ctx context.Context) ([]ExternalList, error)

	// OpenTasks returns every open task of a list, across all pages.
	OpenTasks(ctx context.Context, listID string) ([]ExternalTask, error)
}
