package tasklist

import (
	"fmt"

	"taskdemo/internal/service"
)

// Snapshot is an immutable copy of the model state, used for rendering.
type Snapshot struct {
	ClientID   string
	Filter     service.Filter
	Entries    []Entry
	Cursor     string
	HasMore    bool
	Loading    bool
	Submitting bool
	// Err is the current error message, empty when there is none.
	Err string
}

// Tasks returns the tasks of all entries in display order.
func (s Snapshot) Tasks() []service.Task {
	tasks := make([]service.Task, len(s.Entries))
	for i, e := range s.Entries {
		tasks[i] = e.Task
	}
	return tasks
}

// ShowLoading reports whether the loading indicator replaces the list.
func (s Snapshot) ShowLoading() bool {
	return s.Loading && len(s.Entries) == 0
}

// EmptyMessage returns the empty-state text when no fetch is running and there is
// nothing to show.
func (s Snapshot) EmptyMessage() (string, bool) {
	if s.Loading || len(s.Entries) > 0 {
		return "", false
	}
	if s.Filter == service.FilterAll || s.Filter == "" {
		return "No tasks yet. Create your first task above!", true
	}
	return fmt.Sprintf("No %s tasks found.", s.Filter), true
}

// LoadMoreControl reports whether the load-more control is shown and whether it
// accepts input. It is shown under a non-empty list while more pages exist and is
// disabled while a fetch is in flight.
func (s Snapshot) LoadMoreControl() (visible, enabled bool) {
	visible = s.HasMore && len(s.Entries) > 0
	return visible, visible && !s.Loading
}

// ShowEndOfList reports whether the end-of-list marker is shown.
func (s Snapshot) ShowEndOfList() bool {
	return !s.HasMore && len(s.Entries) > 0
}

// CanLoadMore reports whether LoadMore would issue a request.
func (s Snapshot) CanLoadMore() bool {
	return s.Cursor != "" && s.HasMore && !s.Loading
}
