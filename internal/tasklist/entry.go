// Package tasklist holds the state of one client's task list: paginated fetching with a
// cursor, server-side status filtering, and optimistic task creation.
package tasklist

import (
	"github.com/google/uuid"

	"taskdemo/internal/service"
)

// Kind tells a server-confirmed entry from a provisional one.
type Kind int

const (
	// Confirmed entries were returned by the backend.
	Confirmed Kind = iota
	// Pending entries were inserted locally and await the create response.
	Pending
)

func (k Kind) String() string {
	if k == Pending {
		return "pending"
	}
	return "confirmed"
}

// Entry is one row of the list.
type Entry struct {
	Kind Kind
	Task service.Task
	// Ref identifies a pending entry until it is replaced or rolled back.
	// It is the zero UUID for confirmed entries.
	Ref uuid.UUID
}

// IsPending reports whether the entry is still awaiting the backend.
func (e Entry) IsPending() bool {
	return e.Kind == Pending
}

func confirmed(tasks []service.Task) []Entry {
	entries := make([]Entry, len(tasks))
	for i, t := range tasks {
		entries[i] = Entry{Kind: Confirmed, Task: t}
	}
	return entries
}
