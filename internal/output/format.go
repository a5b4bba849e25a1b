// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"taskdemo/internal/service"
	"taskdemo/internal/tasklist"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// DateLayout is used for every date shown to the user.
	DateLayout = "Jan 2, 2006"

	dateTimeLayout = "Jan 2, 2006 15:04"
	detailIndent   = "          "
)

var titleCaser = cases.Title(language.English)

// StatusLabel returns the display form of a status, e.g. "Todo".
func StatusLabel(s service.Status) string {
	return titleCaser.String(string(s))
}

// ListOptions tunes RenderTaskList.
type ListOptions struct {
	// ClientName is shown in the header when set.
	ClientName string
	// MoreHint follows "Load More" when the control is enabled, e.g. "(type: more)".
	MoreHint string
}

// RenderTaskList writes the task list view of a snapshot.
//
// Confirmed entries are numbered from 1 in display order. Pending entries are marked
// with "*" and are not numbered.
func RenderTaskList(w io.Writer, s tasklist.Snapshot, opts ListOptions) {
	header := "Tasks"
	if opts.ClientName != "" {
		header += " for " + opts.ClientName
	}
	filter := s.Filter
	if filter == "" {
		filter = service.FilterAll
	}
	fmt.Fprintf(w, "%s (%s, filter: %s)\n", header, countLabel(len(s.Entries)), filter)
	fmt.Fprintln(w, ListSeparator)

	if s.Err != "" {
		fmt.Fprintf(w, "Error: %s\n", s.Err)
	}
	if s.ShowLoading() {
		fmt.Fprintln(w, "Loading tasks...")
	} else if msg, ok := s.EmptyMessage(); ok {
		fmt.Fprintln(w, msg)
	}

	num := 0
	for _, e := range s.Entries {
		if e.IsPending() {
			FormatPending(w, e.Task)
			continue
		}
		num++
		FormatTask(w, num, e.Task)
	}

	if visible, enabled := s.LoadMoreControl(); visible {
		fmt.Fprintln(w, ListSeparator)
		if enabled {
			line := "Load More"
			if opts.MoreHint != "" {
				line += " " + opts.MoreHint
			}
			fmt.Fprintln(w, line)
		} else {
			fmt.Fprintln(w, "Loading...")
		}
	}
	if s.ShowEndOfList() {
		fmt.Fprintln(w, ListSeparator)
		fmt.Fprintln(w, "End of list")
	}
}

// FormatTask formats a numbered task row.
// Format: "{N:>4}  {TITLE}  [{Status}]\n" followed by the description and dates.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s  [%s]\n", num, normalizeTitle(task.Title), StatusLabel(task.Status))
	formatTaskBody(w, task)
}

// FormatPending formats a task that is still being created.
func FormatPending(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4s  %s  [saving]\n", "*", normalizeTitle(task.Title))
	formatTaskBody(w, task)
}

func formatTaskBody(w io.Writer, task service.Task) {
	if d := strings.TrimSpace(task.Description); d != "" {
		fmt.Fprintln(w, detailIndent+singleLine(d))
	}
	line := "Created " + formatDate(task.CreatedAt)
	if task.DueDate != nil {
		line += ", due " + formatDate(*task.DueDate)
	}
	fmt.Fprintln(w, detailIndent+line)
}

// FormatTaskDetails writes all fields of one task.
func FormatTaskDetails(w io.Writer, task service.Task) {
	row := func(label, value string) {
		fmt.Fprintf(w, "%-12s %s\n", label+":", value)
	}
	row("ID", task.ID)
	row("Title", normalizeTitle(task.Title))
	row("Status", StatusLabel(task.Status))
	if task.Description != "" {
		row("Description", singleLine(task.Description))
	}
	if task.DueDate != nil {
		row("Due", formatDate(*task.DueDate))
	}
	if task.ExternalID != "" {
		row("External ID", task.ExternalID)
	}
	row("Created", formatDateTime(task.CreatedAt))
	row("Updated", formatDateTime(task.UpdatedAt))
}

// FormatClients writes the numbered client list, marking the selected one.
func FormatClients(w io.Writer, clients []service.Client, selectedID string) {
	if len(clients) == 0 {
		fmt.Fprintln(w, "No clients available.")
		return
	}
	for i, c := range clients {
		name := normalizeName(c.Name)
		if c.ID == selectedID {
			name += " [selected]"
		}
		fmt.Fprintf(w, "%4d  %s\n", i+1, name)
	}
}

// FormatOverdue writes one row per client with its overdue count. Counts for unknown
// clients are shown by ID.
func FormatOverdue(w io.Writer, counts []service.OverdueCount, clients []service.Client) {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = normalizeName(c.Name)
	}
	for _, oc := range counts {
		name, ok := names[oc.ClientID]
		if !ok {
			name = oc.ClientID
		}
		fmt.Fprintf(w, "%4d  %s\n", oc.OverdueCount, name)
	}
}

// FormatExternalList formats a list name of an import source.
func FormatExternalList(w io.Writer, list service.ExternalList) {
	title := normalizeName(list.Title)
	if list.IsDefault {
		title += " [default]"
	}
	fmt.Fprintln(w, title)
}

func countLabel(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

// Timestamps arrive in UTC; they are shown in the user's local zone.
func formatDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateTimeLayout)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = singleLine(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
