package commands

import (
	"context"
	"errors"

	"taskdemo/internal/config"
	"taskdemo/internal/service"
)

var errOutOfRange = errors.New("task number out of range")

// pageWalker fetches a client's listing page by page, keeping what it has seen, so
// several positions can be resolved with the fewest requests.
type pageWalker struct {
	svc    service.Service
	params service.ListTasksParams

	tasks []service.Task
	done  bool
}

func newPageWalker(svc service.Service, clientID string, filter service.Filter) *pageWalker {
	return &pageWalker{
		svc: svc,
		params: service.ListTasksParams{
			ClientID: clientID,
			Limit:    config.MaxPageSize,
			Filter:   filter,
		},
	}
}

// at returns the num-th task (1-based) of the listing.
func (w *pageWalker) at(ctx context.Context, num int) (service.Task, error) {
	if num < 1 {
		return service.Task{}, errOutOfRange
	}
	for len(w.tasks) < num && !w.done {
		page, err := w.svc.ListTasks(ctx, w.params)
		if err != nil {
			return service.Task{}, err
		}
		w.tasks = append(w.tasks, page.Items...)
		if !page.HasMore || page.NextCursor == "" {
			w.done = true
		}
		w.params.Cursor = page.NextCursor
	}
	if num > len(w.tasks) {
		return service.Task{}, errOutOfRange
	}
	return w.tasks[num-1], nil
}

// findTask resolves ref to a task. Positions are counted in the listing of client with
// filter, as printed by list. A non-zero code means an error was already reported.
func findTask(ctx context.Context, env *Env, clientRef string, filter service.Filter, ref TaskRef) (service.Task, int) {
	if !ref.IsPosition() {
		task, err := env.Svc.GetTask(ctx, ref.ID)
		if err != nil {
			if service.IsNotFound(err) {
				return service.Task{}, userError(env.ErrOut, "task not found: %s", ref.ID)
			}
			return service.Task{}, reportError(env.ErrOut, err)
		}
		return task, 0
	}

	if ref.Num < 1 {
		return service.Task{}, userError(env.ErrOut, "task number out of range: %d", ref.Num)
	}
	client, code := resolveClient(ctx, env, clientRef)
	if code != 0 {
		return service.Task{}, code
	}
	task, err := newPageWalker(env.Svc, client.ID, filter).at(ctx, ref.Num)
	if errors.Is(err, errOutOfRange) {
		return service.Task{}, userError(env.ErrOut, "task number out of range: %d", ref.Num)
	}
	if err != nil {
		return service.Task{}, reportError(env.ErrOut, err)
	}
	return task, 0
}
