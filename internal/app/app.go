// Package app composes the client selector and the task list: the selected client ID is
// the only thing the list receives from the selector.
package app

import (
	"context"
	"errors"
	"log/slog"

	"taskdemo/internal/clients"
	"taskdemo/internal/logging"
	"taskdemo/internal/service"
	"taskdemo/internal/tasklist"
)

// Options configures an App.
type Options struct {
	// Client is the client Start mounts, by ID, position or name. Empty means the
	// first client.
	Client   string
	PageSize int
	// Filter is the initial status filter of the task list.
	Filter service.Filter
	Logger *slog.Logger
	// OnChange is forwarded to the task list model.
	OnChange func(tasklist.Snapshot)
}

// App is the root view.
type App struct {
	selector *clients.Selector
	tasks    *tasklist.Model
	logger   *slog.Logger
	initial  string
}

// New wires both views to svc.
func New(svc service.Service, opts Options) *App {
	logger := logging.OrDiscard(opts.Logger)
	return &App{
		selector: clients.NewSelector(svc, logger),
		tasks: tasklist.New(svc, tasklist.Options{
			PageSize: opts.PageSize,
			Filter:   opts.Filter,
			Logger:   logger,
			OnChange: opts.OnChange,
		}),
		logger:  logger,
		initial: opts.Client,
	}
}

// Start loads the clients and mounts the task list on the initial client, so only one
// first page is fetched. An initial client that cannot be resolved is reported as a
// *ClientRefError after mounting the first client instead.
// With no clients the list stays unmounted and Start returns nil.
func (a *App) Start(ctx context.Context) error {
	a.selector.Load(ctx)

	var refErr error
	if a.initial != "" {
		c, err := a.selector.Find(a.initial)
		if err == nil {
			err = a.selector.Select(c.ID)
		}
		if err != nil {
			a.logger.Warn("initial client not usable", "ref", a.initial, "error", err)
			refErr = &ClientRefError{Ref: a.initial, Err: err}
		}
	}

	id := a.selector.Selected()
	if id == "" {
		a.logger.Warn("no clients available")
		return refErr
	}
	if err := a.tasks.SetClient(ctx, id); err != nil {
		if refErr != nil {
			return errors.Join(refErr, err)
		}
		return err
	}
	return refErr
}

// ClientRefError reports an initial client reference that matched no client.
type ClientRefError struct {
	Ref string
	Err error
}

func (e *ClientRefError) Error() string { return e.Err.Error() }

func (e *ClientRefError) Unwrap() error { return e.Err }

// SelectClient resolves ref (ID, position or name), selects it and re-mounts the list.
func (a *App) SelectClient(ctx context.Context, ref string) (service.Client, error) {
	c, err := a.selector.Find(ref)
	if err != nil {
		return service.Client{}, err
	}
	if err := a.selector.Select(c.ID); err != nil {
		return service.Client{}, err
	}
	return c, a.tasks.SetClient(ctx, c.ID)
}

// Clients exposes the client selector.
func (a *App) Clients() *clients.Selector { return a.selector }

// Tasks exposes the task list model.
func (a *App) Tasks() *tasklist.Model { return a.tasks }

// Close cancels any in-flight fetch.
func (a *App) Close() { a.tasks.Close() }
