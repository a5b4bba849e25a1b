// Package googletasks reads task lists from Google Tasks for import.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskdemo/internal/config"
	"taskdemo/internal/service"
)

const (
	// DefaultListID is the alias Google uses for the default list.
	DefaultListID = "@default"

	pageSize   = 100
	apiTimeout = 10 * time.Second
)

var (
	// ErrTokenRejected means the stored Google token is expired or revoked.
	ErrTokenRejected = errors.New("google token expired or revoked (run: taskdemo login)")

	// ErrNotFound means the list does not exist.
	ErrNotFound = errors.New("google list not found")

	errTimeout = errors.New("google request timed out")
)

// Source implements service.ImportSource over the Google Tasks API.
type Source struct {
	svc *tasks.Service
}

// New creates a source from the client credentials and token stored in the config dir.
func New(ctx context.Context, cfg *config.Config) (*Source, error) {
	conf, err := LoadClientConfig(cfg.GoogleClientPath())
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg.GoogleTokenPath())
	if err != nil {
		return nil, err
	}
	httpClient := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create tasks service: %w", err)
	}
	return &Source{svc: svc}, nil
}

// NewWithHTTPClient creates a source talking to endpoint with httpClient (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Source, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Source{svc: svc}, nil
}

// Lists returns all task lists in API order. The default list is reported with
// DefaultListID.
func (s *Source) Lists(ctx context.Context) ([]service.ExternalList, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	def, err := s.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(ctx, err)
	}

	var result []service.ExternalList
	err = s.svc.Tasklists.List().MaxResults(pageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, l := range resp.Items {
			item := service.ExternalList{ID: l.Id, Title: l.Title}
			if l.Id == def.Id {
				item.ID = DefaultListID
				item.IsDefault = true
			}
			result = append(result, item)
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(ctx, err)
	}
	return result, nil
}

// OpenTasks returns the open tasks of a list across all pages, in API order.
func (s *Source) OpenTasks(ctx context.Context, listID string) ([]service.ExternalTask, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	var result []service.ExternalTask
	err := s.svc.Tasks.List(listID).
		MaxResults(pageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, externalTask(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(ctx, err)
	}
	return result, nil
}

func externalTask(t *tasks.Task) service.ExternalTask {
	et := service.ExternalTask{ID: t.Id, Title: t.Title, Notes: t.Notes}
	if t.Due != "" {
		if due, err := time.Parse(time.RFC3339, t.Due); err == nil {
			due = due.UTC()
			et.Due = &due
		}
	}
	return et
}

func wrapError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return errTimeout
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrTokenRejected
		case http.StatusNotFound:
			return ErrNotFound
		}
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return ErrTokenRejected
	}
	return err
}
