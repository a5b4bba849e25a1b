// Package clients holds the client list and the currently selected client.
package clients

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"taskdemo/internal/logging"
	"taskdemo/internal/service"
)

// Lister is the part of service.Service the selector needs.
type Lister interface {
	ListClients(ctx context.Context) ([]service.Client, error)
}

// Selector loads the client list once and tracks the selected client.
type Selector struct {
	lister Lister
	logger *slog.Logger
	group  singleflight.Group

	mu       sync.RWMutex
	loaded   bool
	clients  []service.Client
	selected string
}

// NewSelector returns a selector that has not loaded anything yet.
func NewSelector(lister Lister, logger *slog.Logger) *Selector {
	return &Selector{
		lister: lister,
		logger: logging.OrDiscard(logger).With("component", "clients"),
	}
}

// Load requests the client list the first time it is called and selects the first
// client. Concurrent callers share one request. A failure is logged and leaves an
// empty list; it is not retried.
func (s *Selector) Load(ctx context.Context) []service.Client {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.copyLocked()
	}
	s.mu.RUnlock()

	s.group.Do("clients", func() (any, error) {
		s.mu.RLock()
		loaded := s.loaded
		s.mu.RUnlock()
		if loaded {
			return nil, nil
		}

		list, err := s.lister.ListClients(ctx)
		if err != nil {
			s.logger.Error("failed to fetch clients", "error", err)
			list = nil
		}

		s.mu.Lock()
		s.loaded = true
		s.clients = list
		if len(list) > 0 {
			s.selected = list[0].ID
		}
		s.mu.Unlock()

		s.logger.Debug("clients loaded", "count", len(list))
		return nil, nil
	})

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Clients returns the loaded clients.
func (s *Selector) Clients() []service.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *Selector) copyLocked() []service.Client {
	out := make([]service.Client, len(s.clients))
	copy(out, s.clients)
	return out
}

// Selected returns the selected client ID, or "" when there is none.
func (s *Selector) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SelectedClient returns the selected client.
func (s *Selector) SelectedClient() (service.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.ID == s.selected {
			return c, true
		}
	}
	return service.Client{}, false
}

// Select changes the selection. The id must belong to a loaded client.
func (s *Selector) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.ID == id {
			s.selected = id
			return nil
		}
	}
	return fmt.Errorf("client not found: %s", id)
}

// Find resolves a client by ID, by 1-based position, or by exact name.
func (s *Selector) Find(ref string) (service.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Resolve(s.clients, ref)
}
