// Package session implements the owning session collaborator: it creates
// interactive query handles, relays their closure to the control plane,
// and materializes graph objects from named store streams.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"vinegraph/internal/domain"
	"vinegraph/internal/interactive"
	"vinegraph/internal/vineyard"
)

// Coordinator is the control-plane surface the session drives to release
// backend resources.
type Coordinator interface {
	CloseInteractiveInstance(ctx context.Context, objectID string) error
}

var _ domain.SessionController = (*Session)(nil)

// Option customizes a Session.
type Option func(*Session)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithHandleOptions forwards options to every handle the session creates.
func WithHandleOptions(opts ...interactive.Option) Option {
	return func(s *Session) { s.handleOpts = opts }
}

// Session owns interactive query handles. A nil store makes the session
// detached: subgraph extraction still runs the remote protocol, but
// EnsureLoaded returns an unmaterialized handle instead of draining the
// streams. The console runs detached because it has no store access.
type Session struct {
	id          string
	coordinator Coordinator
	store       vineyard.StreamReader
	logger      *slog.Logger
	handleOpts  []interactive.Option

	mu      sync.Mutex
	handles map[string]*interactive.InteractiveQuery
}

// New creates a session against the given control plane and object store.
func New(coordinator Coordinator, store vineyard.StreamReader, opts ...Option) *Session {
	s := &Session{
		id:          domain.NewID(),
		coordinator: coordinator,
		store:       store,
		logger:      slog.Default(),
		handles:     make(map[string]*interactive.InteractiveQuery),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Gremlin returns the interactive query handle for the graph identified
// by objectID, creating one on first use. A new handle starts
// Initializing; the caller (or the provisioning flow) assigns the
// frontend and marks it Running. At most one live handle exists per
// object id: repeated calls return the registered handle instead of
// displacing it, and a fresh one is only created after the old handle was
// closed (closing deregisters it via NotifyClose).
func (s *Session) Gremlin(objectID string) *interactive.InteractiveQuery {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok := s.handles[objectID]; ok {
		return q
	}
	opts := append([]interactive.Option{interactive.WithLogger(s.logger)}, s.handleOpts...)
	q := interactive.New(s, objectID, opts...)
	s.handles[objectID] = q
	return q
}

// NotifyClose releases the interactive instance serving objectID. Called
// by handles on Close; the handle's status transition does not depend on
// this succeeding.
func (s *Session) NotifyClose(ctx context.Context, objectID string) error {
	s.mu.Lock()
	delete(s.handles, objectID)
	s.mu.Unlock()

	if s.coordinator == nil {
		return nil
	}
	if err := s.coordinator.CloseInteractiveInstance(ctx, objectID); err != nil {
		return fmt.Errorf("close interactive instance %s: %w", objectID, err)
	}
	return nil
}

// NewGraph returns a builder for a session-owned graph object.
func (s *Session) NewGraph(ctx context.Context) (domain.GraphBuilder, error) {
	return &graphBuilder{store: s.store, objectID: domain.NewID()}, nil
}

// Close closes every handle the session still owns.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	handles := make([]*interactive.InteractiveQuery, 0, len(s.handles))
	for _, q := range s.handles {
		handles = append(handles, q)
	}
	s.mu.Unlock()

	for _, q := range handles {
		if err := q.Close(ctx); err != nil {
			s.logger.Warn("closing interactive query", "object_id", q.ObjectID(), "error", err)
		}
	}
	return nil
}
