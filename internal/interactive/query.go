// Package interactive provides the client-side handle to an interactively
// queryable graph: script execution, traversal building, and subgraph
// extraction against a remote frontend.
package interactive

import (
	"context"
	"log/slog"
	"sync"

	"vinegraph/internal/domain"
	"vinegraph/internal/gremlin"
	"vinegraph/internal/metrics"
	"vinegraph/internal/subgraph"
)

// DialFunc opens a query channel to a frontend endpoint. Tests replace it
// with a fake.
type DialFunc func(ctx context.Context, endpoint string) (domain.QueryChannel, error)

// Option customizes an InteractiveQuery handle.
type Option func(*InteractiveQuery)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *InteractiveQuery) { q.logger = logger }
}

// WithChannelOptions configures the websocket channel built by SetFrontend.
func WithChannelOptions(opts gremlin.Options) Option {
	return func(q *InteractiveQuery) {
		q.dial = func(ctx context.Context, endpoint string) (domain.QueryChannel, error) {
			return gremlin.Dial(ctx, endpoint, opts)
		}
	}
}

// WithDialer replaces the channel constructor entirely.
func WithDialer(dial DialFunc) Option {
	return func(q *InteractiveQuery) { q.dial = dial }
}

// WithSubgraphOptions forwards options to the extractor used by Subgraph.
func WithSubgraphOptions(opts ...subgraph.Option) Option {
	return func(q *InteractiveQuery) { q.subgraphOpts = opts }
}

// InteractiveQuery is the handle to one interactive graph instance. The
// owning session creates it in the Initializing state, assigns the
// frontend once provisioned, and marks it Running; the handle keeps only a
// non-owning reference back to the session.
type InteractiveQuery struct {
	session      domain.SessionController
	objectID     string
	status       *StatusMachine
	logger       *slog.Logger
	dial         DialFunc
	subgraphOpts []subgraph.Option

	mu       sync.Mutex // guards graphURL and channel
	graphURL string
	channel  domain.QueryChannel
}

// New creates a handle for the distributed graph identified by objectID.
// The handle starts Initializing with no endpoint; it becomes usable once
// SetFrontend and MarkRunning have both been called by the session.
func New(session domain.SessionController, objectID string, opts ...Option) *InteractiveQuery {
	q := &InteractiveQuery{
		session:  session,
		objectID: objectID,
		status:   NewStatusMachine(),
		logger:   slog.Default(),
	}
	q.dial = func(ctx context.Context, endpoint string) (domain.QueryChannel, error) {
		return gremlin.Dial(ctx, endpoint, gremlin.Options{Logger: q.logger})
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// ObjectID returns the store object id of the backing graph.
func (q *InteractiveQuery) ObjectID() string { return q.objectID }

// GraphURL returns the frontend endpoint, usable with any standard
// traversal console, or "" while no frontend is assigned.
func (q *InteractiveQuery) GraphURL() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.graphURL
}

// Status returns the current lifecycle status.
func (q *InteractiveQuery) Status() domain.QueryStatus { return q.status.Current() }

// Closed reports whether the handle has been closed.
func (q *InteractiveQuery) Closed() bool { return q.status.Closed() }

// ErrorMessage returns the failure message recorded by MarkFailed, if any.
func (q *InteractiveQuery) ErrorMessage() string { return q.status.ErrorMessage() }

// MarkRunning is called by the owning session once the frontend is
// confirmed reachable.
func (q *InteractiveQuery) MarkRunning() error { return q.status.MarkRunning() }

// MarkFailed is called by the owning session on provisioning or runtime
// error. Failed is terminal.
func (q *InteractiveQuery) MarkFailed(msg string) error { return q.status.MarkFailed(msg) }

// SetFrontend connects the handle to the provisioned frontend at
// host:port. Calling it again rebinds the channel (reconnection); it never
// changes the lifecycle status.
func (q *InteractiveQuery) SetFrontend(ctx context.Context, host string, port int) error {
	endpoint := gremlin.EndpointURL(host, port)
	channel, err := q.dial(ctx, endpoint)
	if err != nil {
		return err
	}

	q.mu.Lock()
	old := q.channel
	q.graphURL = endpoint
	q.channel = channel
	q.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			q.logger.Warn("closing replaced query channel", "error", err)
		}
	}
	q.logger.Info("frontend assigned", "object_id", q.objectID, "url", endpoint)
	return nil
}

// gate rejects the operation unless the handle is Running with a
// configured channel. It never touches the remote endpoint.
func (q *InteractiveQuery) gate(op string) (domain.QueryChannel, error) {
	if st := q.status.Current(); st != domain.QueryStatusRunning {
		metrics.OperationErrors.WithLabelValues(op, "state").Inc()
		return nil, domain.ErrState(op, st)
	}
	q.mu.Lock()
	channel := q.channel
	q.mu.Unlock()
	if channel == nil {
		metrics.OperationErrors.WithLabelValues(op, "state").Inc()
		return nil, &domain.StateError{Op: op, Status: domain.QueryStatusRunning, Reason: "no frontend endpoint configured"}
	}
	return channel, nil
}

// Execute submits a traversal script and returns a future for its results,
// letting the caller overlap result consumption with other work.
func (q *InteractiveQuery) Execute(ctx context.Context, script string) (domain.PendingResults, error) {
	channel, err := q.gate("execute")
	if err != nil {
		return nil, err
	}
	metrics.ScriptsSubmitted.WithLabelValues("execute").Inc()
	pending, err := channel.Submit(ctx, script)
	if err != nil {
		metrics.OperationErrors.WithLabelValues("execute", "remote").Inc()
		return nil, err
	}
	return pending, nil
}

// TraversalSource returns a traversal entry point bound to this handle's
// endpoint.
func (q *InteractiveQuery) TraversalSource() (*TraversalSource, error) {
	channel, err := q.gate("traversal source")
	if err != nil {
		return nil, err
	}
	return &TraversalSource{channel: channel}, nil
}

// Subgraph extracts the edge set denoted by script (plus incident
// vertices) into a new graph object with its own lifetime in the shared
// store, and returns the loaded graph.
func (q *InteractiveQuery) Subgraph(ctx context.Context, script string) (*domain.Graph, error) {
	channel, err := q.gate("subgraph")
	if err != nil {
		return nil, err
	}
	metrics.ScriptsSubmitted.WithLabelValues("subgraph").Inc()
	opts := append([]subgraph.Option{subgraph.WithLogger(q.logger)}, q.subgraphOpts...)
	graph, err := subgraph.New(channel, q.session, opts...).Extract(ctx, script)
	if err != nil {
		metrics.OperationErrors.WithLabelValues("subgraph", "remote").Inc()
		return nil, err
	}
	return graph, nil
}

// Close releases the interactive instance. The session notification is
// best effort: the handle transitions to Closed regardless of its outcome,
// so a handle can never be left un-closeable. Subsequent calls are no-ops.
func (q *InteractiveQuery) Close(ctx context.Context) error {
	if !q.status.MarkClosed() {
		return nil
	}

	if err := q.session.NotifyClose(ctx, q.objectID); err != nil {
		q.logger.Warn("session close notification failed", "object_id", q.objectID, "error", err)
	}

	q.mu.Lock()
	channel := q.channel
	q.channel = nil
	q.mu.Unlock()
	if channel != nil {
		if err := channel.Close(); err != nil {
			q.logger.Warn("closing query channel", "error", err)
		}
	}
	return nil
}
