package domain

import "context"

// PendingResults is the future returned by an asynchronous script
// submission. All blocks until the endpoint has produced the final
// response frame for the request.
type PendingResults interface {
	// All returns every result value produced by the script, or the
	// endpoint error. Safe to call more than once; subsequent calls
	// return the memoized outcome.
	All(ctx context.Context) ([]interface{}, error)
}

// QueryChannel wraps one connection to a graph query endpoint and submits
// traversal scripts over it.
// Implemented by gremlin.Client.
type QueryChannel interface {
	// Submit sends the script and returns immediately with a future for
	// the results.
	Submit(ctx context.Context, script string) (PendingResults, error)
	// SubmitSync sends the script and blocks until the endpoint returns
	// a result set or an error.
	SubmitSync(ctx context.Context, script string) ([]interface{}, error)
	Close() error
}

// GraphBuilder accumulates stream sources for a new graph object and
// materializes it. AddVerticesFromSource and AddEdgesFromSource only record
// the source names; no store traffic happens before EnsureLoaded.
type GraphBuilder interface {
	AddVerticesFromSource(source string)
	AddEdgesFromSource(source string)
	// EnsureLoaded blocks until every attached source has been fully
	// consumed and the graph object reports loaded. The context bounds
	// the wait; canceling it abandons the load.
	EnsureLoaded(ctx context.Context) (*Graph, error)
}

// SessionController is the surface of the owning session consumed by a
// query handle. The session owns the handle, not vice versa; handles keep
// this reference only to request graph construction and to report closure.
// Implemented by session.Session.
type SessionController interface {
	NewGraph(ctx context.Context) (GraphBuilder, error)
	// NotifyClose asks the session to release the backend resources of
	// the interactive instance serving the given graph object.
	NotifyClose(ctx context.Context, objectID string) error
}
