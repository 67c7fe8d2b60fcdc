package gremlin

import (
	"context"
	"sync"

	"vinegraph/internal/domain"
)

var _ domain.PendingResults = (*ResultSet)(nil)

// ResultSet is the future for one submitted script. It completes exactly
// once, when the terminal response frame (or a channel failure) arrives.
type ResultSet struct {
	requestID string
	done      chan struct{}
	once      sync.Once
	data      []interface{}
	err       error
}

func newResultSet(requestID string) *ResultSet {
	return &ResultSet{requestID: requestID, done: make(chan struct{})}
}

// RequestID returns the id the submission was sent under.
func (rs *ResultSet) RequestID() string { return rs.requestID }

// All blocks until the endpoint has answered, returning every result value
// or the propagated endpoint error. The context only bounds the wait; the
// underlying request is not canceled.
func (rs *ResultSet) All(ctx context.Context) ([]interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-rs.done:
		return rs.data, rs.err
	}
}

func (rs *ResultSet) complete(data []interface{}, err error) {
	rs.once.Do(func() {
		rs.data = data
		rs.err = err
		close(rs.done)
	})
}
