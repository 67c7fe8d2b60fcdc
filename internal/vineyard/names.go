// Package vineyard provides the naming scheme and stream access port for
// the shared in-memory object store that hosts named data streams and
// graph objects.
package vineyard

import (
	"context"
	"fmt"
)

// ObjectName identifies a named object in the shared store.
type ObjectName string

// VertexStreamName derives the vertex stream name for a subgraph job.
// The remote engine emits extracted vertices under this name.
func VertexStreamName(job string) ObjectName {
	return ObjectName(fmt.Sprintf("__%s_vertex_stream", job))
}

// EdgeStreamName derives the edge stream name for a subgraph job.
func EdgeStreamName(job string) ObjectName {
	return ObjectName(fmt.Sprintf("__%s_edge_stream", job))
}

// RecordStream yields the records of one named stream in order.
type RecordStream interface {
	// Next returns the next record, or io.EOF once the producer has
	// closed the stream. It blocks while the stream is open but drained.
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// StreamReader opens named streams for consumption. Open blocks until the
// name exists in the store: a consumer may legitimately attach before the
// producer has created the stream.
// Implemented by MemStore and by the IPC-backed store client.
type StreamReader interface {
	Open(ctx context.Context, name ObjectName) (RecordStream, error)
}
