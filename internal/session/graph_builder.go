package session

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"vinegraph/internal/domain"
	"vinegraph/internal/vineyard"
)

// graphBuilder accumulates stream sources and drains them into a loaded
// graph object. All attached streams are consumed concurrently: the engine
// may interleave vertex and edge production, and a sequential drain could
// stall on one stream while the other fills.
type graphBuilder struct {
	store         vineyard.StreamReader
	objectID      string
	vertexSources []string
	edgeSources   []string
}

func (b *graphBuilder) AddVerticesFromSource(source string) {
	b.vertexSources = append(b.vertexSources, source)
}

func (b *graphBuilder) AddEdgesFromSource(source string) {
	b.edgeSources = append(b.edgeSources, source)
}

func (b *graphBuilder) EnsureLoaded(ctx context.Context) (*domain.Graph, error) {
	graph := &domain.Graph{
		ObjectID:      b.objectID,
		VertexSources: append([]string(nil), b.vertexSources...),
		EdgeSources:   append([]string(nil), b.edgeSources...),
	}
	if b.store == nil {
		// Detached session: hand back the named-stream references
		// without local materialization.
		return graph, nil
	}

	var vertices, edges atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for _, source := range b.vertexSources {
		g.Go(func() error {
			n, err := b.drain(gctx, source)
			vertices.Add(n)
			return err
		})
	}
	for _, source := range b.edgeSources {
		g.Go(func() error {
			n, err := b.drain(gctx, source)
			edges.Add(n)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph.VertexCount = vertices.Load()
	graph.EdgeCount = edges.Load()
	graph.Loaded = true
	graph.LoadedAt = time.Now()
	return graph, nil
}

// drain consumes one named stream to completion and returns its record
// count. It blocks until the producer has created and closed the stream.
func (b *graphBuilder) drain(ctx context.Context, source string) (int64, error) {
	cursor, err := b.store.Open(ctx, vineyard.ObjectName(source))
	if err != nil {
		return 0, fmt.Errorf("open stream %s: %w", source, err)
	}
	defer cursor.Close()

	var count int64
	for {
		if _, err := cursor.Next(ctx); err != nil {
			if err == io.EOF {
				return count, nil
			}
			return count, fmt.Errorf("read stream %s: %w", source, err)
		}
		count++
	}
}
