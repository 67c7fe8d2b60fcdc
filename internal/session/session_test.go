package session_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinegraph/internal/domain"
	"vinegraph/internal/interactive"
	"vinegraph/internal/session"
	"vinegraph/internal/subgraph"
	"vinegraph/internal/vineyard"
)

type fakeCoordinator struct {
	mu     sync.Mutex
	closed []string
	err    error
}

func (c *fakeCoordinator) CloseInteractiveInstance(ctx context.Context, objectID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = append(c.closed, objectID)
	return c.err
}

func (c *fakeCoordinator) closedInstances() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.closed...)
}

type settledResults struct {
	data []interface{}
}

func (s settledResults) All(ctx context.Context) ([]interface{}, error) { return s.data, nil }

// scriptedChannel lets tests react to submitted scripts, e.g. to play the
// engine's producer role during extraction.
type scriptedChannel struct {
	mu      sync.Mutex
	scripts []string
	handle  func(ctx context.Context, script string) ([]interface{}, error)
}

func (c *scriptedChannel) SubmitSync(ctx context.Context, script string) ([]interface{}, error) {
	c.mu.Lock()
	c.scripts = append(c.scripts, script)
	c.mu.Unlock()
	if c.handle == nil {
		return nil, nil
	}
	return c.handle(ctx, script)
}

func (c *scriptedChannel) Submit(ctx context.Context, script string) (domain.PendingResults, error) {
	data, err := c.SubmitSync(ctx, script)
	if err != nil {
		return nil, err
	}
	return settledResults{data: data}, nil
}

func (c *scriptedChannel) Close() error { return nil }

func dialerFor(channel domain.QueryChannel) interactive.Option {
	return interactive.WithDialer(func(ctx context.Context, endpoint string) (domain.QueryChannel, error) {
		return channel, nil
	})
}

func TestSession_GremlinHandleLifecycle(t *testing.T) {
	coordinator := &fakeCoordinator{}
	channel := &scriptedChannel{}
	sess := session.New(coordinator, vineyard.NewMemStore(),
		session.WithHandleOptions(dialerFor(channel)))

	q := sess.Gremlin("graph-7")
	assert.Equal(t, domain.QueryStatusInitializing, q.Status())

	require.NoError(t, q.SetFrontend(context.Background(), "host", 8182))
	require.NoError(t, q.MarkRunning())

	require.NoError(t, q.Close(context.Background()))
	assert.Equal(t, []string{"graph-7"}, coordinator.closedInstances())

	// A second close must not notify again.
	require.NoError(t, q.Close(context.Background()))
	assert.Equal(t, []string{"graph-7"}, coordinator.closedInstances())
}

func TestSession_GremlinReturnsRegisteredHandle(t *testing.T) {
	coordinator := &fakeCoordinator{}
	channel := &scriptedChannel{}
	sess := session.New(coordinator, nil, session.WithHandleOptions(dialerFor(channel)))

	first := sess.Gremlin("graph-7")
	second := sess.Gremlin("graph-7")
	assert.Same(t, first, second)

	require.NoError(t, first.Close(context.Background()))
	assert.Equal(t, []string{"graph-7"}, coordinator.closedInstances())

	// Closing deregisters the handle, so the next call starts a fresh one.
	third := sess.Gremlin("graph-7")
	assert.NotSame(t, first, third)
	assert.False(t, third.Closed())
}

func TestSession_CloseClosesAllHandles(t *testing.T) {
	coordinator := &fakeCoordinator{}
	channel := &scriptedChannel{}
	sess := session.New(coordinator, nil, session.WithHandleOptions(dialerFor(channel)))

	a := sess.Gremlin("graph-a")
	b := sess.Gremlin("graph-b")

	require.NoError(t, sess.Close(context.Background()))
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
	assert.ElementsMatch(t, []string{"graph-a", "graph-b"}, coordinator.closedInstances())
}

func TestSession_NotifyCloseCoordinatorFailure(t *testing.T) {
	coordinator := &fakeCoordinator{err: errors.New("rpc unavailable")}
	sess := session.New(coordinator, nil)

	err := sess.NotifyClose(context.Background(), "graph-x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close interactive instance graph-x")
}

func TestGraphBuilder_EnsureLoaded(t *testing.T) {
	store := vineyard.NewMemStore()
	sess := session.New(nil, store)

	vertexWriter, err := store.CreateStream("__G_vertex_stream")
	require.NoError(t, err)
	edgeWriter, err := store.CreateStream("__G_edge_stream")
	require.NoError(t, err)

	builder, err := sess.NewGraph(context.Background())
	require.NoError(t, err)
	builder.AddVerticesFromSource("__G_vertex_stream")
	builder.AddEdgesFromSource("__G_edge_stream")

	for _, v := range []string{"v1", "v2", "v3"} {
		vertexWriter.Append([]byte(v))
	}
	vertexWriter.CloseWrite()
	edgeWriter.Append([]byte("e1"))
	edgeWriter.CloseWrite()

	graph, err := builder.EnsureLoaded(context.Background())
	require.NoError(t, err)
	assert.True(t, graph.Loaded)
	assert.NotEmpty(t, graph.ObjectID)
	assert.EqualValues(t, 3, graph.VertexCount)
	assert.EqualValues(t, 1, graph.EdgeCount)
	assert.Equal(t, []string{"__G_vertex_stream"}, graph.VertexSources)
	assert.Equal(t, []string{"__G_edge_stream"}, graph.EdgeSources)
}

func TestGraphBuilder_EnsureLoadedBlocksUntilStreamsComplete(t *testing.T) {
	store := vineyard.NewMemStore()
	sess := session.New(nil, store)

	builder, err := sess.NewGraph(context.Background())
	require.NoError(t, err)
	builder.AddVerticesFromSource("__G_vertex_stream")
	builder.AddEdgesFromSource("__G_edge_stream")

	type outcome struct {
		graph *domain.Graph
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		graph, err := builder.EnsureLoaded(context.Background())
		done <- outcome{graph, err}
	}()

	select {
	case <-done:
		t.Fatal("EnsureLoaded returned before the streams existed")
	case <-time.After(20 * time.Millisecond):
	}

	vertexWriter, err := store.CreateStream("__G_vertex_stream")
	require.NoError(t, err)
	vertexWriter.Append([]byte("v1"))
	vertexWriter.CloseWrite()
	edgeWriter, err := store.CreateStream("__G_edge_stream")
	require.NoError(t, err)
	edgeWriter.CloseWrite()

	select {
	case out := <-done:
		require.NoError(t, out.err)
		assert.EqualValues(t, 1, out.graph.VertexCount)
		assert.EqualValues(t, 0, out.graph.EdgeCount)
	case <-time.After(5 * time.Second):
		t.Fatal("EnsureLoaded did not finish after the streams completed")
	}
}

func TestGraphBuilder_DetachedSession(t *testing.T) {
	sess := session.New(nil, nil)

	builder, err := sess.NewGraph(context.Background())
	require.NoError(t, err)
	builder.AddVerticesFromSource("__G_vertex_stream")
	builder.AddEdgesFromSource("__G_edge_stream")

	graph, err := builder.EnsureLoaded(context.Background())
	require.NoError(t, err)
	assert.False(t, graph.Loaded)
	assert.Equal(t, []string{"__G_vertex_stream"}, graph.VertexSources)
}

// TestSubgraphEndToEnd drives the whole extraction protocol: the scripted
// channel plays the engine, creating and populating the store streams when
// the computation script arrives, while the session materializes them.
func TestSubgraphEndToEnd(t *testing.T) {
	store := vineyard.NewMemStore()

	channel := &scriptedChannel{}
	channel.handle = func(ctx context.Context, script string) ([]interface{}, error) {
		if !strings.Contains(script, ".subgraph(") {
			return nil, nil // create-graph ack
		}
		vertexWriter, err := store.CreateStream(vineyard.VertexStreamName("G"))
		if err != nil {
			return nil, err
		}
		edgeWriter, err := store.CreateStream(vineyard.EdgeStreamName("G"))
		if err != nil {
			return nil, err
		}
		for _, v := range []string{"marko", "vadas"} {
			vertexWriter.Append([]byte(v))
		}
		vertexWriter.CloseWrite()
		edgeWriter.Append([]byte("marko-knows-vadas"))
		edgeWriter.CloseWrite()
		return nil, nil
	}

	sess := session.New(&fakeCoordinator{}, store, session.WithHandleOptions(
		dialerFor(channel),
		interactive.WithSubgraphOptions(
			subgraph.WithNameGenerator(func() string { return "G" }),
			subgraph.WithTimeout(10*time.Second),
		),
	))

	q := sess.Gremlin("graph-42")
	require.NoError(t, q.SetFrontend(context.Background(), "host", 1234))
	require.NoError(t, q.MarkRunning())

	graph, err := q.Subgraph(context.Background(), "g.V().has('label','person')")
	require.NoError(t, err)
	assert.Equal(t, "G", graph.Name)
	assert.True(t, graph.Loaded)
	assert.EqualValues(t, 2, graph.VertexCount)
	assert.EqualValues(t, 1, graph.EdgeCount)
}
