// Package subgraph implements the extraction protocol: carving the result
// of a traversal out of a live graph into a new, independently-lifetimed
// graph object in the shared store.
package subgraph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vinegraph/internal/domain"
	"vinegraph/internal/metrics"
)

const defaultTimeout = 5 * time.Minute

// Extractor runs the two-phase subgraph protocol against one query channel
// and one owning session.
type Extractor struct {
	channel domain.QueryChannel
	session domain.SessionController
	nameGen NameGenerator
	timeout time.Duration
	logger  *slog.Logger
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithNameGenerator replaces the default timestamp-based job name
// generator; tests use this for deterministic names.
func WithNameGenerator(gen NameGenerator) Option {
	return func(e *Extractor) { e.nameGen = gen }
}

// WithTimeout bounds one whole extraction call, covering both the remote
// computation and the local materialization wait.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// New creates an Extractor submitting through channel and materializing
// through session.
func New(channel domain.QueryChannel, session domain.SessionController, opts ...Option) *Extractor {
	e := &Extractor{
		channel: channel,
		session: session,
		nameGen: TimestampName,
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract computes the subgraph denoted by script and returns the loaded
// graph object.
//
// The named graph is created synchronously first; only then do the stream
// consumer (graph materialization) and the stream producer (computation
// script) run, concurrently. They have to: the materialization blocks on
// streams the computation populates, so running them sequentially would
// deadlock. The errgroup context cancels the consumer when the producer
// fails, so a failed computation cannot leave the materialization hanging
// on streams that will never fill.
func (e *Extractor) Extract(ctx context.Context, script string) (*domain.Graph, error) {
	job := Job{Name: e.nameGen(), Script: script}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	started := time.Now()

	if _, err := e.channel.SubmitSync(ctx, job.CreateScript()); err != nil {
		return nil, fmt.Errorf("create graph %q: %w", job.Name, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	var graph *domain.Graph
	g.Go(func() error {
		builder, err := e.session.NewGraph(gctx)
		if err != nil {
			return fmt.Errorf("new graph for job %q: %w", job.Name, err)
		}
		builder.AddVerticesFromSource(job.VertexStream())
		builder.AddEdgesFromSource(job.EdgeStream())
		loaded, err := builder.EnsureLoaded(gctx)
		if err != nil {
			return fmt.Errorf("materialize subgraph %q: %w", job.Name, err)
		}
		graph = loaded
		return nil
	})

	g.Go(func() error {
		if _, err := e.channel.SubmitSync(gctx, job.ComputeScript()); err != nil {
			return fmt.Errorf("compute subgraph %q: %w", job.Name, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph.Name = job.Name
	metrics.SubgraphBuildSeconds.Observe(time.Since(started).Seconds())
	e.logger.Info("subgraph has been loaded",
		"name", job.Name,
		"vertices", graph.VertexCount,
		"edges", graph.EdgeCount,
		"elapsed", time.Since(started))
	return graph, nil
}
