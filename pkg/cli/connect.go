package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"vinegraph/internal/config"
	"vinegraph/internal/gremlin"
	"vinegraph/internal/interactive"
	"vinegraph/internal/session"
	"vinegraph/internal/subgraph"
)

// connection carries the resolved endpoint settings shared by all
// commands. The console runs a detached session: it drives the remote
// protocol but has no object-store access, so subgraph extraction reports
// stream names instead of materialized counts.
type connection struct {
	host     string
	port     int
	token    string
	objectID string

	// handleOpts lets commands add per-invocation handle options, e.g. a
	// fixed subgraph name.
	handleOpts []interactive.Option
}

// open creates a detached session and a Running handle bound to the
// configured frontend. The endpoint and token resolve through the flag >
// env > profile chain; channel tuning, the extraction deadline, and the
// log level come from the environment config. The caller closes the
// session when done.
func (c *connection) open(ctx context.Context) (*session.Session, *interactive.InteractiveQuery, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	token := c.token
	if token == "" {
		token = cfg.AuthToken
	}
	// The only load warning concerns a missing env token; stay quiet when
	// the flag or profile supplied one.
	if token == "" {
		for _, warning := range cfg.Warnings {
			logger.Warn(warning)
		}
	}

	opts := append([]interactive.Option{
		interactive.WithChannelOptions(gremlin.Options{
			AuthToken:         token,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			HandshakeTimeout:  cfg.HandshakeTimeout,
			Logger:            logger,
		}),
		interactive.WithSubgraphOptions(subgraph.WithTimeout(cfg.SubgraphTimeout)),
	}, c.handleOpts...)
	sess := session.New(nil, nil,
		session.WithLogger(logger),
		session.WithHandleOptions(opts...),
	)

	q := sess.Gremlin(c.objectID)
	if err := q.SetFrontend(ctx, c.host, c.port); err != nil {
		return nil, nil, fmt.Errorf("connect to frontend %s:%d: %w", c.host, c.port, err)
	}
	if err := q.MarkRunning(); err != nil {
		return nil, nil, err
	}
	return sess, q, nil
}
