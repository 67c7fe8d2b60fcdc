// Package gremlin implements the query channel: a websocket connection to
// a graph frontend that submits traversal scripts and streams back result
// frames.
package gremlin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"vinegraph/internal/domain"
)

// HeaderAuthToken carries the pre-shared frontend token on the websocket
// handshake.
const HeaderAuthToken = "X-Graph-Token"

const defaultHandshakeTimeout = 10 * time.Second

var _ domain.QueryChannel = (*Client)(nil)

// Options configures a Client. The zero value is usable.
type Options struct {
	// AuthToken, when set, is attached to the connection handshake.
	AuthToken string
	// TraversalSource is the server-side alias scripts address as "g".
	// Defaults to "g".
	TraversalSource string
	// RequestsPerSecond caps the sustained submission rate. Zero disables
	// client-side rate limiting.
	RequestsPerSecond float64
	// Burst is the token-bucket burst capacity when rate limiting is on.
	Burst            int
	HandshakeTimeout time.Duration
	Logger           *slog.Logger
}

// Client wraps one websocket connection to a query endpoint. Submissions
// are serialized: the connection carries one in-flight request at a time,
// so concurrent callers queue on an internal mutex rather than interleave
// frames.
type Client struct {
	endpoint  string
	conn      *websocket.Conn
	alias     string
	limiter   *rate.Limiter
	logger    *slog.Logger
	mu        sync.Mutex // held from write until the terminal frame is read
	closeOnce sync.Once
	closeErr  error
}

// EndpointURL builds the frontend endpoint address for a host and port.
func EndpointURL(host string, port int) string {
	return fmt.Sprintf("ws://%s:%d/gremlin", host, port)
}

// Dial opens a websocket connection to the endpoint and returns a ready
// channel. The endpoint must use the ws or wss scheme.
func Dial(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "ws", "wss":
	default:
		return nil, domain.ErrValidation("query endpoint requires ws:// or wss:// scheme, got %q", u.Scheme)
	}

	handshakeTimeout := opts.HandshakeTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = defaultHandshakeTimeout
	}
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	header := http.Header{}
	if opts.AuthToken != "" {
		header.Set(HeaderAuthToken, opts.AuthToken)
	}

	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial query endpoint %s (status %d): %w", endpoint, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial query endpoint %s: %w", endpoint, err)
	}

	alias := opts.TraversalSource
	if alias == "" {
		alias = "g"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		endpoint: endpoint,
		conn:     conn,
		alias:    alias,
		limiter:  limiter,
		logger:   logger,
	}, nil
}

// Endpoint returns the address the client is connected to.
func (c *Client) Endpoint() string { return c.endpoint }

// Submit sends the script and returns a future for its results without
// waiting for the endpoint to answer.
func (c *Client) Submit(ctx context.Context, script string) (domain.PendingResults, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req := newEvalRequest(uuid.NewString(), script, c.alias)
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	rs := newResultSet(req.RequestID)

	c.mu.Lock()
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("submit script: %w", err)
	}
	go c.collect(rs)
	return rs, nil
}

// SubmitSync sends the script and blocks until the endpoint returns a
// result set or an error.
func (c *Client) SubmitSync(ctx context.Context, script string) ([]interface{}, error) {
	rs, err := c.Submit(ctx, script)
	if err != nil {
		return nil, err
	}
	return rs.All(ctx)
}

// collect drains response frames for one request and releases the
// connection once the terminal frame arrives.
func (c *Client) collect(rs *ResultSet) {
	defer c.mu.Unlock()

	var data []interface{}
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			rs.complete(nil, fmt.Errorf("read response: %w", err))
			return
		}
		var resp Response
		if err := json.Unmarshal(payload, &resp); err != nil {
			rs.complete(nil, fmt.Errorf("decode response: %w", err))
			return
		}
		if resp.RequestID != rs.requestID {
			c.logger.Warn("dropping response frame for unknown request",
				"got", resp.RequestID, "want", rs.requestID)
			continue
		}

		switch resp.Status.Code {
		case StatusPartialContent:
			data = append(data, resp.Result.Data...)
		case StatusSuccess:
			rs.complete(append(data, resp.Result.Data...), nil)
			return
		case StatusNoContent:
			rs.complete(nil, nil)
			return
		default:
			rs.complete(nil, domain.ErrRemote(resp.Status.Code, "%s", resp.Status.Message))
			return
		}
	}
}

// Close tears down the connection. An in-flight submission completes with
// a read error. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		deadline := time.Now().Add(time.Second)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
