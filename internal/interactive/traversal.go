package interactive

import (
	"context"
	"fmt"
	"strings"

	"vinegraph/internal/domain"
)

// TraversalSource builds traversals bound to one handle's endpoint. It is
// stateless beyond the channel reference.
type TraversalSource struct {
	channel domain.QueryChannel
}

// V starts a traversal over all vertices.
func (s *TraversalSource) V() *Traversal {
	return &Traversal{channel: s.channel, script: "g.V()"}
}

// E starts a traversal over all edges.
func (s *TraversalSource) E() *Traversal {
	return &Traversal{channel: s.channel, script: "g.E()"}
}

// Submit sends a raw script through the source's channel.
func (s *TraversalSource) Submit(ctx context.Context, script string) ([]interface{}, error) {
	return s.channel.SubmitSync(ctx, script)
}

// Traversal accumulates steps as script text. The script is opaque to the
// client; the remote engine parses and executes it.
type Traversal struct {
	channel domain.QueryChannel
	script  string
}

func (t *Traversal) step(format string, args ...interface{}) *Traversal {
	t.script += fmt.Sprintf(format, args...)
	return t
}

// Has filters elements by a property value.
func (t *Traversal) Has(key, value string) *Traversal {
	return t.step(".has(%s,%s)", quote(key), quote(value))
}

// HasLabel filters elements by label.
func (t *Traversal) HasLabel(labels ...string) *Traversal {
	return t.step(".hasLabel(%s)", quoteList(labels))
}

// Out moves to outgoing adjacent vertices.
func (t *Traversal) Out(labels ...string) *Traversal {
	return t.step(".out(%s)", quoteList(labels))
}

// In moves to incoming adjacent vertices.
func (t *Traversal) In(labels ...string) *Traversal {
	return t.step(".in(%s)", quoteList(labels))
}

// Both moves to adjacent vertices in both directions.
func (t *Traversal) Both(labels ...string) *Traversal {
	return t.step(".both(%s)", quoteList(labels))
}

// OutE moves to outgoing incident edges.
func (t *Traversal) OutE(labels ...string) *Traversal {
	return t.step(".outE(%s)", quoteList(labels))
}

// Values extracts property values.
func (t *Traversal) Values(key string) *Traversal {
	return t.step(".values(%s)", quote(key))
}

// Limit truncates the traversal stream.
func (t *Traversal) Limit(n int) *Traversal {
	return t.step(".limit(%d)", n)
}

// Count folds the stream into its element count.
func (t *Traversal) Count() *Traversal {
	return t.step(".count()")
}

// ConnectedComponent dispatches the engine's built-in weakly connected
// components implementation over the traversal stream.
func (t *Traversal) ConnectedComponent() *Traversal {
	return t.step(".connectedComponent()")
}

// ShortestPath dispatches the engine's built-in shortest path
// implementation over the traversal stream.
func (t *Traversal) ShortestPath() *Traversal {
	return t.step(".shortestPath()")
}

// Script returns the accumulated script text.
func (t *Traversal) Script() string { return t.script }

// Submit sends the traversal and returns a future for its results.
func (t *Traversal) Submit(ctx context.Context) (domain.PendingResults, error) {
	return t.channel.Submit(ctx, t.script)
}

// ToList executes the traversal and returns all results.
func (t *Traversal) ToList(ctx context.Context) ([]interface{}, error) {
	return t.channel.SubmitSync(ctx, t.script)
}

func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = quote(item)
	}
	return strings.Join(quoted, ",")
}
