package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vinegraph/internal/interactive"
	"vinegraph/internal/subgraph"
	"vinegraph/internal/vineyard"
)

func newSubgraphCmd(conn *connection) *cobra.Command {
	var (
		name    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "subgraph <script>",
		Short: "Extract the subgraph selected by a traversal into a new graph object",
		Long: "Runs the two-phase extraction protocol: creates a named graph on the engine, " +
			"then streams the computed vertex and edge sets into it. The console has no " +
			"object-store access, so the new graph is reported by name and stream, not loaded locally.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			opts := []subgraph.Option{subgraph.WithTimeout(timeout)}
			if name != "" {
				opts = append(opts, subgraph.WithNameGenerator(func() string { return name }))
			}
			conn.handleOpts = []interactive.Option{interactive.WithSubgraphOptions(opts...)}

			sess, q, err := conn.open(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close(context.Background()) }()

			graph, err := q.Subgraph(ctx, args[0])
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, map[string]interface{}{
					"name":          graph.Name,
					"object_id":     graph.ObjectID,
					"loaded":        graph.Loaded,
					"vertex_stream": string(vineyard.VertexStreamName(graph.Name)),
					"edge_stream":   string(vineyard.EdgeStreamName(graph.Name)),
				})
			}
			fmt.Fprintf(os.Stdout, "Graph %s created (object id %s)\n", graph.Name, graph.ObjectID)
			fmt.Fprintf(os.Stdout, "  vertex stream: %s\n", vineyard.VertexStreamName(graph.Name))
			fmt.Fprintf(os.Stdout, "  edge stream:   %s\n", vineyard.EdgeStreamName(graph.Name))
			if graph.Loaded {
				fmt.Fprintf(os.Stdout, "  vertices: %d, edges: %d\n", graph.VertexCount, graph.EdgeCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name for the extracted graph (default: generated)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall extraction deadline")
	return cmd
}
