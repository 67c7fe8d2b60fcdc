package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd(conn *connection) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check frontend reachability and report the handle status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			sess, q, err := conn.open(ctx)
			if err != nil {
				if getOutputFormat(cmd) == "json" {
					return PrintJSON(os.Stdout, map[string]interface{}{
						"reachable": false,
						"error":     err.Error(),
					})
				}
				return err
			}
			defer func() { _ = sess.Close(context.Background()) }()

			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, map[string]interface{}{
					"reachable": true,
					"status":    string(q.Status()),
					"graph_url": q.GraphURL(),
					"object_id": q.ObjectID(),
					"session":   sess.ID(),
				})
			}
			fmt.Fprintf(os.Stdout, "Status:    %s\n", q.Status())
			fmt.Fprintf(os.Stdout, "Graph URL: %s\n", q.GraphURL())
			fmt.Fprintf(os.Stdout, "Object ID: %s\n", q.ObjectID())
			fmt.Fprintf(os.Stdout, "Session:   %s\n", sess.ID())
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Connection deadline")
	return cmd
}
