package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vinegraph/internal/resultcache"
)

func newQueryCmd(conn *connection) *cobra.Command {
	var (
		timeout time.Duration
		cache   bool
	)

	cmd := &cobra.Command{
		Use:   "query <script>",
		Short: "Submit a traversal script and print the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			sess, q, err := conn.open(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close(context.Background()) }()

			pending, err := q.Execute(ctx, args[0])
			if err != nil {
				return err
			}
			values, err := pending.All(ctx)
			if err != nil {
				return err
			}

			if cache {
				return printViaCache(ctx, values)
			}
			return printResults(cmd, values)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall query deadline")
	cmd.Flags().BoolVar(&cache, "cache", false, "Materialize results into an embedded DuckDB table before printing")
	return cmd
}

func printResults(cmd *cobra.Command, values []interface{}) error {
	if getOutputFormat(cmd) == "json" {
		return PrintJSON(os.Stdout, values)
	}
	columns, rows := Tabulate(values)
	PrintTable(os.Stdout, columns, rows)
	return nil
}

// printViaCache routes the result set through the DuckDB cache, which
// normalizes ragged rows and gives SQL-stable column ordering.
func printViaCache(ctx context.Context, values []interface{}) error {
	c, err := resultcache.Open()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	table, err := c.Materialize(ctx, values)
	if err != nil {
		return err
	}
	rows, err := c.Query(ctx, table)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	var out [][]string
	for rows.Next() {
		cells := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		row := make([]string, len(columns))
		for i, cell := range cells {
			if cell != nil {
				row[i] = fmt.Sprintf("%v", cell)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	PrintTable(os.Stdout, columns, out)
	return nil
}
