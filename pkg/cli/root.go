// Package cli implements the graph console: an interactive-query client
// for submitting traversal scripts and running subgraph extractions
// against a remote frontend.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = PrintJSON(os.Stdout, map[string]interface{}{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	conn := &connection{}
	var (
		output  string
		profile string
	)

	rootCmd := &cobra.Command{
		Use:           "graph",
		Short:         "Interactive graph query console",
		Long:          "Command-line client for a remotely hosted property graph: submit traversal scripts, extract subgraphs, inspect endpoint status.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load config from profile if flags/env not set. The file is
			// optional, but a present-and-broken one must not be ignored.
			cfg, err := LoadUserConfig()
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				cfg = DefaultUserConfig()
			}

			p := cfg.ActiveProfile(profile)

			// Apply precedence: flag > env > profile > default
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("GRAPH_HOST"); v != "" {
					conn.host = v
				} else if p.Host != "" {
					conn.host = p.Host
				}
			}
			if !cmd.Flags().Changed("port") {
				if v := os.Getenv("GRAPH_PORT"); v != "" {
					n, err := strconv.Atoi(v)
					if err != nil {
						return fmt.Errorf("parse GRAPH_PORT: %w", err)
					}
					conn.port = n
				} else if p.Port != 0 {
					conn.port = p.Port
				}
			}
			if !cmd.Flags().Changed("token") {
				if v := os.Getenv("GRAPH_TOKEN"); v != "" {
					conn.token = v
				} else if p.Token != "" {
					conn.token = p.Token
				}
			}
			if !cmd.Flags().Changed("graph") {
				if v := os.Getenv("GRAPH_OBJECT_ID"); v != "" {
					conn.objectID = v
				} else if p.Graph != "" {
					conn.objectID = p.Graph
				}
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("GRAPH_OUTPUT"); v != "" {
					output = v
				} else if p.Output != "" {
					output = p.Output
				}
			}
			return validateOutputFormat(output)
		},
	}

	rootCmd.PersistentFlags().StringVar(&conn.host, "host", "localhost", "Frontend host")
	rootCmd.PersistentFlags().IntVar(&conn.port, "port", 8182, "Frontend port")
	rootCmd.PersistentFlags().StringVar(&conn.token, "token", "", "Auth token for the frontend")
	rootCmd.PersistentFlags().StringVarP(&conn.objectID, "graph", "g", "default", "Object id of the target graph")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")

	rootCmd.AddCommand(newQueryCmd(conn))
	rootCmd.AddCommand(newSubgraphCmd(conn))
	rootCmd.AddCommand(newStatusCmd(conn))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
