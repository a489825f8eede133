// Package cmd provides the CLI commands for oplquery.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/openlifting/oplengine/pkg/version"
)

var rootDir string

// NewRootCmd creates the root command for the oplquery CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oplquery",
		Short: "Query the powerlifting database from a terminal",
		Long: `oplquery loads a compiled Database (from a Build Snapshot, or by running
the CSV validator from scratch) and runs a single rankings, records, or
name-search query against it, printing the result as a table or, with
--json, as the same JSON shape the HTTP/MCP layers return.`,
		Version: version.Version,
	}
	cmd.SetVersionTemplate("oplquery version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root (default: current directory, resolved upward)")

	cmd.AddCommand(newRankingsCmd())
	cmd.AddCommand(newRecordsCmd())
	cmd.AddCommand(newFindCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
