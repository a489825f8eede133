// Package cmd provides the CLI commands for oplmcp.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/openlifting/oplengine/pkg/version"
)

// NewRootCmd creates the root command for the oplmcp CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oplmcp",
		Short: "Serve the powerlifting database over MCP",
		Long: `oplmcp loads a compiled Database (from a Build Snapshot, or by running
the CSV validator from scratch) and exposes rankings_query, records_query,
lifter_lookup, and meet_lookup as MCP tools over stdio, for an LLM client
to query directly.`,
		Version: version.Version,
	}
	cmd.SetVersionTemplate("oplmcp version {{.Version}}\n")

	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
