// Package main provides the entry point for the oplmcp MCP tool server.
package main

import (
	"os"

	"github.com/openlifting/oplengine/cmd/oplmcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
