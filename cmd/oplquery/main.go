// Package main provides the entry point for the oplquery CLI.
package main

import (
	"os"

	"github.com/openlifting/oplengine/cmd/oplquery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
