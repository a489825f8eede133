// Package main provides the entry point for the oplcheck CLI.
package main

import (
	"os"

	"github.com/openlifting/oplengine/cmd/oplcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
