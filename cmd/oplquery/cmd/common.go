package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/openlifting/oplengine/internal/config"
	"github.com/openlifting/oplengine/internal/engineload"
)

// loadEngine resolves the --root flag to a project root and loads its
// Database plus caches, the same load path oplmcp serve uses.
func loadEngine(cmd *cobra.Command) (*engineload.Engine, error) {
	root, err := config.FindProjectRoot(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	eng, _, err := engineload.Load(context.Background(), logger, root)
	if err != nil {
		return nil, fmt.Errorf("loading database: %w", err)
	}
	return eng, nil
}
