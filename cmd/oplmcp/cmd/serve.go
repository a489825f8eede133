package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openlifting/oplengine/internal/config"
	"github.com/openlifting/oplengine/internal/engineload"
	"github.com/openlifting/oplengine/internal/logging"
	"github.com/openlifting/oplengine/internal/mcp"
)

func newServeCmd() *cobra.Command {
	var debugMode bool

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Start the MCP server over stdio",
		Long: `serve loads the Database rooted at [path] (default: the current
directory, resolved to its project root) and serves it read-only over
stdio until the process receives SIGINT/SIGTERM or its MCP client
disconnects. Logging never writes to stdout, since stdout carries the
MCP protocol stream; use --debug to additionally write to the
oplengine log directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runServe(cmd, path, debugMode)
		},
	}
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging to the oplengine log directory")
	return cmd
}

func runServe(cmd *cobra.Command, path string, debugMode bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCfg := logging.DefaultConfig()
	if debugMode {
		logCfg = logging.DebugConfig()
	}
	logCfg.WriteToStderr = false
	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer cleanup()
	slog.SetDefault(logger)

	root, err := config.FindProjectRoot(path)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	eng, fromScratch, err := engineload.Load(ctx, logger, root)
	if err != nil {
		return fmt.Errorf("loading database: %w", err)
	}
	logger.Info("database ready",
		slog.Int("lifters", len(eng.Database.Lifters())),
		slog.Int("meets", len(eng.Database.Meets())),
		slog.Int("entries", len(eng.Database.Entries())),
		slog.Bool("built_from_scratch", fromScratch),
	)

	server := mcp.NewServer(eng.Database, eng.LogLin, eng.Constant, eng.MetaFeds, logger)
	return server.Serve(ctx)
}
