package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openlifting/oplengine/internal/buildcache"
	"github.com/openlifting/oplengine/internal/checker"
	"github.com/openlifting/oplengine/internal/config"
	"github.com/openlifting/oplengine/internal/ui"
)

func newBuildCmd() *cobra.Command {
	var (
		warningsAreErrors bool
		noSnapshot        bool
		noTUI             bool
		jsonOutput        bool
	)

	cmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Validate meet-data/ and lifter-data/ and compile a Build Snapshot",
		Long: `build runs the CSV validator over the project rooted at [path]
(default: the current directory, resolved to its project root), reports
every Error/Warning line found, and on success writes a Build Snapshot so
oplquery and oplmcp can start instantly on unchanged data.

Exits nonzero when any meet reports an Error, or when --warnings-are-errors
is set and any meet reports a Warning.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runBuild(cmd, path, warningsAreErrors, noSnapshot, noTUI, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&warningsAreErrors, "warnings-are-errors", false, "Exit nonzero when any Warning is reported, as for an Error")
	cmd.Flags().BoolVar(&noSnapshot, "no-snapshot", false, "Skip writing a Build Snapshot after a successful build")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Force plain text progress output")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the final report summary as JSON")

	return cmd
}

func runBuild(cmd *cobra.Command, path string, warningsAreErrors, noSnapshot, noTUI, jsonOutput bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := config.FindProjectRoot(path)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if warningsAreErrors {
		cfg.Checker.WarningsAreErrors = true
	}

	renderer := ui.NewRenderer(ui.NewConfig(cmd.OutOrStdout(),
		ui.WithForcePlain(noTUI),
		ui.WithProjectDir(root),
	))
	if err := renderer.Start(ctx); err != nil {
		return fmt.Errorf("starting progress renderer: %w", err)
	}
	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageScanning, Message: root})

	start := time.Now()
	result, err := checker.Build(ctx, root, cfg.Checker.Workers)
	if err != nil {
		_ = renderer.Stop()
		return fmt.Errorf("build failed: %w", err)
	}
	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageCompiling})

	errCount, warnCount := result.ErrorCount(), result.WarningCount()
	for _, r := range result.MeetReports {
		if r.ErrorCount() == 0 && r.WarningCount() == 0 {
			continue
		}
		for _, m := range r.Messages {
			renderer.AddError(ui.ErrorEvent{File: r.Path, Err: fmt.Errorf("%s", m.String()), IsWarn: m.Severity == checker.SeverityWarning})
		}
	}
	for _, m := range result.Global.Messages {
		renderer.AddError(ui.ErrorEvent{File: result.Global.Path, Err: fmt.Errorf("%s", m.String()), IsWarn: m.Severity == checker.SeverityWarning})
	}

	hasFailure := errCount > 0 || result.Database == nil || (cfg.Checker.WarningsAreErrors && warnCount > 0)

	var meets, entries int
	if result.Database != nil {
		meets = len(result.Database.Meets())
		entries = len(result.Database.Entries())
	}
	renderer.Complete(ui.CompletionStats{
		Meets:    meets,
		Entries:  entries,
		Duration: time.Since(start),
		Errors:   errCount,
		Warnings: warnCount,
	})
	_ = renderer.Stop()

	if jsonOutput {
		if err := printBuildSummaryJSON(cmd, errCount, warnCount, meets, entries, hasFailure); err != nil {
			return err
		}
	}

	if hasFailure {
		return fmt.Errorf("build found %d error(s), %d warning(s)", errCount, warnCount)
	}

	if !noSnapshot && result.Database != nil {
		logger := slog.Default()
		meetDataRoot := filepath.Join(root, cfg.Paths.MeetDataDir)
		lifterDataRoot := filepath.Join(root, cfg.Paths.LifterDataDir)
		if err := buildcache.Save(logger, result.Database, meetDataRoot, lifterDataRoot, cfg.Snapshot.Dir); err != nil {
			logger.Warn("snapshot write failed, continuing", slog.String("error", err.Error()))
		}
	}

	return nil
}

func printBuildSummaryJSON(cmd *cobra.Command, errCount, warnCount, meets, entries int, hasFailure bool) error {
	summary := struct {
		Meets    int  `json:"meets"`
		Entries  int  `json:"entries"`
		Errors   int  `json:"errors"`
		Warnings int  `json:"warnings"`
		Ok       bool `json:"ok"`
	}{
		Meets:    meets,
		Entries:  entries,
		Errors:   errCount,
		Warnings: warnCount,
		Ok:       !hasFailure,
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
