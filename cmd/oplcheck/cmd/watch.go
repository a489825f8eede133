package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/openlifting/oplengine/internal/checker"
	"github.com/openlifting/oplengine/internal/config"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-run the validator whenever meet-data/ changes",
		Long: `watch runs an initial validation pass the same as "oplcheck build", then
keeps an fsnotify watch on meet-data/ and lifter-data/ and re-runs the
validator after every burst of filesystem activity settles, printing only
the meets whose report changed since the last pass. Intended for local
authoring, not for CI.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runWatch(cmd, path)
		},
	}
	return cmd
}

func runWatch(cmd *cobra.Command, path string) error {
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
	debounce, err := time.ParseDuration(cfg.Checker.WatchDebounce)
	if err != nil || debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	meetDataRoot := filepath.Join(root, cfg.Paths.MeetDataDir)
	lifterDataRoot := filepath.Join(root, cfg.Paths.LifterDataDir)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting filesystem watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchesRecursive(watcher, meetDataRoot); err != nil {
		return fmt.Errorf("watching %s: %w", meetDataRoot, err)
	}
	if err := addWatchesRecursive(watcher, lifterDataRoot); err != nil {
		return fmt.Errorf("watching %s: %w", lifterDataRoot, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s and %s (debounce %s)\n", meetDataRoot, lifterDataRoot, debounce)

	prevMeets := map[string]string{}
	revalidate := func() {
		result, err := checker.Build(ctx, root, cfg.Checker.Workers)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "build error: %v\n", err)
			return
		}
		curMeets := map[string]string{}
		for _, r := range result.MeetReports {
			curMeets[r.Path] = reportText(r)
		}
		for path, text := range curMeets {
			if prevMeets[path] != text {
				fmt.Fprintf(cmd.OutOrStdout(), "--- %s ---\n%s", path, text)
			}
		}
		prevMeets = curMeets
		if result.Database != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d meets, %d entries, %d error(s), %d warning(s)\n",
				len(result.Database.Meets()), len(result.Database.Entries()), result.ErrorCount(), result.WarningCount())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "build failed: %d error(s)\n", result.ErrorCount())
		}
	}
	revalidate()

	var timer *time.Timer
	resetTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, revalidate)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = watcher.Add(event.Name)
			}
			resetTimer()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Default().Warn("watcher error", slog.String("error", werr.Error()))
		}
	}
}

// reportText renders every message in r, one per line, so two reports
// can be compared for an unchanged-since-last-pass check.
func reportText(r *checker.Report) string {
	if len(r.Messages) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, m := range r.Messages {
		sb.WriteString(m.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// addWatchesRecursive registers a watch on root and every subdirectory
// beneath it; fsnotify only watches the directories it's explicitly
// given, not their descendants.
func addWatchesRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
