// Package engineload builds the shared "load a Database and its
// precomputed caches" path that oplquery and oplmcp both need at
// startup: try the Build Snapshot first, fall back to a full
// checker.Build, then wire the log-linear cache, constant-time cache,
// and MetaFederation resolver the same way every other caller in this
// codebase does (see internal/query/query_test.go and
// internal/records/records_test.go for the pattern this mirrors).
package engineload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/openlifting/oplengine/internal/buildcache"
	"github.com/openlifting/oplengine/internal/cache"
	"github.com/openlifting/oplengine/internal/checker"
	"github.com/openlifting/oplengine/internal/config"
	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/metafed"
)

// Engine bundles a compiled Database with the caches the query and
// records engines need, exactly as oplcheck build would have left them
// in memory at the end of a successful build.
type Engine struct {
	Database *db.Database
	LogLin   *cache.LogLinearCache
	Constant *cache.ConstantTimeCache
	MetaFeds *metafed.Resolver
}

// Load resolves root's project configuration, tries a Build Snapshot,
// and falls back to validating meet-data/ and lifter-data/ from
// scratch on a miss. fromScratch is true when no usable snapshot was
// found and the CSV validator ran.
func Load(ctx context.Context, logger *slog.Logger, root string) (eng *Engine, fromScratch bool, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, false, fmt.Errorf("loading configuration: %w", err)
	}

	meetDataRoot := filepath.Join(root, cfg.Paths.MeetDataDir)
	lifterDataRoot := filepath.Join(root, cfg.Paths.LifterDataDir)

	var database *db.Database
	if cfg.Snapshot.Enabled {
		snap, ok, loadErr := buildcache.Load(cfg.Snapshot.Dir, meetDataRoot, lifterDataRoot)
		if loadErr != nil {
			logger.Warn("build snapshot load failed, rebuilding", slog.String("error", loadErr.Error()))
		} else if ok {
			database = snap
			logger.Info("loaded build snapshot", slog.String("dir", cfg.Snapshot.Dir))
		}
	}

	if database == nil {
		fromScratch = true
		// checker.Build walks root itself (it discovers meet directories
		// recursively and reads root/lifter-data directly), matching
		// oplcheck build's own call in cmd/oplcheck/cmd/build.go.
		result, buildErr := checker.Build(ctx, root, cfg.Checker.Workers)
		if buildErr != nil {
			return nil, fromScratch, fmt.Errorf("building database: %w", buildErr)
		}
		if result.Database == nil || result.ErrorCount() > 0 {
			return nil, fromScratch, fmt.Errorf("meet-data/lifter-data tree has %d validation error(s)", result.ErrorCount())
		}
		database = result.Database

		if cfg.Snapshot.Enabled {
			if saveErr := buildcache.Save(logger, database, meetDataRoot, lifterDataRoot, cfg.Snapshot.Dir); saveErr != nil {
				logger.Warn("build snapshot write failed, continuing", slog.String("error", saveErr.Error()))
			}
		}
	}

	loglin := cache.BuildLogLinearCache(database.Meets(), database.Entries())
	constant := cache.BuildConstantTimeCache(loglin, database.Meets(), database.Entries())
	metafeds := metafed.NewResolver(database.Meets())

	return &Engine{
		Database: database,
		LogLin:   loglin,
		Constant: constant,
		MetaFeds: metafeds,
	}, fromScratch, nil
}
