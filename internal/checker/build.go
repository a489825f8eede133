package checker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/openlifting/oplengine/internal/ages"
	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// magsDir is the one federation directory whose CONFIG.toml files are
// permitted to live below depth 1, mirroring the original checker's
// special case for the combined "mags" results archive.
const magsDir = "mags"

// BuildResult is everything a Build call produces: the compiled
// Database (nil if the build failed outright), the Report for every
// meet directory that was examined (including excluded ones), and a
// separate Report for file-system and config-level findings that
// aren't attributable to any single meet.
type BuildResult struct {
	Database    *db.Database
	MeetReports []*Report
	Global      *Report
}

// ErrorCount and WarningCount sum every Report a Build produced.
func (b *BuildResult) ErrorCount() int {
	n := b.Global.ErrorCount()
	for _, r := range b.MeetReports {
		n += r.ErrorCount()
	}
	return n
}

func (b *BuildResult) WarningCount() int {
	n := b.Global.WarningCount()
	for _, r := range b.MeetReports {
		n += r.WarningCount()
	}
	return n
}

// pendingMeet is one surviving (error-free) meet, carrying the raw,
// not-yet-identity-resolved entries parsed from it.
type pendingMeet struct {
	meetID db.MeetID
	raw    []RawEntry
}

type parsedMeet struct {
	meet       *db.Meet
	rawEntries []RawEntry
	report     *Report
}

// Build walks meetDataRoot for meet directories and lifter-data tables,
// validates every CSV it finds, and compiles the surviving meets and
// entries into a Database. A meet whose combined meet.csv/entries.csv
// Report carries any Error is excluded from the result but still
// appears in BuildResult.MeetReports, exactly as the original checker
// prints a report for a meet it goes on to reject.
//
// Each meet directory is parsed concurrently (one goroutine per meet,
// fanned out with errgroup, the same lock-free redundant-work tradeoff
// internal/records.Engine.Find makes for per-lift-family scans), capped
// at workers concurrent goroutines (workers <= 0 means unbounded);
// lifter identity assignment and age interpolation happen afterward, in
// a single deterministic pass, since both depend on having seen every
// meet first.
func Build(ctx context.Context, meetDataRoot string, workers int) (*BuildResult, error) {
	global := NewReport(meetDataRoot)

	lifterData, lifterDataReport := loadLifterData(meetDataRoot)
	global.Merge(lifterDataReport)

	configs, configReport := loadConfigs(meetDataRoot)
	global.Merge(configReport)

	meetDirs, err := discoverMeetDirs(meetDataRoot)
	if err != nil {
		global.Error(0, "walking %s: %v", meetDataRoot, err)
		return &BuildResult{Global: global}, nil
	}

	parsed := make([]parsedMeet, len(meetDirs))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, dir := range meetDirs {
		i, dir := i, dir
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i] = parseMeetDir(meetDataRoot, dir, configs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	indexer := NewLifterIndexer(lifterData)

	meetReports := make([]*Report, 0, len(parsed))
	var meets []db.Meet
	var pendings []pendingMeet

	for _, pm := range parsed {
		meetReports = append(meetReports, pm.report)
		if pm.meet == nil || pm.report.HasError() {
			continue
		}
		meetID := db.MeetID(len(meets))
		meets = append(meets, *pm.meet)
		pendings = append(pendings, pendingMeet{meetID: meetID, raw: pm.rawEntries})
	}

	entries := assignIdentitiesAndAges(indexer, meets, pendings)

	for mi := range meets {
		meets[mi].NumUniqueLifters = db.NumUniqueLifters(entriesForMeet(entries, db.MeetID(mi)))
	}

	database, err := db.New(indexer.Lifters(), meets, entries)
	if err != nil {
		global.Error(0, "compiling database: %v", err)
		return &BuildResult{MeetReports: meetReports, Global: global}, nil
	}

	return &BuildResult{Database: database, MeetReports: meetReports, Global: global}, nil
}

func entriesForMeet(entries []db.Entry, meetID db.MeetID) []db.Entry {
	var out []db.Entry
	for _, e := range entries {
		if e.MeetID == meetID {
			out = append(out, e)
		}
	}
	return out
}

// assignIdentitiesAndAges resolves every RawEntry's Name to a LifterID
// (splitting one Name into multiple Lifter identities where the age
// Disambiguator finds the evidence mutually inconsistent, per §4.3),
// fills in each entry's Age via the Interpolator (§4.2), and returns
// the final, fully-populated Entry table in meet-major, then
// within-meet, order.
func assignIdentitiesAndAges(indexer *LifterIndexer, meets []db.Meet, pendings []pendingMeet) []db.Entry {
	type locator struct {
		pendingIdx int
		entryIdx   int
	}
	byName := make(map[string][]locator)
	for pi, p := range pendings {
		for ei, re := range p.raw {
			byName[re.Name] = append(byName[re.Name], locator{pi, ei})
		}
	}

	var entries []db.Entry
	for pi := range pendings {
		for range pendings[pi].raw {
			entries = append(entries, db.Entry{})
		}
	}

	offsets := make([]int, len(pendings))
	running := 0
	for pi := range pendings {
		offsets[pi] = running
		running += len(pendings[pi].raw)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		locs := byName[name]

		facts := make([]ages.Fact, len(locs))
		for i, loc := range locs {
			re := pendings[loc.pendingIdx].raw[loc.entryIdx]
			meet := meets[pendings[loc.pendingIdx].meetID]
			facts[i] = ages.Fact{
				MeetDate:  meet.Date,
				BirthDate: re.BirthDate,
				BirthYear: re.BirthYear,
				Age:       re.AgeFact,
			}
		}

		ranges := ages.RangesForFacts(facts)
		groups := ages.GroupByAge(ranges)
		if len(groups) > 1 && ranges[groups[0][0]].IsDefault() {
			// Entries with no age evidence can't contradict any group, so
			// they join the first data-bearing group instead of forming an
			// identity of their own.
			groups = append([][]int{append(groups[1], groups[0]...)}, groups[2:]...)
		}

		for gi, group := range groups {
			subFacts := make([]ages.Fact, len(group))
			for si, idx := range group {
				subFacts[si] = facts[idx]
			}
			resolvedAges := ages.Interpolate(subFacts)

			identityKey := name
			if gi > 0 {
				identityKey = fmt.Sprintf("%s\x00%d", name, gi)
			}
			lifterID, err := indexer.ResolveOrCreateIdentity(identityKey, name)
			if err != nil {
				lifterID, _ = indexer.ResolveOrCreateIdentity(identityKey, strings.TrimSpace(name))
			}

			for si, idx := range group {
				loc := locs[idx]
				re := pendings[loc.pendingIdx].raw[loc.entryIdx]
				e := re.Entry
				e.LifterID = lifterID
				e.MeetID = pendings[loc.pendingIdx].meetID
				e.Age = resolvedAges[si]
				e.AgeClass = opltypes.AgeClassFromAge(e.Age)
				e.BirthYearClass = opltypes.BirthYearClassFromAge(e.Age)
				computePoints(&e)

				globalIdx := offsets[loc.pendingIdx] + loc.entryIdx
				entries[globalIdx] = e
			}
		}
	}

	return entries
}

// discoverMeetDirs walks root for every directory containing a
// meet.csv or entries.csv, the same is_meetdir test the original
// checker applies.
func discoverMeetDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, err := os.Stat(filepath.Join(path, "entries.csv")); err == nil {
			dirs = append(dirs, path)
			return nil
		}
		if _, err := os.Stat(filepath.Join(path, "meet.csv")); err == nil {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)
	return dirs, nil
}

// loadLifterData reads every lifter-data/*.csv file under root,
// merging their Reports into one.
func loadLifterData(root string) ([]LifterDatum, *Report) {
	report := NewReport(filepath.Join(root, "lifter-data"))
	dataDir := filepath.Join(root, "lifter-data")

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, report
	}

	var out []LifterDatum
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".csv") {
			continue
		}
		path := filepath.Join(dataDir, ent.Name())
		f, err := os.Open(path)
		if err != nil {
			report.Error(0, "could not open %s: %v", path, err)
			continue
		}
		data, sub := ParseLifterDataCSV(f, path)
		f.Close()
		out = append(out, data...)
		report.Merge(sub)
	}
	return out, report
}

// loadConfigs discovers and parses every CONFIG.toml in the tree,
// keyed by the meetpath of the directory that contains it (a
// federation directory at depth 1, or — for meet-data/mags — any
// subdirectory at depth 1 below that).
func loadConfigs(root string) (map[string]*Config, *Report) {
	report := NewReport(root)
	configs := make(map[string]*Config)

	fedDirs, err := os.ReadDir(root)
	if err != nil {
		return configs, report
	}

	var candidateDirs []string
	for _, fd := range fedDirs {
		if !fd.IsDir() {
			continue
		}
		candidateDirs = append(candidateDirs, filepath.Join(root, fd.Name()))
	}

	magsRoot := filepath.Join(root, magsDir)
	if magsEntries, err := os.ReadDir(magsRoot); err == nil {
		for _, me := range magsEntries {
			if me.IsDir() {
				candidateDirs = append(candidateDirs, filepath.Join(magsRoot, me.Name()))
			}
		}
	}

	for _, dir := range candidateDirs {
		configPath := filepath.Join(dir, "CONFIG.toml")
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		cfg, sub := LoadConfig(configPath)
		report.Merge(sub)
		if cfg == nil {
			continue
		}
		rel, ok := MeetPath(root, dir)
		if !ok {
			continue
		}
		configs[rel] = cfg
	}
	return configs, report
}

// configFor finds the Config governing meetPath: the CONFIG.toml
// belonging to the longest configured prefix of meetPath, matching the
// original checker's per-federation-directory config scoping.
func configFor(configs map[string]*Config, meetPath string) (*Config, string) {
	var bestKey string
	var best *Config
	for key, cfg := range configs {
		if meetPath == key || strings.HasPrefix(meetPath, key+"/") {
			if len(key) > len(bestKey) {
				bestKey, best = key, cfg
			}
		}
	}
	if best == nil {
		return nil, ""
	}
	exemptFolder := strings.TrimPrefix(meetPath, bestKey+"/")
	return best, exemptFolder
}

func parseMeetDir(root, dir string, configs map[string]*Config) parsedMeet {
	meetPath, ok := MeetPath(root, dir)
	if !ok {
		report := NewReport(dir)
		report.Error(0, "meet path contains characters not allowed in a MeetPath")
		return parsedMeet{report: report}
	}

	cfg, exemptFolder := configFor(configs, meetPath)

	report := NewReport(meetPath)

	meetFile, err := os.Open(filepath.Join(dir, "meet.csv"))
	if err != nil {
		report.Error(0, "could not open meet.csv: %v", err)
		return parsedMeet{report: report}
	}
	meet, meetReport := ParseMeetCSV(meetFile, meetPath)
	meetFile.Close()
	report.Merge(meetReport)
	if meet == nil {
		return parsedMeet{report: report}
	}

	ruleset := meet.RuleSet
	if cfg != nil && ruleset == 0 {
		ruleset = cfg.DefaultRuleSet
	}

	entriesFile, err := os.Open(filepath.Join(dir, "entries.csv"))
	if err != nil {
		report.Error(0, "could not open entries.csv: %v", err)
		return parsedMeet{meet: meet, report: report}
	}
	rawEntries, entriesReport := ParseEntriesCSV(entriesFile, meetPath, cfg, exemptFolder, ruleset)
	entriesFile.Close()
	report.Merge(entriesReport)

	return parsedMeet{meet: meet, rawEntries: rawEntries, report: report}
}
