package query

import (
	"github.com/openlifting/oplengine/internal/cache"
	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/errors"
	"github.com/openlifting/oplengine/internal/metafed"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// Engine executes RankingsQuery values against a compiled Database and
// its precomputed caches.
type Engine struct {
	database *db.Database
	loglin   *cache.LogLinearCache
	constant *cache.ConstantTimeCache
	metafeds *metafed.Resolver
}

// NewEngine wires a Database together with its precomputed caches and
// MetaFederation resolver.
func NewEngine(database *db.Database, loglin *cache.LogLinearCache, constant *cache.ConstantTimeCache, metafeds *metafed.Resolver) *Engine {
	return &Engine{database: database, loglin: loglin, constant: constant, metafeds: metafeds}
}

// Result is a paginated slice of a ranking, along with the total number
// of qualifying rows (before pagination) so callers can render a
// page-count widget without re-running the query.
type Result struct {
	TotalLength int
	Rows        []db.EntryID
}

// Execute runs q against the engine's database, returning every
// qualifying EntryID in comparator order (unpaginated — call GetSlice
// to paginate).
func (e *Engine) Execute(q RankingsQuery) cache.SortedUnique {
	if q.Filter.matchesConstantTimeSchema() {
		cached, ok := e.constant.Lookup(q.OrderBy, q.Filter.Equipment)
		if ok {
			return e.applySexFilter(cached, q.Filter.Sex)
		}
	}
	return e.executeLogLinear(q)
}

// applySexFilter linearly filters a SortedUnique by sex. Sex isn't
// part of the constant-time cache key, so every cache hit still passes
// through here (a no-op scan when Sex is SexAll).
func (e *Engine) applySexFilter(su cache.SortedUnique, sex SexFilterKind) cache.SortedUnique {
	if sex == SexAll {
		return su
	}
	out := make(cache.SortedUnique, 0, len(su))
	entries := e.database.Entries()
	for _, id := range su {
		s := entries[id].Sex
		if sex == SexMen && (s == opltypes.SexMale || s == opltypes.SexMx) {
			out = append(out, id)
		} else if sex == SexWomen && s == opltypes.SexFemale {
			out = append(out, id)
		}
	}
	return out
}

// executeLogLinear runs the general-purpose path: intersect the
// equipment/sex/year log-linear EntrySets, apply every open-ended
// filter as an O(N) scan, then sort-and-unique by the comparator.
func (e *Engine) executeLogLinear(q RankingsQuery) cache.SortedUnique {
	set := e.loglin.ByEquipmentKey(q.Filter.Equipment)

	switch q.Filter.Sex {
	case SexMen:
		set = set.Intersect(e.loglin.Male)
	case SexWomen:
		set = set.Intersect(e.loglin.Female)
	}

	if !q.Filter.Year.All {
		if yearSet, ok := e.loglin.YearCache(q.Filter.Year.Year); ok {
			set = set.Intersect(yearSet)
		}
		// Years outside the maintained log-linear window fall through
		// to the year check in the linear openEndedFilters pass below.
	}

	entries := e.database.Entries()
	meets := e.database.Meets()
	belongs := cache.Belongs(q.OrderBy)
	filter := func(en *db.Entry) bool {
		return belongs(en) && e.openEndedFilters(q.Filter, en, &meets[en.MeetID])
	}

	return cache.SortAndUniqueBy(set, entries, meets, cache.Comparator(q.OrderBy), filter)
}

// openEndedFilters applies the filters that have no dedicated cache:
// federation/metafederation, state, ageclass, event, weightclass, and
// (for years outside the maintained log-linear window) year itself.
func (e *Engine) openEndedFilters(f Filter, en *db.Entry, m *db.Meet) bool {
	if !f.Year.All {
		if _, cached := e.loglin.YearCache(f.Year.Year); !cached && m.Date.Year() != f.Year.Year {
			return false
		}
	}
	switch f.Federation.Kind {
	case FederationExact:
		if m.Federation != f.Federation.Fed {
			return false
		}
	case FederationMeta:
		if !e.metafeds.Contains(f.Federation.Meta, en, m) {
			return false
		}
	}
	if f.State.Set {
		if en.LifterState != f.State.State || m.Country != f.State.Country {
			return false
		}
	}
	if !f.AgeClass.All && en.AgeClass != f.AgeClass.Class {
		return false
	}
	if !f.Event.All && en.Event != f.Event.Event {
		return false
	}
	if !f.WeightClasses.All && !f.WeightClasses.Class.Matches(en.BodyweightKg) {
		return false
	}
	return true
}

// CandidatesForFilter returns every EntryID matching f's axis
// restrictions, in arbitrary (LifterID-derived) order with no ranking or
// per-lifter deduplication applied. This is the building block for
// callers, like the records engine, that need the raw candidate set for
// a selector rather than a single ranked row per lifter.
func (e *Engine) CandidatesForFilter(f Filter) []db.EntryID {
	set := e.loglin.ByEquipmentKey(f.Equipment)

	switch f.Sex {
	case SexMen:
		set = set.Intersect(e.loglin.Male)
	case SexWomen:
		set = set.Intersect(e.loglin.Female)
	}

	if !f.Year.All {
		if yearSet, ok := e.loglin.YearCache(f.Year.Year); ok {
			set = set.Intersect(yearSet)
		}
	}

	entries := e.database.Entries()
	meets := e.database.Meets()
	ids := set.EntryIDs()
	out := make([]db.EntryID, 0, len(ids))
	for _, id := range ids {
		en := &entries[id]
		if e.openEndedFilters(f, en, &meets[en.MeetID]) {
			out = append(out, id)
		}
	}
	return out
}

// MaxPageSize bounds the number of rows GetSlice returns in one call.
const MaxPageSize = 100

// GetSlice paginates a computed ranking. end is clamped to the last
// valid index and swapped with start if given in the wrong order; a
// window wider than MaxPageSize is cut to MaxPageSize rows, and a
// negative start or one beyond the total row count is an error.
func GetSlice(rows cache.SortedUnique, start, end int) (Result, error) {
	total := len(rows)
	if start > end {
		start, end = end, start
	}
	if start < 0 || (total > 0 && start >= total) {
		return Result{}, errors.QueryError("rankings pagination start out of range", nil)
	}
	if end >= total {
		end = total - 1
	}
	if end-start+1 > MaxPageSize {
		end = start + MaxPageSize - 1
	}
	if total == 0 {
		return Result{TotalLength: 0, Rows: nil}, nil
	}
	return Result{TotalLength: total, Rows: []db.EntryID(rows[start : end+1])}, nil
}

