package records

import (
	"golang.org/x/sync/errgroup"

	"github.com/openlifting/oplengine/internal/cache"
	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/metafed"
	"github.com/openlifting/oplengine/internal/query"
)

// Engine computes records tables against a compiled Database, reusing
// the rankings query engine's entry-matching predicates to build the
// candidate list.
type Engine struct {
	database *db.Database
	queries  *query.Engine
}

// NewEngine wires a records Engine from the same components a
// query.Engine is built from.
func NewEngine(database *db.Database, loglin *cache.LogLinearCache, constant *cache.ConstantTimeCache, metafeds *metafed.Resolver) *Engine {
	return &Engine{
		database: database,
		queries:  query.NewEngine(database, loglin, constant, metafeds),
	}
}

// candidates returns every EntryID matching sel's axis restrictions,
// excluding disqualified entries (records tables never show a DQ).
func (e *Engine) candidates(sel Selection) []db.EntryID {
	entries := e.database.Entries()
	rows := e.queries.CandidatesForFilter(sel.toQueryFilter())

	out := make([]db.EntryID, 0, len(rows))
	for _, id := range rows {
		if entries[id].Place.IsDQ() {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Tables is the seven records tables, in the conventional print order.
type Tables struct {
	FullPowerSquat, FullPowerBench, FullPowerDeadlift, FullPowerTotal []ClassResult
	AnySquat, AnyBench, AnyDeadlift                                  []ClassResult
}

// Find computes records tables for sel. Class-family accumulation
// (squat, bench, deadlift, total) runs in separate goroutines since each
// family only ever touches its own fields of the per-class collectors;
// each goroutine re-scans the full candidate list rather than splitting
// it, trading redundant scan work for simple, lock-free parallelism.
func (e *Engine) Find(sel Selection) (Tables, error) {
	schema := classSchema(sel.ClassKind, sel.Sex)
	classes := make([]*classCollector, len(schema))
	for i, b := range schema {
		classes[i] = &classCollector{weightClassBound: b}
	}

	candidateIDs := e.candidates(sel)
	entries := e.database.Entries()
	meets := e.database.Meets()

	var g errgroup.Group

	g.Go(func() error {
		for _, id := range candidateIDs {
			entry := &entries[id]
			cls := findClass(classes, entry)
			if cls == nil || !entry.Event.HasSquat() {
				continue
			}
			if entry.Event.IsFullPower() {
				cls.fullpowerSquat.integrate(meets, entry, db.CmpSquat)
			}
			cls.anySquat.integrate(meets, entry, db.CmpSquat)
		}
		return nil
	})
	g.Go(func() error {
		for _, id := range candidateIDs {
			entry := &entries[id]
			cls := findClass(classes, entry)
			if cls == nil || !entry.Event.HasBench() {
				continue
			}
			if entry.Event.IsFullPower() {
				cls.fullpowerBench.integrate(meets, entry, db.CmpBench)
			}
			cls.anyBench.integrate(meets, entry, db.CmpBench)
		}
		return nil
	})
	g.Go(func() error {
		for _, id := range candidateIDs {
			entry := &entries[id]
			cls := findClass(classes, entry)
			if cls == nil || !entry.Event.HasDeadlift() {
				continue
			}
			if entry.Event.IsFullPower() {
				cls.fullpowerDeadlift.integrate(meets, entry, db.CmpDeadlift)
			}
			cls.anyDeadlift.integrate(meets, entry, db.CmpDeadlift)
		}
		return nil
	})
	g.Go(func() error {
		for _, id := range candidateIDs {
			entry := &entries[id]
			cls := findClass(classes, entry)
			if cls == nil || !entry.Event.IsFullPower() {
				continue
			}
			cls.fullpowerTotal.integrate(meets, entry, db.CmpTotal)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Tables{}, err
	}

	tables := Tables{}
	for _, c := range classes {
		r := c.result()
		tables.FullPowerSquat = append(tables.FullPowerSquat, ClassResult{WeightClass: r.WeightClass, FullPowerSquat: r.FullPowerSquat})
		tables.AnySquat = append(tables.AnySquat, ClassResult{WeightClass: r.WeightClass, AnySquat: r.AnySquat})
		tables.FullPowerBench = append(tables.FullPowerBench, ClassResult{WeightClass: r.WeightClass, FullPowerBench: r.FullPowerBench})
		tables.AnyBench = append(tables.AnyBench, ClassResult{WeightClass: r.WeightClass, AnyBench: r.AnyBench})
		tables.FullPowerDeadlift = append(tables.FullPowerDeadlift, ClassResult{WeightClass: r.WeightClass, FullPowerDeadlift: r.FullPowerDeadlift})
		tables.AnyDeadlift = append(tables.AnyDeadlift, ClassResult{WeightClass: r.WeightClass, AnyDeadlift: r.AnyDeadlift})
		tables.FullPowerTotal = append(tables.FullPowerTotal, ClassResult{WeightClass: r.WeightClass, FullPowerTotal: r.FullPowerTotal})
	}
	return tables, nil
}

// findClass returns the class containing entry's bodyweight, or nil if
// none does (which shouldn't happen for a valid bodyweight, but can for
// a malformed or sexless-schema mismatch fixture).
func findClass(classes []*classCollector, entry *db.Entry) *classCollector {
	for _, c := range classes {
		if c.entryInClass(entry) {
			return c
		}
	}
	return nil
}
