package records

import (
	"sort"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// singleRecordCollector maintains the top-3 entries for one record
// category (e.g. "full-power squat in the 82.5kg class"), ordered best
// first. A lifter occupies at most one slot.
type singleRecordCollector struct {
	accumulator [3]*db.Entry
}

// integrate considers entry for inclusion, using compare to rank it
// against the current accumulator. If entry's lifter already holds a
// slot, that slot is replaced only when entry is strictly better;
// otherwise the worst (last) slot is displaced if entry beats it. The
// accumulator is kept sorted after every call, nil slots sorting last.
func (c *singleRecordCollector) integrate(meets []db.Meet, entry *db.Entry, compare db.Comparator) {
	worst := c.accumulator[len(c.accumulator)-1]
	if worst != nil && compare(meets, entry, worst) >= 0 {
		return
	}

	for i, held := range c.accumulator {
		if held != nil && held.LifterID == entry.LifterID {
			if compare(meets, entry, held) < 0 {
				c.accumulator[i] = entry
			}
			c.resort(meets, compare)
			return
		}
	}

	c.accumulator[len(c.accumulator)-1] = entry
	c.resort(meets, compare)
}

func (c *singleRecordCollector) resort(meets []db.Meet, compare db.Comparator) {
	sort.SliceStable(c.accumulator[:], func(i, j int) bool {
		a, b := c.accumulator[i], c.accumulator[j]
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return compare(meets, a, b) < 0
		}
	})
}

// Record is one ranked result in a records table: a rank position and
// the entry occupying it, or a nil Entry for an unfilled slot.
type Record struct {
	Rank  int
	Entry *db.Entry
}

func (c *singleRecordCollector) records() []Record {
	out := make([]Record, len(c.accumulator))
	for i, e := range c.accumulator {
		out[i] = Record{Rank: i + 1, Entry: e}
	}
	return out
}

// classCollector accumulates all seven record categories for a single
// weight class.
type classCollector struct {
	weightClassBound
	fullpowerSquat, fullpowerBench, fullpowerDeadlift, fullpowerTotal singleRecordCollector
	anySquat, anyBench, anyDeadlift                                  singleRecordCollector
}

// entryInClass reports whether entry's bodyweight (or, absent a
// recorded bodyweight, its reported SHW weight class) falls inside c's
// bounds.
func (c *classCollector) entryInClass(entry *db.Entry) bool {
	if entry.BodyweightKg.IsNonZero() {
		return entry.BodyweightKg > c.MinExclusive && entry.BodyweightKg <= c.MaxInclusive
	}
	if c.MaxInclusive == opltypes.MaxWeightKg {
		if entry.WeightClassKg.Kind == opltypes.WeightClassOver {
			return entry.WeightClassKg.Value >= c.MinExclusive
		}
	}
	return false
}

// integrate feeds entry into every category whose event predicate it
// satisfies. Callers must have already confirmed entryInClass(entry).
func (c *classCollector) integrate(meets []db.Meet, entry *db.Entry) {
	if entry.Event.IsFullPower() {
		c.fullpowerSquat.integrate(meets, entry, db.CmpSquat)
		c.fullpowerBench.integrate(meets, entry, db.CmpBench)
		c.fullpowerDeadlift.integrate(meets, entry, db.CmpDeadlift)
		c.fullpowerTotal.integrate(meets, entry, db.CmpTotal)
	}
	if entry.Event.HasSquat() {
		c.anySquat.integrate(meets, entry, db.CmpSquat)
	}
	if entry.Event.HasBench() {
		c.anyBench.integrate(meets, entry, db.CmpBench)
	}
	if entry.Event.HasDeadlift() {
		c.anyDeadlift.integrate(meets, entry, db.CmpDeadlift)
	}
}

// ClassResult is one weight class's results across all seven
// categories, in the printed table order: full-power squat/bench/
// deadlift/total, then any-event squat/bench/deadlift.
type ClassResult struct {
	WeightClass                                                      opltypes.WeightClassKg
	FullPowerSquat, FullPowerBench, FullPowerDeadlift, FullPowerTotal []Record
	AnySquat, AnyBench, AnyDeadlift                                  []Record
}

func (c *classCollector) result() ClassResult {
	return ClassResult{
		WeightClass:       c.Name,
		FullPowerSquat:    c.fullpowerSquat.records(),
		FullPowerBench:    c.fullpowerBench.records(),
		FullPowerDeadlift: c.fullpowerDeadlift.records(),
		FullPowerTotal:    c.fullpowerTotal.records(),
		AnySquat:          c.anySquat.records(),
		AnyBench:          c.anyBench.records(),
		AnyDeadlift:       c.anyDeadlift.records(),
	}
}
