package ages

import "github.com/openlifting/oplengine/internal/opltypes"

// Fact is the per-entry age information available before
// interpolation: the meet date the entry happened on, plus whichever
// of BirthDate, BirthYear, or Age was explicitly recorded (the zero
// value for each means "not present").
type Fact struct {
	MeetDate  Date
	BirthDate Date // zero means absent
	BirthYear uint32
	Age       Age
}

// hasBirthDate reports whether f carries an explicit birthdate. Zero is
// a valid-looking Date bit pattern (year 0), but no real lifter.csv row
// ever produces it, so it doubles as "absent" here.
func (f Fact) hasBirthDate() bool { return f.BirthDate != 0 }

// Interpolate derives a single BirthDateRange consistent with every
// fact in facts, then uses it to fill in the Age for any fact that
// didn't already carry an exact one. It returns one Age per input
// Fact, in the same order.
//
// If the facts can't be reconciled into one consistent range, or there
// are fewer than two facts to reconcile, Interpolate returns each
// fact's own Age unchanged — interpolation never invents information
// from a single data point, and never overwrites on conflict.
func Interpolate(facts []Fact) []Age {
	out := make([]Age, len(facts))
	for i, f := range facts {
		out[i] = f.Age
	}
	if len(facts) < 2 {
		return out
	}

	rng, ok := birthDateRangeFor(facts)
	if !ok {
		return out
	}

	for i, f := range facts {
		inferred := rng.AgeOn(f.MeetDate)
		switch inferred.Kind {
		case opltypes.AgeKindExact:
			out[i] = inferred
		case opltypes.AgeKindApproximate:
			if out[i].Kind != opltypes.AgeKindExact {
				out[i] = inferred
			}
		}
	}
	return out
}

// birthDateRangeFor folds every fact into a single BirthDateRange,
// returning ok=false if the facts are mutually inconsistent.
func birthDateRangeFor(facts []Fact) (BirthDateRange, bool) {
	rng := DefaultBirthDateRange()
	for _, f := range facts {
		if f.hasBirthDate() {
			if rng.NarrowByBirthdate(f.BirthDate) == conflict {
				return BirthDateRange{}, false
			}
		}
		if f.BirthYear != 0 {
			if rng.NarrowByBirthyear(f.BirthYear) == conflict {
				return BirthDateRange{}, false
			}
		}
		if f.Age.Kind != opltypes.AgeNone {
			if rng.NarrowByAge(f.Age, f.MeetDate) == conflict {
				return BirthDateRange{}, false
			}
		}
	}
	return rng, true
}
