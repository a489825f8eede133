// Package records implements the records engine: for a fixed selection
// of equipment, federation, sex, weight-class schema, age class, and
// year, it collects the top-3 entries per weight class across seven
// record categories (full-power squat/bench/deadlift/total, and
// any-event squat/bench/deadlift).
package records

import (
	"github.com/openlifting/oplengine/internal/cache"
	"github.com/openlifting/oplengine/internal/opltypes"
	"github.com/openlifting/oplengine/internal/query"
)

// ClassKind selects which weight-class schema a records query uses.
type ClassKind uint8

const (
	// ClassTraditional is the long-running IPF-descended class schema
	// (52/56/60/67.5/75/82.5/90/100/110/125/140/140+ for men).
	ClassTraditional ClassKind = iota
	// ClassIPF is the 2019-onward IPF schema.
	ClassIPF
	// ClassWP is World Powerlifting's distinct schema.
	ClassWP
)

// ParseClassKind parses the URL-path token for a class-kind selector.
// The empty default (Traditional) is never a token match; callers start
// from DefaultSelection and only call this for a segment that isn't
// consumed by another axis.
func ParseClassKind(s string) (ClassKind, bool) {
	switch s {
	case "ipf-classes":
		return ClassIPF, true
	case "wp-classes":
		return ClassWP, true
	default:
		return 0, false
	}
}

// Selection is a fully parsed records query: the same axis restrictions
// as a rankings query.Filter, plus the class-kind schema choice and a
// fixed sex (records tables are always split by sex, never merged).
type Selection struct {
	Equipment  cache.EquipmentKey
	Federation query.FederationFilter
	Sex        query.SexFilterKind
	ClassKind  ClassKind
	AgeClass   query.AgeClassFilter
	Year       query.YearFilter
}

// DefaultSelection matches the upstream default: raw+wraps, all
// federations, men, traditional classes, all ages, all years.
func DefaultSelection() Selection {
	return Selection{
		Equipment:  cache.EquipmentRawWraps,
		Federation: query.FederationFilter{Kind: query.FederationAll},
		Sex:        query.SexMen,
		ClassKind:  ClassTraditional,
		AgeClass:   query.AgeClassFilter{All: true},
		Year:       query.YearFilter{All: true},
	}
}

// toQueryFilter widens a Selection into a query.Filter, for reuse of the
// query engine's entry-matching predicates. WeightClasses and Event are
// left unrestricted: the records engine itself partitions by weight
// class and iterates every event-derived category.
func (s Selection) toQueryFilter() query.Filter {
	return query.Filter{
		Equipment:     s.Equipment,
		Sex:           s.Sex,
		Year:          s.Year,
		Federation:    s.Federation,
		AgeClass:      s.AgeClass,
		Event:         query.EventFilter{All: true},
		WeightClasses: query.WeightClassFilter{All: true},
	}
}

// weightClassBound is one schema entry: a WeightClassKg value together
// with the (exclusive-min, inclusive-max) bodyweight bounds that define
// class membership.
type weightClassBound struct {
	Name         opltypes.WeightClassKg
	MinExclusive opltypes.WeightKg
	MaxInclusive opltypes.WeightKg
}

func fromCutoffsKg(cutoffs []float64) []weightClassBound {
	bounds := make([]weightClassBound, 0, len(cutoffs))
	prev := opltypes.WeightKg(0)
	for i, c := range cutoffs {
		w := opltypes.FromKgFloat64(c)
		if i == len(cutoffs)-1 {
			bounds = append(bounds, weightClassBound{
				Name:         opltypes.Over(w),
				MinExclusive: prev,
				MaxInclusive: opltypes.MaxWeightKg,
			})
			break
		}
		bounds = append(bounds, weightClassBound{
			Name:         opltypes.UnderOrEqual(w),
			MinExclusive: prev,
			MaxInclusive: w,
		})
		prev = w
	}
	return bounds
}

// classSchema returns the ordered list of weight-class bounds for the
// given class kind and sex. The last entry of every schema is always an
// open-ended "over" class. Cutoffs are listed ascending, with the final
// value reused only as the "over" boundary (it never becomes its own
// UnderOrEqual class).
func classSchema(kind ClassKind, sex query.SexFilterKind) []weightClassBound {
	men := sex != query.SexWomen
	switch kind {
	case ClassTraditional:
		if men {
			return fromCutoffsKg([]float64{52, 56, 60, 67.5, 75, 82.5, 90, 100, 110, 125, 140, 140})
		}
		return fromCutoffsKg([]float64{44, 48, 52, 56, 60, 67.5, 75, 82.5, 90, 90})
	case ClassIPF:
		if men {
			return fromCutoffsKg([]float64{53, 59, 66, 74, 83, 93, 105, 120, 120})
		}
		return fromCutoffsKg([]float64{43, 47, 52, 57, 63, 72, 84, 84})
	case ClassWP:
		if men {
			return fromCutoffsKg([]float64{62, 69, 77, 85, 94, 105, 120, 120})
		}
		return fromCutoffsKg([]float64{48, 53, 58, 64, 72, 84, 100, 100})
	default:
		return nil
	}
}
