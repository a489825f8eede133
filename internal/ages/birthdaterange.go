// Package ages implements the two build-time algorithms that reconcile
// a lifter's Age data across their entries: interpolation, which
// derives a single BirthDate range consistent with every entry and
// back-fills any missing Age values from it, and disambiguation, which
// partitions a lifter's entries into the largest age-consistent
// subsets when no single range reconciles them all (most often because
// two different people share a username).
package ages

import "github.com/openlifting/oplengine/internal/opltypes"

// Date is an alias into this package's namespace for opltypes.Date, so
// callers don't need to import opltypes just to build a Fact.
type Date = opltypes.Date

// Age is an alias for opltypes.Age.
type Age = opltypes.Age

// birthDateRangeDefaultMin and birthDateRangeDefaultMax are unrealistic
// sentinel bounds representing "no information yet." They aren't
// calendar-valid dates; only their relative ordering against other
// Dates matters, so the sentinel values are built with FromParts,
// which packs its arguments without any validity check.
var (
	birthDateRangeDefaultMin = opltypes.FromParts(1100, 1, 1)
	birthDateRangeDefaultMax = opltypes.FromParts(9997, 6, 15)
)

// BirthDateRange holds the minimum and maximum possible birthdate
// consistent with the age facts folded into it so far.
type BirthDateRange struct {
	Min, Max Date
}

// DefaultBirthDateRange is the "nothing known yet" range.
func DefaultBirthDateRange() BirthDateRange {
	return BirthDateRange{Min: birthDateRangeDefaultMin, Max: birthDateRangeDefaultMax}
}

// IsDefault reports whether no age fact has narrowed the range at all.
func (r BirthDateRange) IsDefault() bool {
	return r.Min == birthDateRangeDefaultMin && r.Max == birthDateRangeDefaultMax
}

// narrowResult mirrors the sentinel the original interpolator returns
// from each narrowing step: either the new information was folded in,
// or it's inconsistent with what's already known.
type narrowResult uint8

const (
	integrated narrowResult = iota
	conflict
)

// nextDay increments a Date by one day, treating every month as having
// 31 days. That's wrong as a calendar operation, but harmless here: the
// range arithmetic only ever compares Dates against each other, never
// renders one as an actual calendar date.
func nextDay(d Date) Date {
	year, month, day := d.Year(), d.Month(), d.Day()
	day++
	if day > 31 {
		day = 1
		month++
	}
	if month > 12 {
		month = 1
		year++
	}
	return opltypes.FromParts(year, month, day)
}

// AgeOn computes the Age implied by the range on the given date: exact
// if both bounds agree, approximate if they're one year apart, and
// unknown (Age.None) if the range is too wide to pin down a single year.
func (r BirthDateRange) AgeOn(date Date) Age {
	minAge, minErr := r.Min.AgeOn(date)
	maxAge, maxErr := r.Max.AgeOn(date)
	if minErr != nil {
		minAge = Age{}
	}
	if maxErr != nil {
		maxAge = Age{}
	}

	if minAge == maxAge {
		return minAge
	}

	minN, minOK := minAge.ToU8Option()
	maxN, maxOK := maxAge.ToU8Option()
	if !minOK {
		minN = 0
	}
	if !maxOK {
		maxN = 255
	}
	if uint32(minN) == uint32(maxN)+1 {
		return opltypes.ApproximateAge(maxN)
	}
	return Age{}
}

// Intersect narrows the range to the overlap with other, or reports
// conflict if the two ranges are disjoint.
func (r *BirthDateRange) Intersect(other BirthDateRange) narrowResult {
	if r.Min > other.Max || other.Min > r.Max {
		return conflict
	}
	if other.Min > r.Min {
		r.Min = other.Min
	}
	if other.Max < r.Max {
		r.Max = other.Max
	}
	return integrated
}

// NarrowByBirthdate pins the range to a single known birthdate.
func (r *BirthDateRange) NarrowByBirthdate(birthdate Date) narrowResult {
	if birthdate < r.Min || birthdate > r.Max {
		return conflict
	}
	r.Min, r.Max = birthdate, birthdate
	return integrated
}

// NarrowByBirthyear intersects the range with the given calendar year.
func (r *BirthDateRange) NarrowByBirthyear(birthyear uint32) narrowResult {
	return r.Intersect(BirthDateRange{
		Min: opltypes.FromParts(birthyear, 1, 1),
		Max: opltypes.FromParts(birthyear, 12, 31),
	})
}

// NarrowByAge intersects the range with the birthdate bounds implied by
// a known Age on a specific date.
func (r *BirthDateRange) NarrowByAge(age Age, onDate Date) narrowResult {
	year, monthday := onDate.Year(), onDate.MonthDay()

	switch age.Kind {
	case opltypes.AgeKindExact:
		n := uint32(age.Value)
		// The latest possible birthdate is if their birthday is today.
		max := opltypes.FromParts(year-n, monthday/100, monthday%100)
		// The earliest possible birthdate is the day after their
		// birthday the year before that.
		min := nextDay(opltypes.FromParts(year-n-1, monthday/100, monthday%100))
		return r.Intersect(BirthDateRange{Min: min, Max: max})

	case opltypes.AgeKindApproximate:
		n := uint32(age.Value)
		// The latest possible birthdate is if the approximation
		// under-estimated by a year and today is their birthday.
		max := opltypes.FromParts(year-n+1, monthday/100, monthday%100)
		// The earliest possible birthdate is the day after their
		// birthday the year before the lower estimate.
		min := nextDay(opltypes.FromParts(year-n-1, monthday/100, monthday%100))
		return r.Intersect(BirthDateRange{Min: min, Max: max})

	default:
		return integrated
	}
}
