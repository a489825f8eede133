package db

// This file holds the filter predicates and comparator functions used to
// build rankings for each of the nine ranked categories: the three main
// lifts, total, and five precomputed points systems (Wilks, McCulloch,
// Glossbrenner, Goodlift, Dots). A category's filter decides whether an
// entry belongs in that ranking at all; its comparator orders entries
// that pass the filter, best result first.
//
// The comparators are not symmetric between the weight-based categories
// and the points-based ones. A weight comparator (squat/bench/deadlift)
// breaks ties by meet date, then bodyweight, then total. The total
// comparator breaks ties by date then bodyweight, with no third level
// since total can't tiebreak itself. A points comparator breaks ties by
// date then total only — bodyweight is not part of the points tiebreak
// chain.

// FilterSquat reports whether an entry has a usable highest squat.
func FilterSquat(e *Entry) bool { return e.HighestSquatKg() > 0 && !e.Place.IsDQ() }

// FilterBench reports whether an entry has a usable highest bench.
func FilterBench(e *Entry) bool { return e.HighestBenchKg() > 0 && !e.Place.IsDQ() }

// FilterDeadlift reports whether an entry has a usable highest deadlift.
func FilterDeadlift(e *Entry) bool { return e.HighestDeadliftKg() > 0 && !e.Place.IsDQ() }

// FilterTotal reports whether an entry has a nonzero total.
func FilterTotal(e *Entry) bool { return e.TotalKg > 0 }

// FilterWilks reports whether an entry has a usable Wilks score.
func FilterWilks(e *Entry) bool { return e.Wilks > 0 }

// FilterMcCulloch reports whether an entry has a usable McCulloch score.
func FilterMcCulloch(e *Entry) bool { return e.McCulloch > 0 }

// FilterGlossbrenner reports whether an entry has a usable Glossbrenner score.
func FilterGlossbrenner(e *Entry) bool { return e.Glossbrenner > 0 }

// FilterGoodlift reports whether an entry has a usable Goodlift score.
func FilterGoodlift(e *Entry) bool { return e.Goodlift > 0 }

// FilterDots reports whether an entry has a usable Dots score.
func FilterDots(e *Entry) bool { return e.Dots > 0 }

// Comparator orders two entries for ranking purposes: negative if a
// should rank above b, positive if b should rank above a, zero if the
// two are unorderable by this comparator (which sort_and_unique_by
// treats as "pick either").
type Comparator func(meets []Meet, a, b *Entry) int

func cmpWeight(meets []Meet, a, b *Entry, highest func(*Entry) WeightKg) int {
	if c := cmpWeightDesc(highest(a), highest(b)); c != 0 {
		return c
	}
	if c := cmpDateAsc(meets, a, b); c != 0 {
		return c
	}
	if c := cmpBodyweightAsc(a, b); c != 0 {
		return c
	}
	return cmpWeightDesc(a.TotalKg, b.TotalKg)
}

// CmpSquat orders entries by highest squat, descending, tiebroken by
// meet date (ascending), bodyweight (ascending), then total (descending).
func CmpSquat(meets []Meet, a, b *Entry) int {
	return cmpWeight(meets, a, b, (*Entry).HighestSquatKg)
}

// CmpBench is the bench-press analog of CmpSquat.
func CmpBench(meets []Meet, a, b *Entry) int {
	return cmpWeight(meets, a, b, (*Entry).HighestBenchKg)
}

// CmpDeadlift is the deadlift analog of CmpSquat.
func CmpDeadlift(meets []Meet, a, b *Entry) int {
	return cmpWeight(meets, a, b, (*Entry).HighestDeadliftKg)
}

// CmpTotal orders entries by total, descending, tiebroken by meet date
// (ascending) then bodyweight (ascending). There's no further tiebreak
// since total is itself the primary key.
func CmpTotal(meets []Meet, a, b *Entry) int {
	if c := cmpWeightDesc(a.TotalKg, b.TotalKg); c != 0 {
		return c
	}
	if c := cmpDateAsc(meets, a, b); c != 0 {
		return c
	}
	return cmpBodyweightAsc(a, b)
}

func cmpGenericPoints(meets []Meet, a, b *Entry, points func(*Entry) Points) int {
	pa, pb := points(a), points(b)
	switch {
	case pa > pb:
		return -1
	case pa < pb:
		return 1
	}
	if c := cmpDateAsc(meets, a, b); c != 0 {
		return c
	}
	return cmpWeightDesc(a.TotalKg, b.TotalKg)
}

// CmpWilks orders entries by Wilks score, descending, tiebroken by meet
// date (ascending) then total (descending).
func CmpWilks(meets []Meet, a, b *Entry) int {
	return cmpGenericPoints(meets, a, b, func(e *Entry) Points { return e.Wilks })
}

// CmpMcCulloch is the McCulloch analog of CmpWilks.
func CmpMcCulloch(meets []Meet, a, b *Entry) int {
	return cmpGenericPoints(meets, a, b, func(e *Entry) Points { return e.McCulloch })
}

// CmpGlossbrenner is the Glossbrenner analog of CmpWilks.
func CmpGlossbrenner(meets []Meet, a, b *Entry) int {
	return cmpGenericPoints(meets, a, b, func(e *Entry) Points { return e.Glossbrenner })
}

// CmpGoodlift is the Goodlift analog of CmpWilks.
func CmpGoodlift(meets []Meet, a, b *Entry) int {
	return cmpGenericPoints(meets, a, b, func(e *Entry) Points { return e.Goodlift })
}

// CmpDots is the Dots analog of CmpWilks.
func CmpDots(meets []Meet, a, b *Entry) int {
	return cmpGenericPoints(meets, a, b, func(e *Entry) Points { return e.Dots })
}

func cmpWeightDesc(a, b WeightKg) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func cmpDateAsc(meets []Meet, a, b *Entry) int {
	da, db := meets[a.MeetID].Date, meets[b.MeetID].Date
	switch {
	case da < db:
		return -1
	case da > db:
		return 1
	default:
		return 0
	}
}

func cmpBodyweightAsc(a, b *Entry) int {
	switch {
	case a.BodyweightKg < b.BodyweightKg:
		return -1
	case a.BodyweightKg > b.BodyweightKg:
		return 1
	default:
		return 0
	}
}
