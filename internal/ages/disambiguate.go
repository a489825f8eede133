package ages

import (
	"math"
	"sort"
)

// RangesForFacts computes an independent BirthDateRange for each fact,
// narrowed only by that single fact's own data (unlike Interpolate,
// which folds every fact of a lifter into one shared range). These
// per-entry ranges are the input to GroupByAge.
func RangesForFacts(facts []Fact) []BirthDateRange {
	ranges := make([]BirthDateRange, len(facts))
	for i, f := range facts {
		r := DefaultBirthDateRange()
		if f.hasBirthDate() {
			r.NarrowByBirthdate(f.BirthDate)
		}
		if f.BirthYear != 0 {
			r.NarrowByBirthyear(f.BirthYear)
		}
		if f.Age.Kind != 0 {
			r.NarrowByAge(f.Age, f.MeetDate)
		}
		ranges[i] = r
	}
	return ranges
}

// GroupByAge partitions the indices of ranges into the largest
// age-consistent subsets, implementing the Largest Consistent Subset
// algorithm: entries whose BirthDateRange has no common intersection
// with the rest of their username's entries most often belong to two
// different people who happened to share a login name.
//
// Entries with no age information at all (a range still at its
// default bounds) are never mistakenly grouped with a data-bearing
// subset; they form their own group first, separate from the
// iterative largest-subset search below.
func GroupByAge(ranges []BirthDateRange) [][]int {
	var groups [][]int
	var blank []int
	var ungrouped []int

	for i, r := range ranges {
		if r.IsDefault() {
			blank = append(blank, i)
		} else {
			ungrouped = append(ungrouped, i)
		}
	}
	if len(blank) > 0 {
		groups = append(groups, blank)
	}

	for {
		lcs := findLCS(ungrouped, ranges)
		if lcs == nil {
			break
		}
		inLCS := make(map[int]bool, len(lcs))
		for _, idx := range lcs {
			inLCS[idx] = true
		}
		remaining := ungrouped[:0:0]
		for _, idx := range ungrouped {
			if !inLCS[idx] {
				remaining = append(remaining, idx)
			}
		}
		ungrouped = remaining
		groups = append(groups, lcs)
	}

	for _, idx := range ungrouped {
		groups = append(groups, []int{idx})
	}
	return groups
}

// isConsistent reports whether every range named by subset shares a
// common intersection.
func isConsistent(subset []int, ranges []BirthDateRange) bool {
	bdr := DefaultBirthDateRange()
	for _, idx := range subset {
		r := ranges[idx]
		if r.Max < bdr.Min {
			return false
		}
		if r.Max < bdr.Max {
			bdr.Max = r.Max
		}
		if r.Min > bdr.Max {
			return false
		}
		if r.Min > bdr.Min {
			bdr.Min = r.Min
		}
	}
	return true
}

// calcDistance returns the distance in days from the point x to the
// nearest edge of r, or zero if x already falls inside r.
func calcDistance(r BirthDateRange, x float64) float64 {
	minDays, maxDays := float64(r.Min.CountDays()), float64(r.Max.CountDays())
	if minDays > x {
		return minDays - x
	}
	if maxDays < x {
		return maxDays - x
	}
	return 0
}

func calcError(r BirthDateRange, x float64) float64 {
	d := calcDistance(r, x)
	return d * d
}

type indexedError struct {
	index int
	err   float64
}

// sortedErrors computes, for every range named in subset, the squared
// distance from x, sorted ascending so the caller can take the r
// lowest-error ranges to test an r-sized subset for consistency at x.
func sortedErrors(x float64, subset []int, ranges []BirthDateRange) []indexedError {
	errs := make([]indexedError, len(subset))
	for i, idx := range subset {
		errs[i] = indexedError{index: i, err: calcError(ranges[idx], x)}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].err < errs[j].err })
	return errs
}

// findLCSAt tries every candidate subset size from len(subset)-1 down
// to 2, at every sample point in testVals, and returns the first
// (largest, i.e. first by descending r) subset whose total error is
// zero — meaning every one of those r ranges truly contains x.
func findLCSAt(subset []int, ranges []BirthDateRange, testVals []float64) []int {
	errByPoint := make([][]indexedError, len(testVals))
	for i, x := range testVals {
		errByPoint[i] = sortedErrors(x, subset, ranges)
	}

	for r := len(subset) - 1; r >= 2; r-- {
		bestErrs := errByPoint[0][:r]
		bestSum := sumErr(bestErrs)
		for i := 1; i < len(testVals); i++ {
			cand := errByPoint[i][:r]
			sum := sumErr(cand)
			if sum < bestSum {
				bestSum = sum
				bestErrs = cand
			}
		}
		if bestSum == 0 {
			out := make([]int, r)
			for i, e := range bestErrs {
				out[i] = subset[e.index]
			}
			return out
		}
	}
	return nil
}

func sumErr(errs []indexedError) float64 {
	var sum float64
	for _, e := range errs {
		sum += e.err
	}
	return sum
}

// getTestPoints samples the midpoints between adjacent ranges (sorted
// by upper bound) plus every range boundary, since the LCS error
// function can only change which subset is minimal at one of those
// points.
func getTestPoints(subset []int, ranges []BirthDateRange) []float64 {
	type bound struct{ min, max float64 }
	bounds := make([]bound, len(subset))
	for i, idx := range subset {
		bounds[i] = bound{float64(ranges[idx].Min.CountDays()), float64(ranges[idx].Max.CountDays())}
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i].max < bounds[j].max })

	var points []float64
	if len(bounds) >= 2 {
		points = append(points, (bounds[0].max+(bounds[0].max+bounds[1].min)/2)/2)
		for i := 0; i+2 < len(bounds); i++ {
			i1 := (bounds[i].max + bounds[i+1].min) / 2
			i2 := (bounds[i+1].max + bounds[i+2].min) / 2
			points = append(points, (i1+i2)/2)
		}
		last := len(bounds) - 1
		points = append(points, (bounds[last].min+(bounds[last-1].max+bounds[last].min)/2)/2)
	}
	for _, b := range bounds {
		points = append(points, b.min, b.max)
	}

	sort.Float64s(points)
	return dedupFloats(points)
}

func dedupFloats(vals []float64) []float64 {
	if len(vals) == 0 {
		return vals
	}
	out := vals[:1]
	for _, v := range vals[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// findLCS computes the largest consistent subset of subset, choosing
// between two equivalent strategies based on estimated cost: a dense
// numeric sweep over every whole-day sample point (cheap when there
// are few ranges, since sample count grows with their combined span),
// or an algebraic sweep over only the points where the error ranking
// can change (cheap when there are many ranges spanning a wide range
// of dates).
func findLCS(subset []int, ranges []BirthDateRange) []int {
	if len(subset) == 0 {
		return nil
	}
	if len(subset) == 1 {
		return append([]int(nil), subset...)
	}
	if isConsistent(subset, ranges) {
		return append([]int(nil), subset...)
	}

	var testVals []float64
	for _, idx := range subset {
		r := ranges[idx]
		minDays, maxDays := r.Min.CountDays(), r.Max.CountDays()
		for d := minDays; d <= maxDays; d++ {
			testVals = append(testVals, float64(d))
		}
	}
	sort.Float64s(testVals)
	testVals = dedupFloats(testVals)

	n := float64(len(subset))
	numericOps := float64(len(testVals)) * n * math.Log2(n)
	algebraicOps := float64(len(ranges)) * float64(len(ranges))

	if numericOps < algebraicOps {
		return findLCSAt(subset, ranges, testVals)
	}
	return findLCSAt(subset, ranges, getTestPoints(subset, ranges))
}
