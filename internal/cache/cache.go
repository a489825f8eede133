// Package cache precomputes the two-tier query cache described by the
// engine's rankings algorithm: a log-linear tier of per-category sorted
// EntryID lists that support O(n) union/intersect, and a constant-time
// tier of fully pre-sorted, lifter-uniqued lists for the common
// (order-by x equipment) query shape.
//
// Both tiers lean on one invariant: db.Database.Entries() is sorted by
// non-decreasing LifterID (see db.New), so an EntryID list built by a
// single linear pass over Entries() is automatically in LifterID order.
// That lets union/intersect run as a plain sorted-merge, and lets
// "best entry per lifter" be computed by grouping contiguous runs
// without a hash map.
package cache

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// EntrySet is a monotonically increasing, duplicate-free list of
// EntryIDs. It's backed by a roaring bitmap, which stores exactly this
// shape (a sorted set of uint32s) and gives Union/Intersect for free in
// time proportional to the smaller input's run length rather than a
// naive O(n+m) merge when the sets are sparse.
type EntrySet struct {
	bm *roaring.Bitmap
}

// NewEntrySet builds an EntrySet from entries selected by a predicate,
// filtering out unsanctioned meets: unsanctioned meets are carried in
// the database but hidden from rankings and records everywhere.
func NewEntrySet(entries []db.Entry, meets []db.Meet, belongs func(*db.Entry) bool) EntrySet {
	bm := roaring.New()
	for i := range entries {
		e := &entries[i]
		if belongs(e) && meets[e.MeetID].Sanctioned {
			bm.Add(uint32(i))
		}
	}
	bm.RunOptimize()
	return EntrySet{bm: bm}
}

// Union returns the sorted union of two EntrySets.
func (s EntrySet) Union(other EntrySet) EntrySet {
	return EntrySet{bm: roaring.Or(s.bm, other.bm)}
}

// Intersect returns the sorted intersection of two EntrySets.
func (s EntrySet) Intersect(other EntrySet) EntrySet {
	return EntrySet{bm: roaring.And(s.bm, other.bm)}
}

// Len reports the number of EntryIDs in the set.
func (s EntrySet) Len() int { return int(s.bm.GetCardinality()) }

// EntryIDs materializes the set as a sorted slice of EntryIDs.
func (s EntrySet) EntryIDs() []db.EntryID {
	vals := s.bm.ToArray()
	out := make([]db.EntryID, len(vals))
	for i, v := range vals {
		out[i] = db.EntryID(v)
	}
	return out
}

// Contains reports whether id is a member of the set.
func (s EntrySet) Contains(id db.EntryID) bool { return s.bm.Contains(uint32(id)) }

// SortedUnique is the fully resolved output of a ranking: EntryIDs in
// comparator order, at most one per LifterID.
type SortedUnique []db.EntryID

// SortAndUniqueBy reduces an EntrySet to a SortedUnique: entries
// failing belongs are dropped, contiguous LifterID runs are reduced to
// their comparator-minimum entry, and the survivors are globally
// sorted by the comparator. Because EntryIDs already run in LifterID
// order, grouping is a single linear pass with no hash map.
func SortAndUniqueBy(set EntrySet, entries []db.Entry, meets []db.Meet, compare db.Comparator, belongs func(*db.Entry) bool) SortedUnique {
	ids := set.EntryIDs()

	var out SortedUnique
	i := 0
	for i < len(ids) {
		lifter := entries[ids[i]].LifterID
		best := db.EntryID(0)
		haveBest := false
		j := i
		for j < len(ids) && entries[ids[j]].LifterID == lifter {
			if belongs(&entries[ids[j]]) {
				if !haveBest || compare(meets, &entries[ids[j]], &entries[best]) < 0 {
					best = ids[j]
					haveBest = true
				}
			}
			j++
		}
		if haveBest {
			out = append(out, best)
		}
		i = j
	}

	sort.Slice(out, func(a, b int) bool {
		return compare(meets, &entries[out[a]], &entries[out[b]]) < 0
	})
	return out
}

// LogLinearCache holds the per-axis EntrySets used to compose the tail
// of rankings queries that don't hit the constant-time cache: equipment
// categories, sex, and a handful of recent years.
type LogLinearCache struct {
	Raw, Wraps, RawWraps, Single, Multi, Unlimited EntrySet
	Male, Female                                   EntrySet
	years                                          map[uint32]EntrySet
}

// recentYears is the set of years maintained as individual log-linear
// caches, matching the upstream cache's "recent years only" scoping:
// rankings queries for older years fall through to a full O(n) scan.
var recentYears = []uint32{2025, 2024, 2023, 2022, 2021, 2020, 2019, 2018, 2017, 2016, 2015}

// BuildLogLinearCache constructs every per-axis EntrySet with one pass
// per axis over the entries table.
func BuildLogLinearCache(meets []db.Meet, entries []db.Entry) *LogLinearCache {
	c := &LogLinearCache{
		Raw:      NewEntrySet(entries, meets, func(e *db.Entry) bool { return e.Equipment == opltypes.EquipmentRaw }),
		Wraps:    NewEntrySet(entries, meets, func(e *db.Entry) bool { return e.Equipment == opltypes.EquipmentWraps }),
		RawWraps: NewEntrySet(entries, meets, func(e *db.Entry) bool { return e.Equipment == opltypes.EquipmentRaw || e.Equipment == opltypes.EquipmentWraps }),
		Single:   NewEntrySet(entries, meets, func(e *db.Entry) bool { return e.Equipment == opltypes.EquipmentSingle }),
		Multi:    NewEntrySet(entries, meets, func(e *db.Entry) bool { return e.Equipment == opltypes.EquipmentMulti }),
		Unlimited: NewEntrySet(entries, meets, func(e *db.Entry) bool {
			return e.Equipment == opltypes.EquipmentSingle || e.Equipment == opltypes.EquipmentMulti || e.Equipment == opltypes.EquipmentUnlimited
		}),
		Male:   NewEntrySet(entries, meets, func(e *db.Entry) bool { return e.Sex == opltypes.SexMale || e.Sex == opltypes.SexMx }),
		Female: NewEntrySet(entries, meets, func(e *db.Entry) bool { return e.Sex == opltypes.SexFemale }),
		years:  make(map[uint32]EntrySet, len(recentYears)),
	}
	for _, y := range recentYears {
		year := y
		c.years[year] = NewEntrySet(entries, meets, func(e *db.Entry) bool {
			return meets[e.MeetID].Date.Year() == year
		})
	}
	return c
}

// YearCache looks up the log-linear EntrySet for a recent year. The
// second return is false for years outside the maintained window,
// signaling callers to fall back to a full O(n) scan instead.
func (c *LogLinearCache) YearCache(year uint32) (EntrySet, bool) {
	s, ok := c.years[year]
	return s, ok
}

// ByEquipmentKey returns the log-linear EntrySet for an equipment
// category keyed by the cache package's EquipmentKey, which (unlike
// opltypes.Equipment) also has values for the combined RawWraps and
// Unlimited categories.
func (c *LogLinearCache) ByEquipmentKey(eq EquipmentKey) EntrySet {
	switch eq {
	case EquipmentRaw:
		return c.Raw
	case EquipmentWraps:
		return c.Wraps
	case EquipmentRawWraps:
		return c.RawWraps
	case EquipmentSingle:
		return c.Single
	case EquipmentMulti:
		return c.Multi
	case EquipmentUnlimited:
		return c.Unlimited
	default:
		return c.RawWraps
	}
}
