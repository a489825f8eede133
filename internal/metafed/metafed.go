// Package metafed resolves MetaFederations: virtual federations defined
// by a predicate over (Entry, Meet) rather than a real sanctioning body.
// Some metafeds (AllTested, IPFAndAffiliates) depend only on the entry
// and the meet's own federation, and are cheap to test per-entry; others
// (country- or state-scoped metafeds composed from federation set plus
// meet country plus a date range) are also purely meet-level, which
// lets the resolver keep a precomputed meet_ids_for(meta) bitmap that
// the query engine's federation filter can apply in O(1) amortized time
// rather than re-testing the predicate per entry.
package metafed

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// Predicate tests whether an entry at a meet belongs to a MetaFederation.
type Predicate func(e *db.Entry, m *db.Meet) bool

// DateRange bounds a metafederation's applicability, inclusive.
type DateRange struct {
	Start, End opltypes.Date
}

func (r DateRange) contains(d opltypes.Date) bool {
	if r.Start != 0 && d < r.Start {
		return false
	}
	if r.End != 0 && d > r.End {
		return false
	}
	return true
}

// Definition pairs a MetaFederation tag with the predicate that defines
// it.
type Definition struct {
	Tag       opltypes.MetaFederation
	Predicate Predicate
	// MeetOnly indicates the predicate never inspects the entry, so a
	// meet_ids_for cache fully answers membership for the resolver's
	// fast path.
	MeetOnly bool
}

// AllTested is true for any entry whose Tested flag is set, or whose
// meet's federation is drug-test-only regardless of the per-entry flag.
func AllTested(e *db.Entry, m *db.Meet) bool {
	return e.Tested || opltypes.IsTestedOnlyFederation(m.Federation)
}

// IPFAndAffiliates is true when the meet's federation's sanctioning
// body on the meet date is IPF.
func IPFAndAffiliates(e *db.Entry, m *db.Meet) bool {
	return m.Federation.SanctioningBody(m.Date) == opltypes.FedIPF
}

// CountryScoped builds a metafederation predicate combining a set of
// federations with a meet country and an optional date range, the
// shape used by the upstream data for federation-plus-geography virtual
// feds (e.g. "AllUSA" = any federation, country USA, any date).
func CountryScoped(feds map[opltypes.Federation]bool, country opltypes.Country, dates DateRange) Predicate {
	return func(e *db.Entry, m *db.Meet) bool {
		if country != opltypes.CountryUnknown && m.Country != country {
			return false
		}
		if len(feds) > 0 && !feds[m.Federation] {
			return false
		}
		return dates.contains(m.Date)
	}
}

// Definitions is the built-in metafederation table. Every entry except
// AllTested is meet-only; AllTested reads Entry.Tested, which varies
// within a single meet, so the resolver tests it per entry.
func Definitions() []Definition {
	return []Definition{
		{Tag: opltypes.MetaFedAllTested, Predicate: AllTested, MeetOnly: false},
		{Tag: opltypes.MetaFedIPFAndAffiliates, Predicate: IPFAndAffiliates, MeetOnly: true},
		{
			Tag:       opltypes.MetaFedAllUSA,
			Predicate: CountryScoped(nil, opltypes.CountryUSA, DateRange{}),
			MeetOnly:  true,
		},
	}
}

// Resolver answers MetaFederation membership queries, caching a
// meet_ids_for bitmap for every meet-only definition so the query
// engine's federation filter can test meet membership in O(1) instead
// of re-evaluating the predicate.
type Resolver struct {
	defs        map[opltypes.MetaFederation]Definition
	meetIDCache map[opltypes.MetaFederation]*roaring.Bitmap
}

// NewResolver builds a Resolver from the built-in Definitions, plus the
// per-meet cache for every MeetOnly definition.
func NewResolver(meets []db.Meet) *Resolver {
	r := &Resolver{
		defs:        make(map[opltypes.MetaFederation]Definition),
		meetIDCache: make(map[opltypes.MetaFederation]*roaring.Bitmap),
	}
	for _, d := range Definitions() {
		r.defs[d.Tag] = d
		if !d.MeetOnly {
			continue
		}
		bm := roaring.New()
		for i := range meets {
			if d.Predicate(nil, &meets[i]) {
				bm.Add(uint32(i))
			}
		}
		bm.RunOptimize()
		r.meetIDCache[d.Tag] = bm
	}
	return r
}

// Contains reports whether an entry belongs to a MetaFederation. For a
// MeetOnly definition this is an O(1) bitmap membership test against
// the entry's MeetID; otherwise it falls through to the O(1)-per-call
// predicate itself (still O(N) in aggregate across a full scan, as
// documented by the spec for entry-dependent metafeds).
func (r *Resolver) Contains(tag opltypes.MetaFederation, e *db.Entry, m *db.Meet) bool {
	if bm, ok := r.meetIDCache[tag]; ok {
		return bm.Contains(uint32(e.MeetID))
	}
	def, ok := r.defs[tag]
	if !ok {
		return false
	}
	return def.Predicate(e, m)
}

// MeetIDsFor returns the precomputed meet ID bitmap for a MeetOnly
// metafederation, and false if tag isn't registered or isn't meet-only.
func (r *Resolver) MeetIDsFor(tag opltypes.MetaFederation) (*roaring.Bitmap, bool) {
	bm, ok := r.meetIDCache[tag]
	return bm, ok
}
