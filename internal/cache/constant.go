package cache

import "github.com/openlifting/oplengine/internal/db"

// byEquipment holds one SortedUnique per equipment axis value for a
// single ranked category (e.g. "squat" or "wilks").
type byEquipment struct {
	Raw, Wraps, RawWraps, Single, Multi, Unlimited SortedUnique
}

func newByEquipment(ll *LogLinearCache, meets []db.Meet, entries []db.Entry, compare db.Comparator, belongs func(*db.Entry) bool) byEquipment {
	return byEquipment{
		Raw:       SortAndUniqueBy(ll.Raw, entries, meets, compare, belongs),
		Wraps:     SortAndUniqueBy(ll.Wraps, entries, meets, compare, belongs),
		RawWraps:  SortAndUniqueBy(ll.RawWraps, entries, meets, compare, belongs),
		Single:    SortAndUniqueBy(ll.Single, entries, meets, compare, belongs),
		Multi:     SortAndUniqueBy(ll.Multi, entries, meets, compare, belongs),
		Unlimited: SortAndUniqueBy(ll.Unlimited, entries, meets, compare, belongs),
	}
}

func (b byEquipment) byEquipmentKey(eq EquipmentKey) SortedUnique {
	switch eq {
	case EquipmentRaw:
		return b.Raw
	case EquipmentWraps:
		return b.Wraps
	case EquipmentRawWraps:
		return b.RawWraps
	case EquipmentSingle:
		return b.Single
	case EquipmentMulti:
		return b.Multi
	case EquipmentUnlimited:
		return b.Unlimited
	default:
		return b.RawWraps
	}
}

// EquipmentKey enumerates the equipment axis values the constant-time
// cache is keyed on. This is a superset of opltypes.Equipment: RawWraps
// and Unlimited are combined categories with no single Equipment value
// of their own.
type EquipmentKey uint8

const (
	EquipmentRaw EquipmentKey = iota
	EquipmentWraps
	EquipmentRawWraps
	EquipmentSingle
	EquipmentMulti
	EquipmentUnlimited
)

// OrderBy enumerates the nine ranked categories the constant-time cache
// precomputes: four weight-ordered and five points-ordered.
type OrderBy uint8

const (
	OrderBySquat OrderBy = iota
	OrderByBench
	OrderByDeadlift
	OrderByTotal
	OrderByWilks
	OrderByMcCulloch
	OrderByGlossbrenner
	OrderByGoodlift
	OrderByDots
)

// ConstantTimeCache holds, for every (OrderBy x EquipmentKey) pair, a
// fully precomputed SortedUnique: non-DQ, lifter-uniqued, sorted by
// that category's comparator. A query matching this schema (federation,
// weightclass, year, ageclass, event, and state all "all"/unset) is
// served by a single map lookup plus a linear sex filter.
type ConstantTimeCache struct {
	byOrder map[OrderBy]byEquipment
}

// BuildConstantTimeCache precomputes all 9x6 = 54 SortedUnique lists.
func BuildConstantTimeCache(ll *LogLinearCache, meets []db.Meet, entries []db.Entry) *ConstantTimeCache {
	c := &ConstantTimeCache{byOrder: make(map[OrderBy]byEquipment, 9)}
	c.byOrder[OrderBySquat] = newByEquipment(ll, meets, entries, db.CmpSquat, db.FilterSquat)
	c.byOrder[OrderByBench] = newByEquipment(ll, meets, entries, db.CmpBench, db.FilterBench)
	c.byOrder[OrderByDeadlift] = newByEquipment(ll, meets, entries, db.CmpDeadlift, db.FilterDeadlift)
	c.byOrder[OrderByTotal] = newByEquipment(ll, meets, entries, db.CmpTotal, db.FilterTotal)
	c.byOrder[OrderByWilks] = newByEquipment(ll, meets, entries, db.CmpWilks, db.FilterWilks)
	c.byOrder[OrderByMcCulloch] = newByEquipment(ll, meets, entries, db.CmpMcCulloch, db.FilterMcCulloch)
	c.byOrder[OrderByGlossbrenner] = newByEquipment(ll, meets, entries, db.CmpGlossbrenner, db.FilterGlossbrenner)
	c.byOrder[OrderByGoodlift] = newByEquipment(ll, meets, entries, db.CmpGoodlift, db.FilterGoodlift)
	c.byOrder[OrderByDots] = newByEquipment(ll, meets, entries, db.CmpDots, db.FilterDots)
	return c
}

// Lookup returns the precomputed SortedUnique for an (order, equipment)
// pair, and true if the pair is covered (every pair always is, since
// the cache is built over the full cross product).
func (c *ConstantTimeCache) Lookup(order OrderBy, eq EquipmentKey) (SortedUnique, bool) {
	be, ok := c.byOrder[order]
	if !ok {
		return nil, false
	}
	return be.byEquipmentKey(eq), true
}

// Comparator returns the db.Comparator associated with an OrderBy value,
// for use by callers that must compare entries outside the cached path
// (e.g. the log-linear fallback in the query engine).
func Comparator(order OrderBy) db.Comparator {
	switch order {
	case OrderBySquat:
		return db.CmpSquat
	case OrderByBench:
		return db.CmpBench
	case OrderByDeadlift:
		return db.CmpDeadlift
	case OrderByTotal:
		return db.CmpTotal
	case OrderByWilks:
		return db.CmpWilks
	case OrderByMcCulloch:
		return db.CmpMcCulloch
	case OrderByGlossbrenner:
		return db.CmpGlossbrenner
	case OrderByGoodlift:
		return db.CmpGoodlift
	case OrderByDots:
		return db.CmpDots
	default:
		return db.CmpWilks
	}
}

// Belongs returns the db filter predicate associated with an OrderBy
// value.
func Belongs(order OrderBy) func(*db.Entry) bool {
	switch order {
	case OrderBySquat:
		return db.FilterSquat
	case OrderByBench:
		return db.FilterBench
	case OrderByDeadlift:
		return db.FilterDeadlift
	case OrderByTotal:
		return db.FilterTotal
	case OrderByWilks:
		return db.FilterWilks
	case OrderByMcCulloch:
		return db.FilterMcCulloch
	case OrderByGlossbrenner:
		return db.FilterGlossbrenner
	case OrderByGoodlift:
		return db.FilterGoodlift
	case OrderByDots:
		return db.FilterDots
	default:
		return db.FilterWilks
	}
}
