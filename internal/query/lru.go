package query

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/openlifting/oplengine/internal/cache"
)

// Key renders q as a stable string suitable for use as an LRU cache
// key. It is not meant to round-trip back into a RankingsQuery.
func (q RankingsQuery) Key() string {
	return fmt.Sprintf(
		"eq=%d|sex=%d|year=%v-%d|fed=%d-%d-%d|state=%v-%d-%d|age=%v-%d|event=%v-%d|wc=%v-%s-%d-%d|order=%d",
		q.Filter.Equipment, q.Filter.Sex,
		q.Filter.Year.All, q.Filter.Year.Year,
		q.Filter.Federation.Kind, q.Filter.Federation.Fed, q.Filter.Federation.Meta,
		q.Filter.State.Set, q.Filter.State.Country, q.Filter.State.State,
		q.Filter.AgeClass.All, q.Filter.AgeClass.Class,
		q.Filter.Event.All, q.Filter.Event.Event,
		q.Filter.WeightClasses.All, q.Filter.WeightClasses.FedPrefix,
		q.Filter.WeightClasses.Class.Kind, q.Filter.WeightClasses.Class.Value,
		q.OrderBy,
	)
}

// CachedEngine wraps Engine with an LRU memoization layer over the
// unpaginated Execute result. The constant-time cache already answers
// the popular-query shape in O(1); this layer instead amortizes the
// cost of the O(N) log-linear path across repeated requests for the
// same tail query (e.g. a specific federation + state + year
// combination requested by many paginated page loads).
type CachedEngine struct {
	engine *Engine
	lru    *lru.Cache[string, queryResultCacheEntry]
}

type queryResultCacheEntry struct {
	rows cache.SortedUnique
}

// NewCachedEngine wraps engine with an LRU of the given capacity.
func NewCachedEngine(engine *Engine, capacity int) (*CachedEngine, error) {
	c, err := lru.New[string, queryResultCacheEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &CachedEngine{engine: engine, lru: c}, nil
}

// Execute returns the memoized result for q, computing and caching it
// on a miss.
func (c *CachedEngine) Execute(q RankingsQuery) cache.SortedUnique {
	key := q.Key()
	if entry, ok := c.lru.Get(key); ok {
		return entry.rows
	}
	rows := c.engine.Execute(q)
	c.lru.Add(key, queryResultCacheEntry{rows: rows})
	return rows
}
