// Package query implements the rankings query engine: parsing a
// slash-delimited URL path into a RankingsQuery, composing the filter
// pipeline described by the two-tier cache, and paginating the result.
package query

import (
	"github.com/openlifting/oplengine/internal/cache"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// FederationFilterKind distinguishes the FederationFilter variants.
type FederationFilterKind uint8

const (
	FederationAll FederationFilterKind = iota
	FederationExact
	FederationMeta
)

// FederationFilter restricts a query to one real federation, one
// virtual MetaFederation, or no restriction at all.
type FederationFilter struct {
	Kind  FederationFilterKind
	Fed   opltypes.Federation
	Meta  opltypes.MetaFederation
}

// SexFilterKind enumerates the sex axis values.
type SexFilterKind uint8

const (
	SexAll SexFilterKind = iota
	SexMen
	SexWomen
)

// YearFilter restricts a query to one meet year, or no restriction.
type YearFilter struct {
	All  bool
	Year uint32
}

// AgeClassFilter restricts a query to one AgeClass, or no restriction.
type AgeClassFilter struct {
	All   bool
	Class opltypes.AgeClass
}

// EventFilter restricts a query to one Event, or no restriction.
type EventFilter struct {
	All   bool
	Event opltypes.Event
}

// WeightClassFilter restricts a query to one WeightClassKg, or no
// restriction. FedPrefix is carried through from the URL token (e.g.
// "ipf" in "ipfover120") for presentational use; it does not itself
// restrict matching entries at the query-engine layer.
type WeightClassFilter struct {
	All       bool
	FedPrefix string
	Class     opltypes.WeightClassKg
}

// StateFilter restricts a query to one (Country, State) pair, or is
// unset.
type StateFilter struct {
	Set     bool
	Country opltypes.Country
	State   opltypes.State
}

// Filter is the full set of axis restrictions a RankingsQuery applies.
type Filter struct {
	Equipment     cache.EquipmentKey
	Sex           SexFilterKind
	Year          YearFilter
	Federation    FederationFilter
	State         StateFilter
	AgeClass      AgeClassFilter
	Event         EventFilter
	WeightClasses WeightClassFilter
}

// DefaultFilter matches the upstream default selector: raw and wraps
// combined, all sexes, all years, all federations, no event/state/
// weightclass/ageclass restriction.
func DefaultFilter() Filter {
	return Filter{
		Equipment:     cache.EquipmentRawWraps,
		Sex:           SexAll,
		Year:          YearFilter{All: true},
		Federation:    FederationFilter{Kind: FederationAll},
		AgeClass:      AgeClassFilter{All: true},
		Event:         EventFilter{All: true},
		WeightClasses: WeightClassFilter{All: true},
	}
}

// matchesConstantTimeSchema reports whether f is exactly the shape the
// constant-time cache covers: every axis except Equipment and Sex is
// unrestricted. Sex isn't part of the cache key since it's cheap to
// filter linearly afterward (each lifter competes under one sex).
func (f Filter) matchesConstantTimeSchema() bool {
	return f.Year.All &&
		f.Federation.Kind == FederationAll &&
		!f.State.Set &&
		f.AgeClass.All &&
		f.Event.All &&
		f.WeightClasses.All
}

// RankingsQuery is a fully parsed rankings request: a Filter plus the
// category to order by.
type RankingsQuery struct {
	Filter  Filter
	OrderBy cache.OrderBy
}

// DefaultRankingsQuery matches the upstream default: raw+wraps, all
// sexes, ordered by Wilks.
func DefaultRankingsQuery() RankingsQuery {
	return RankingsQuery{Filter: DefaultFilter(), OrderBy: cache.OrderByWilks}
}
