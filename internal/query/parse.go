package query

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/openlifting/oplengine/internal/cache"
	"github.com/openlifting/oplengine/internal/errors"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// axis numbers the single-use query segments, used to detect repeated
// axes (e.g. "/raw/wraps", both claiming the equipment axis).
type axis uint8

const (
	axisEquipment axis = iota
	axisFederation
	axisWeightClass
	axisSex
	axisAgeClass
	axisYear
	axisOrderBy
	axisEvent
	axisState
)

// ParseRankingsQuery parses a slash-delimited URL path into a
// RankingsQuery, starting from default and overriding exactly the axes
// named by path segments. Each segment is tried against each axis
// parser in turn; the first match wins. An axis may be named at most
// once; an unrecognized segment, a non-UTF-8 path, or an empty segment
// (double slash) is a parse error.
func ParseRankingsQuery(path string, def RankingsQuery) (RankingsQuery, error) {
	if !utf8.ValidString(path) {
		return RankingsQuery{}, errors.QueryError("rankings path is not valid UTF-8", nil)
	}
	if strings.Contains(path, "//") {
		return RankingsQuery{}, errors.QueryError("rankings path contains an empty segment", nil).
			WithDetail("path", path)
	}

	ret := def
	seen := make(map[axis]bool)

	segments := strings.Split(strings.Trim(path, "/"), "/")
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if err := applySegment(&ret, seg, seen); err != nil {
			return RankingsQuery{}, err
		}
	}
	return ret, nil
}

func applySegment(ret *RankingsQuery, seg string, seen map[axis]bool) error {
	if eq, ok := parseEquipmentToken(seg); ok {
		return setOnce(seen, axisEquipment, seg, func() { ret.Filter.Equipment = eq })
	}
	if ff, ok := parseFederationToken(seg); ok {
		return setOnce(seen, axisFederation, seg, func() { ret.Filter.Federation = ff })
	}
	if wc, ok := parseWeightClassToken(seg); ok {
		return setOnce(seen, axisWeightClass, seg, func() { ret.Filter.WeightClasses = wc })
	}
	if sx, ok := parseSexToken(seg); ok {
		return setOnce(seen, axisSex, seg, func() { ret.Filter.Sex = sx })
	}
	if ac, ok := parseAgeClassToken(seg); ok {
		return setOnce(seen, axisAgeClass, seg, func() { ret.Filter.AgeClass = ac })
	}
	if yr, ok := parseYearToken(seg); ok {
		return setOnce(seen, axisYear, seg, func() { ret.Filter.Year = yr })
	}
	if ob, ok := parseOrderByToken(seg); ok {
		return setOnce(seen, axisOrderBy, seg, func() { ret.OrderBy = ob })
	}
	if ev, ok := parseEventToken(seg); ok {
		return setOnce(seen, axisEvent, seg, func() { ret.Filter.Event = ev })
	}
	if st, ok := parseStateToken(seg); ok {
		return setOnce(seen, axisState, seg, func() { ret.Filter.State = st })
	}
	return errors.QueryError("unrecognized rankings query segment", nil).WithDetail("segment", seg)
}

func setOnce(seen map[axis]bool, a axis, seg string, apply func()) error {
	if seen[a] {
		return errors.QueryError("rankings query segment names an axis more than once", nil).
			WithDetail("segment", seg)
	}
	seen[a] = true
	apply()
	return nil
}

func parseEquipmentToken(s string) (cache.EquipmentKey, bool) {
	switch s {
	case "raw":
		return cache.EquipmentRaw, true
	case "wraps":
		return cache.EquipmentWraps, true
	case "raw-wraps":
		return cache.EquipmentRawWraps, true
	case "single":
		return cache.EquipmentSingle, true
	case "multi":
		return cache.EquipmentMulti, true
	case "unlimited":
		return cache.EquipmentUnlimited, true
	default:
		return 0, false
	}
}

func parseSexToken(s string) (SexFilterKind, bool) {
	switch s {
	case "men":
		return SexMen, true
	case "women":
		return SexWomen, true
	default:
		return 0, false
	}
}

// parseYearToken accepts exactly four ASCII digits, disambiguating
// against weight-class tokens like "120" which are never four digits
// long with a plausible weight-class magnitude in this domain.
func parseYearToken(s string) (YearFilter, bool) {
	if len(s) != 4 {
		return YearFilter{}, false
	}
	y, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return YearFilter{}, false
	}
	if y < 1945 || y > 2100 {
		return YearFilter{}, false
	}
	return YearFilter{Year: uint32(y)}, true
}

// parseWeightClassToken requires a decimal point or an "over" marker,
// so that a bare integer token is never ambiguous with parseYearToken.
func parseWeightClassToken(s string) (WeightClassFilter, bool) {
	hasOver := strings.Contains(strings.ToLower(s), "over")
	hasDot := strings.Contains(s, ".")
	if !hasOver && !hasDot {
		return WeightClassFilter{}, false
	}
	prefix, class, ok := opltypes.ParseWeightClassFilterToken(s)
	if !ok {
		return WeightClassFilter{}, false
	}
	return WeightClassFilter{FedPrefix: prefix, Class: class}, true
}

func parseOrderByToken(s string) (cache.OrderBy, bool) {
	if !strings.HasPrefix(s, "by-") {
		return 0, false
	}
	switch strings.TrimPrefix(s, "by-") {
	case "squat":
		return cache.OrderBySquat, true
	case "bench":
		return cache.OrderByBench, true
	case "deadlift":
		return cache.OrderByDeadlift, true
	case "total":
		return cache.OrderByTotal, true
	case "wilks":
		return cache.OrderByWilks, true
	case "mcculloch":
		return cache.OrderByMcCulloch, true
	case "glossbrenner":
		return cache.OrderByGlossbrenner, true
	case "goodlift":
		return cache.OrderByGoodlift, true
	case "dots":
		return cache.OrderByDots, true
	default:
		return 0, false
	}
}

func parseEventToken(s string) (EventFilter, bool) {
	switch s {
	case "full-power":
		return EventFilter{Event: opltypes.SBD()}, true
	case "push-pull":
		return EventFilter{Event: opltypes.BD()}, true
	case "squat-only":
		return EventFilter{Event: opltypes.SOnly()}, true
	case "bench-only":
		return EventFilter{Event: opltypes.BOnly()}, true
	case "deadlift-only":
		return EventFilter{Event: opltypes.DOnly()}, true
	default:
		return EventFilter{}, false
	}
}

func parseAgeClassToken(s string) (AgeClassFilter, bool) {
	c, ok := opltypes.ParseAgeClassToken(s)
	if !ok {
		return AgeClassFilter{}, false
	}
	return AgeClassFilter{Class: c}, true
}

func parseStateToken(s string) (StateFilter, bool) {
	country, state, ok := opltypes.ParseStateToken(s)
	if !ok {
		return StateFilter{}, false
	}
	return StateFilter{Set: true, Country: country, State: state}, true
}

// parseFederationToken tries an exact federation code first, then a
// MetaFederation token, preferring the MetaFederation on ambiguity (a
// real federation code is never also a MetaFederation token in this
// engine's tables, so the preference only matters if that changes).
func parseFederationToken(s string) (FederationFilter, bool) {
	if m, ok := opltypes.ParseMetaFederation(s); ok {
		return FederationFilter{Kind: FederationMeta, Meta: m}, true
	}
	if f, ok := opltypes.ParseFederation(s); ok {
		return FederationFilter{Kind: FederationExact, Fed: f}, true
	}
	return FederationFilter{}, false
}
