package records

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/openlifting/oplengine/internal/cache"
	"github.com/openlifting/oplengine/internal/errors"
	"github.com/openlifting/oplengine/internal/opltypes"
	"github.com/openlifting/oplengine/internal/query"
)

type axis uint8

const (
	axisEquipment axis = iota
	axisFederation
	axisSex
	axisClassKind
	axisAgeClass
	axisYear
)

// ParseSelection parses a slash-delimited URL path into a Selection,
// starting from def and overriding exactly the axes named by path
// segments. Follows the same single-use-axis-token grammar as
// query.ParseRankingsQuery.
func ParseSelection(path string, def Selection) (Selection, error) {
	if !utf8.ValidString(path) {
		return Selection{}, errors.QueryError("records path is not valid UTF-8", nil)
	}
	if strings.Contains(path, "//") {
		return Selection{}, errors.QueryError("records path contains an empty segment", nil).
			WithDetail("path", path)
	}

	ret := def
	seen := make(map[axis]bool)

	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		if err := applySegment(&ret, seg, seen); err != nil {
			return Selection{}, err
		}
	}
	return ret, nil
}

func applySegment(ret *Selection, seg string, seen map[axis]bool) error {
	if eq, ok := parseEquipmentToken(seg); ok {
		return setOnce(seen, axisEquipment, seg, func() { ret.Equipment = eq })
	}
	if ff, ok := parseFederationToken(seg); ok {
		return setOnce(seen, axisFederation, seg, func() { ret.Federation = ff })
	}
	if sx, ok := parseSexToken(seg); ok {
		return setOnce(seen, axisSex, seg, func() { ret.Sex = sx })
	}
	if ck, ok := ParseClassKind(seg); ok {
		return setOnce(seen, axisClassKind, seg, func() { ret.ClassKind = ck })
	}
	if ac, ok := parseAgeClassToken(seg); ok {
		return setOnce(seen, axisAgeClass, seg, func() { ret.AgeClass = ac })
	}
	if yr, ok := parseYearToken(seg); ok {
		return setOnce(seen, axisYear, seg, func() { ret.Year = yr })
	}
	return errors.QueryError("unrecognized records query segment", nil).WithDetail("segment", seg)
}

func setOnce(seen map[axis]bool, a axis, seg string, apply func()) error {
	if seen[a] {
		return errors.QueryError("records query segment names an axis more than once", nil).
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

func parseSexToken(s string) (query.SexFilterKind, bool) {
	switch s {
	case "men":
		return query.SexMen, true
	case "women":
		return query.SexWomen, true
	default:
		return 0, false
	}
}

func parseFederationToken(s string) (query.FederationFilter, bool) {
	if m, ok := opltypes.ParseMetaFederation(s); ok {
		return query.FederationFilter{Kind: query.FederationMeta, Meta: m}, true
	}
	if f, ok := opltypes.ParseFederation(s); ok {
		return query.FederationFilter{Kind: query.FederationExact, Fed: f}, true
	}
	return query.FederationFilter{}, false
}

func parseAgeClassToken(s string) (query.AgeClassFilter, bool) {
	c, ok := opltypes.ParseAgeClassToken(s)
	if !ok {
		return query.AgeClassFilter{}, false
	}
	return query.AgeClassFilter{Class: c}, true
}

func parseYearToken(s string) (query.YearFilter, bool) {
	if len(s) != 4 {
		return query.YearFilter{}, false
	}
	y, err := strconv.ParseUint(s, 10, 32)
	if err != nil || y < 1945 || y > 2100 {
		return query.YearFilter{}, false
	}
	return query.YearFilter{Year: uint32(y)}, true
}
