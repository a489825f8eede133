package opltypes

import (
	"fmt"
	"strconv"
	"strings"
)

// WeightClassKind distinguishes the WeightClassKg variants.
type WeightClassKind uint8

const (
	WeightClassNone WeightClassKind = iota
	WeightClassUnderOrEqual
	WeightClassOver
)

// WeightClassKg is the tagged union describing a competition weight
// class: either "at or under w", "over w" (the open-ended SHW-style
// class), or unset.
type WeightClassKg struct {
	Kind  WeightClassKind
	Value WeightKg
}

// UnderOrEqual constructs a WeightClassKg matching bodyweights up to and
// including w.
func UnderOrEqual(w WeightKg) WeightClassKg {
	return WeightClassKg{Kind: WeightClassUnderOrEqual, Value: w}
}

// Over constructs an open-ended WeightClassKg matching bodyweights over w.
func Over(w WeightKg) WeightClassKg {
	return WeightClassKg{Kind: WeightClassOver, Value: w}
}

// NoWeightClass is the absence of a weight class.
var NoWeightClass = WeightClassKg{Kind: WeightClassNone}

// Matches reports whether a bodyweight belongs to this class. A zero
// bodyweight (unrecorded) matches an Over class unconditionally, since
// SHW entries are frequently reported without a bodyweight.
func (c WeightClassKg) Matches(bodyweight WeightKg) bool {
	switch c.Kind {
	case WeightClassUnderOrEqual:
		return bodyweight <= c.Value
	case WeightClassOver:
		return bodyweight.IsZero() || bodyweight > c.Value
	default:
		return false
	}
}

// String renders the weight class the way it appears in CSVs: "75" for
// UnderOrEqual(75kg), "100+" for Over(100kg).
func (c WeightClassKg) String() string {
	switch c.Kind {
	case WeightClassUnderOrEqual:
		return c.Value.AsAny().String()
	case WeightClassOver:
		return c.Value.AsAny().String() + "+"
	default:
		return ""
	}
}

// ParseWeightClassKg parses the CSV representation of a weight class.
func ParseWeightClassKg(s string) (WeightClassKg, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoWeightClass, nil
	}
	if strings.HasSuffix(s, "+") {
		w, err := ParseWeightKg(strings.TrimSuffix(s, "+"))
		if err != nil {
			return WeightClassKg{}, fmt.Errorf("opltypes: invalid weightclass %q: %w", s, err)
		}
		return Over(w), nil
	}
	w, err := ParseWeightKg(s)
	if err != nil {
		return WeightClassKg{}, fmt.Errorf("opltypes: invalid weightclass %q: %w", s, err)
	}
	return UnderOrEqual(w), nil
}

// ParseWeightClassFilterToken parses a URL-path rankings-query token like
// "ipfover120" or "72.5" into a weightclass filter predicate expressed as
// a WeightClassKg. It accepts either a bare class ("72.5") or a
// federation-scoped "over" token ("ipfover120"); the federation prefix is
// informational only at this layer (meaning it is not itself validated
// against the Federation enum) and is returned alongside the class.
func ParseWeightClassFilterToken(tok string) (fedPrefix string, class WeightClassKg, ok bool) {
	lower := strings.ToLower(tok)
	if idx := strings.Index(lower, "over"); idx > 0 {
		prefix := tok[:idx]
		rest := tok[idx+len("over"):]
		w, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return "", WeightClassKg{}, false
		}
		return prefix, Over(FromKgFloat64(w)), true
	}
	w, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return "", WeightClassKg{}, false
	}
	if w <= 0 {
		return "", WeightClassKg{}, false
	}
	return "", UnderOrEqual(FromKgFloat64(w)), true
}
