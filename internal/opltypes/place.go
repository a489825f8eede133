package opltypes

import (
	"fmt"
	"strconv"
)

// PlaceKind distinguishes the Place variants.
type PlaceKind uint8

const (
	// PlaceNumbered is an ordinary numbered placing, 1 being first.
	PlaceNumbered PlaceKind = iota
	// PlaceGuest marks a guest lifter, who competed but isn't ranked.
	PlaceGuest
	// PlaceDQ marks a disqualification (failed drug test, rules violation).
	PlaceDQ
	// PlaceDD marks a disqualification for doping, reported separately
	// from an ordinary DQ in some federations' source data.
	PlaceDD
	// PlaceNS marks a no-show: the lifter registered but didn't compete.
	PlaceNS
	// PlaceNone means the row carries no placing information at all.
	PlaceNone
)

// Place is a competitor's finishing position in their division.
type Place struct {
	Kind   PlaceKind
	Number uint8
}

// NumberedPlace constructs an ordinary numeric placing.
func NumberedPlace(n uint8) Place { return Place{Kind: PlaceNumbered, Number: n} }

// GuestPlace, DQPlace, DDPlace, NSPlace, and NoPlace are the non-numeric
// Place variants.
var (
	GuestPlace = Place{Kind: PlaceGuest}
	DQPlace    = Place{Kind: PlaceDQ}
	DDPlace    = Place{Kind: PlaceDD}
	NSPlace    = Place{Kind: PlaceNS}
	NoPlace    = Place{Kind: PlaceNone}
)

// IsDQ reports whether the placing represents a disqualification, doping
// disqualification, or no-show — any of the placings for which
// TotalKg is required to be zero.
func (p Place) IsDQ() bool {
	return p.Kind == PlaceDQ || p.Kind == PlaceDD || p.Kind == PlaceNS
}

// String renders the Place the way it appears in entries.csv.
func (p Place) String() string {
	switch p.Kind {
	case PlaceNumbered:
		return strconv.Itoa(int(p.Number))
	case PlaceGuest:
		return "G"
	case PlaceDQ:
		return "DQ"
	case PlaceDD:
		return "DD"
	case PlaceNS:
		return "NS"
	default:
		return ""
	}
}

// ParsePlace parses the CSV representation of a Place.
func ParsePlace(s string) (Place, error) {
	switch s {
	case "":
		return NoPlace, nil
	case "G":
		return GuestPlace, nil
	case "DQ":
		return DQPlace, nil
	case "DD":
		return DDPlace, nil
	case "NS":
		return NSPlace, nil
	default:
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return Place{}, fmt.Errorf("opltypes: invalid place %q: %w", s, err)
		}
		return NumberedPlace(uint8(n)), nil
	}
}
