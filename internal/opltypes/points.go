package opltypes

import (
	"fmt"
	"math"
	"strconv"
)

// Points is a fixed-point centipoint score (Wilks, Dots, Goodlift, etc).
type Points int32

// PointsFromFloat64 rounds a floating point points value to the nearest
// centipoint.
func PointsFromFloat64(f float64) Points {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Points(0)
	}
	return Points(int32(math.Round(f * 100)))
}

// PointsFromI32 reinterprets a raw integer as centipoints directly, used when a
// WeightAny is repurposed as Points for PointsSystem::Total.
func PointsFromI32(i int32) Points { return Points(i) }

// Float64 returns the points value as a float.
func (p Points) Float64() float64 { return float64(p) / 100.0 }

// IsZero reports whether no points were scored.
func (p Points) IsZero() bool { return p == 0 }

// String renders points to two decimal places, or the empty string when
// zero (matching the on-disk CSV convention of omitting zero scores).
func (p Points) String() string {
	if p == 0 {
		return ""
	}
	return strconv.FormatFloat(p.Float64(), 'f', 2, 64)
}

// ParsePoints parses the CSV representation of a points value.
func ParsePoints(s string) (Points, error) {
	if s == "" {
		return Points(0), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Points(0), fmt.Errorf("opltypes: invalid points %q: %w", s, err)
	}
	return PointsFromFloat64(f), nil
}
