package opltypes

// AgeClass is a fixed age bracket used for partitioning rankings and
// records into categories.
type AgeClass uint8

const (
	AgeClass5_12 AgeClass = iota
	AgeClass13_15
	AgeClass16_17
	AgeClass18_19
	AgeClass20_23
	AgeClass24_34
	AgeClass35_39
	AgeClass40_44
	AgeClass45_49
	AgeClass50_54
	AgeClass55_59
	AgeClass60_64
	AgeClass65_69
	AgeClass70_74
	AgeClass75_79
	AgeClass80_84
	AgeClass85_89
	AgeClass90_999
	AgeClassNone
)

var ageClassNames = map[AgeClass]string{
	AgeClass5_12:   "5-12",
	AgeClass13_15:  "13-15",
	AgeClass16_17:  "16-17",
	AgeClass18_19:  "18-19",
	AgeClass20_23:  "20-23",
	AgeClass24_34:  "24-34",
	AgeClass35_39:  "35-39",
	AgeClass40_44:  "40-44",
	AgeClass45_49:  "45-49",
	AgeClass50_54:  "50-54",
	AgeClass55_59:  "55-59",
	AgeClass60_64:  "60-64",
	AgeClass65_69:  "65-69",
	AgeClass70_74:  "70-74",
	AgeClass75_79:  "75-79",
	AgeClass80_84:  "80-84",
	AgeClass85_89:  "85-89",
	AgeClass90_999: "90-999",
	AgeClassNone:   "",
}

func (c AgeClass) String() string { return ageClassNames[c] }

// AgeClassFromAge assigns an AgeClass based on a single Age value.
// Ambiguous cases (Approximate ages straddling a bracket boundary) get
// assigned to the pessimal class, i.e. the one closest to Senior (24-34).
func AgeClassFromAge(age Age) AgeClass {
	var min, max uint8
	switch age.Kind {
	case AgeKindExact:
		min, max = age.Value, age.Value
	case AgeKindApproximate:
		min, max = age.Value, age.Value+1
	default:
		return AgeClassNone
	}

	if max < 30 {
		switch {
		case max >= 5 && max <= 12:
			return AgeClass5_12
		case max >= 13 && max <= 15:
			return AgeClass13_15
		case max >= 16 && max <= 17:
			return AgeClass16_17
		case max >= 18 && max <= 19:
			return AgeClass18_19
		case max >= 20 && max <= 23:
			return AgeClass20_23
		case max >= 24 && max <= 34:
			return AgeClass24_34
		default:
			return AgeClassNone
		}
	}
	switch {
	case min >= 24 && min <= 34:
		return AgeClass24_34
	case min >= 35 && min <= 39:
		return AgeClass35_39
	case min >= 40 && min <= 44:
		return AgeClass40_44
	case min >= 45 && min <= 49:
		return AgeClass45_49
	case min >= 50 && min <= 54:
		return AgeClass50_54
	case min >= 55 && min <= 59:
		return AgeClass55_59
	case min >= 60 && min <= 64:
		return AgeClass60_64
	case min >= 65 && min <= 69:
		return AgeClass65_69
	case min >= 70 && min <= 74:
		return AgeClass70_74
	case min >= 75 && min <= 79:
		return AgeClass75_79
	case min >= 80 && min <= 84:
		return AgeClass80_84
	case min >= 85 && min <= 89:
		return AgeClass85_89
	case min >= 90:
		return AgeClass90_999
	default:
		return AgeClassNone
	}
}

// AgeRange is an inclusive [min, max] pair of Age values, used when an
// entry's age is only known to lie within a range (e.g. from a
// still-ambiguous BirthDateRange).
type AgeRange struct {
	Min Age
	Max Age
}

// Distance returns max-min in whole years, or (0, false) if either bound
// is None.
func (r AgeRange) Distance() (uint8, bool) {
	minV, ok1 := r.Min.ToU8Option()
	maxV, ok2 := r.Max.ToU8Option()
	if !ok1 || !ok2 {
		return 0, false
	}
	if maxV < minV {
		return 0, false
	}
	return maxV - minV, true
}

// AgeClassFromRange assigns an AgeClass based on a known AgeRange,
// agreeing with AgeClassFromAge when both endpoints land in the same
// class, otherwise rounding toward the Senior bracket (30) when the
// endpoints are close enough (distance <= 4) to disambiguate, and
// otherwise returning AgeClassNone.
func AgeClassFromRange(r AgeRange) AgeClass {
	classMin := AgeClassFromAge(r.Min)
	classMax := AgeClassFromAge(r.Max)
	if classMin == classMax {
		return classMin
	}
	if r.Min.IsNone() {
		return AgeClassNone
	}
	dist, ok := r.Distance()
	if !ok || dist > 4 {
		return AgeClassNone
	}
	maxVal, ok := r.Max.ToU8Option()
	if ok && maxVal < 30 {
		return AgeClassFromAge(r.Max)
	}
	return AgeClassFromAge(r.Min)
}

var ageClassTokens = map[string]AgeClass{
	"5-12":   AgeClass5_12,
	"13-15":  AgeClass13_15,
	"16-17":  AgeClass16_17,
	"18-19":  AgeClass18_19,
	"20-23":  AgeClass20_23,
	"24-34":  AgeClass24_34,
	"35-39":  AgeClass35_39,
	"40-44":  AgeClass40_44,
	"45-49":  AgeClass45_49,
	"50-54":  AgeClass50_54,
	"55-59":  AgeClass55_59,
	"60-64":  AgeClass60_64,
	"65-69":  AgeClass65_69,
	"70-74":  AgeClass70_74,
	"75-79":  AgeClass75_79,
	"80-84":  AgeClass80_84,
	"85-89":  AgeClass85_89,
	"90-999": AgeClass90_999,
}

// ParseAgeClassToken parses the URL-path rankings/records query token
// for an age class, e.g. "45-49". AgeClassNone has no token since a
// query axis either names a class or is absent entirely.
func ParseAgeClassToken(s string) (AgeClass, bool) {
	c, ok := ageClassTokens[s]
	return c, ok
}
