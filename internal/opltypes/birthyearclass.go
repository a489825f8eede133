package opltypes

// BirthYearClass is the birth-year-bracket analogue of AgeClass, used by
// federations (notably IPF-affiliated ones) that classify lifters by the
// calendar year they turn a given age rather than by exact age on the
// meet date.
type BirthYearClass uint8

const (
	BirthYearClassY14_18 BirthYearClass = iota
	BirthYearClassY19_23
	BirthYearClassY24_39
	BirthYearClassY40_49
	BirthYearClassY50_59
	BirthYearClassY60_69
	BirthYearClassY70_999
	BirthYearClassNone
)

var birthYearClassNames = map[BirthYearClass]string{
	BirthYearClassY14_18:  "Y14-18",
	BirthYearClassY19_23:  "Y19-23",
	BirthYearClassY24_39:  "Y24-39",
	BirthYearClassY40_49:  "Y40-49",
	BirthYearClassY50_59:  "Y50-59",
	BirthYearClassY60_69:  "Y60-69",
	BirthYearClassY70_999: "Y70-999",
	BirthYearClassNone:    "",
}

func (c BirthYearClass) String() string { return birthYearClassNames[c] }

// BirthYearClassFromAge classifies an exact "turns this age this year"
// value into a BirthYearClass bracket. Approximate and None ages yield
// BirthYearClassNone since the bracket cannot be assigned reliably
// without an exact age-of-year fact.
func BirthYearClassFromAge(age Age) BirthYearClass {
	if age.Kind != AgeKindExact {
		return BirthYearClassNone
	}
	n := age.Value
	switch {
	case n >= 14 && n <= 18:
		return BirthYearClassY14_18
	case n >= 19 && n <= 23:
		return BirthYearClassY19_23
	case n >= 24 && n <= 39:
		return BirthYearClassY24_39
	case n >= 40 && n <= 49:
		return BirthYearClassY40_49
	case n >= 50 && n <= 59:
		return BirthYearClassY50_59
	case n >= 60 && n <= 69:
		return BirthYearClassY60_69
	case n >= 70:
		return BirthYearClassY70_999
	default:
		return BirthYearClassNone
	}
}
