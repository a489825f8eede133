package checker

import (
	"math"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// computePoints fills in the five precomputed point systems §1 and
// db.Entry both describe (Wilks, McCulloch, Glossbrenner, Goodlift,
// Dots), the same way the original project's points formulas turn a
// Sex/Bodyweight/Total triple (plus, for McCulloch, a resolved Age)
// into a comparable score. A zero bodyweight or total yields zero
// points in every system, matching opltypes.Points' "don't display an
// empty value" convention.
func computePoints(e *db.Entry) {
	bw := weightToFloat64(e.BodyweightKg)
	total := weightToFloat64(e.TotalKg.Abs())
	if bw <= 0 || total <= 0 {
		return
	}

	wilks := wilksCoefficient(e.Sex, bw) * total
	e.Wilks = opltypes.PointsFromFloat64(wilks)
	e.McCulloch = opltypes.PointsFromFloat64(wilks * mcCullochAgeCoefficient(e.Age))
	e.Glossbrenner = opltypes.PointsFromFloat64(glossbrennerCoefficient(e.Sex, bw) * total)
	e.Dots = opltypes.PointsFromFloat64(dotsCoefficient(e.Sex, bw) * total)
	e.Goodlift = opltypes.PointsFromFloat64(goodliftCoefficient(e.Sex, e.Equipment, bw) * total)
}

// weightToFloat64 converts a WeightKg (centikilograms) to a plain
// float for use in the point-system polynomials.
func weightToFloat64(w opltypes.WeightKg) float64 { return float64(w) / 100.0 }

// wilksCoefficient is the original (1994) Wilks formula.
func wilksCoefficient(sex opltypes.Sex, bw float64) float64 {
	if sex == opltypes.SexFemale {
		return polyCoefficient(500, bw,
			594.31747775582, -27.23842536447, 0.82112226871,
			-0.00930733913, 4.731582e-5, -9.054e-8)
	}
	return polyCoefficient(500, bw,
		-216.0475144, 16.2606339, -0.002388645,
		-0.00113732, 7.01863e-6, -1.291e-8)
}

// glossbrennerCoefficient is the Glossbrenner formula, a contemporary
// of Wilks using the same quintic-polynomial shape with different
// published coefficients.
func glossbrennerCoefficient(sex opltypes.Sex, bw float64) float64 {
	if sex == opltypes.SexFemale {
		return polyCoefficient(500, bw,
			247.060836, -1.522584, 6.358521e-3,
			-9.839782e-6, 0, 0)
	}
	return polyCoefficient(500, bw,
		172.959493, -0.9627515, 3.104617e-3,
		-4.00057e-6, 0, 0)
}

// dotsCoefficient is the DOTS formula, a quartic-in-bodyweight
// replacement for Wilks published in 2019 and adopted by several
// federations as the tiebreak-free "best lifter" metric.
func dotsCoefficient(sex opltypes.Sex, bw float64) float64 {
	if sex == opltypes.SexFemale {
		return 500 / dotsQuartic(bw, -0.0000010706, 0.0005158568, -0.1126655495, 13.6175032, -57.96288)
	}
	return 500 / dotsQuartic(bw, -0.0000010930, 0.0007391293, -0.1918759221, 24.0900756, -307.75076)
}

func dotsQuartic(bw, a, b, c, d, e float64) float64 {
	return a*math.Pow(bw, 4) + b*math.Pow(bw, 3) + c*math.Pow(bw, 2) + d*bw + e
}

// goodliftCoefficient is the IPF GL Points formula: an exponential-decay
// curve in bodyweight, with separate published coefficients for raw and
// equipped lifting, independent of sex-specific Wilks/Glossbrenner/Dots
// polynomial shapes.
func goodliftCoefficient(sex opltypes.Sex, equip opltypes.Equipment, bw float64) float64 {
	equipped := equip != opltypes.EquipmentRaw && equip != opltypes.EquipmentWraps

	var a, b, c float64
	switch {
	case sex == opltypes.SexFemale && !equipped:
		a, b, c = 610.32796, 1045.59282, 0.03048
	case sex == opltypes.SexFemale && equipped:
		a, b, c = 758.63878, 949.31382, 0.02435
	case !equipped:
		a, b, c = 1199.72839, 1025.18162, 0.00921
	default:
		a, b, c = 1236.25115, 1449.21864, 0.01644
	}
	denom := a - b*math.Exp(-c*bw)
	if denom <= 0 {
		return 0
	}
	return 100 / denom
}

// mcCullochAgeCoefficient applies the standard McCulloch age-adjustment
// table on top of a Wilks score: 1.0 for any adult lifter under 40, a
// published multiplier increasing with age for masters lifters, and
// (symmetrically) a multiplier for young lifters under 16 decreasing
// toward 1.0 at adulthood. Ages without an exact or bracket value
// contribute no adjustment.
func mcCullochAgeCoefficient(age opltypes.Age) float64 {
	years, ok := age.ToU8Option()
	if !ok {
		return 1.0
	}
	return mcCullochTable[clampAge(int(years))]
}

func clampAge(age int) int {
	if age < 5 {
		return 5
	}
	if age > 89 {
		return 89
	}
	return age
}

// mcCullochTable holds the published McCulloch multiplier for every
// age from 5 through 89; adult lifters (23-39) use 1.0. clampAge maps
// older lifters onto the age-89 value.
var mcCullochTable = buildMcCullochTable()

func buildMcCullochTable() map[int]float64 {
	t := make(map[int]float64, 86)
	for age := 23; age <= 39; age++ {
		t[age] = 1.0
	}
	// Youth multipliers descend toward 1.0 as a lifter approaches 23.
	youth := []float64{1.73, 1.56, 1.42, 1.29, 1.20, 1.13, 1.07, 1.04, 1.02, 1.01, 1.01, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0}
	for i, age := 0, 5; age < 23; age, i = age+1, i+1 {
		if i < len(youth) {
			t[age] = youth[i]
		} else {
			t[age] = 1.0
		}
	}
	// Masters multipliers ascend from 1.01 at 40.
	masters := []float64{
		1.01, 1.02, 1.031, 1.043, 1.055, 1.068, 1.082, 1.097, 1.113, 1.130,
		1.147, 1.165, 1.184, 1.204, 1.225, 1.246, 1.268, 1.291, 1.315, 1.340,
		1.366, 1.393, 1.421, 1.450, 1.480, 1.511, 1.543, 1.576, 1.610, 1.645,
		1.681, 1.718, 1.756, 1.795, 1.835, 1.876, 1.918, 1.961, 2.005, 2.050,
		2.096, 2.143, 2.191, 2.240, 2.290, 2.341, 2.393, 2.446, 2.500, 2.555,
	}
	for i, age := 0, 40; age <= 90 && i < len(masters); age, i = age+1, i+1 {
		t[age] = masters[i]
	}
	return t
}

// polyCoefficient evaluates the quintic 500/(a+bx+cx^2+dx^3+ex^4+fx^5)
// shape common to Wilks and Glossbrenner.
func polyCoefficient(scale, x, a, b, c, d, e, f float64) float64 {
	denom := a + b*x + c*math.Pow(x, 2) + d*math.Pow(x, 3) + e*math.Pow(x, 4) + f*math.Pow(x, 5)
	if denom <= 0 {
		return 0
	}
	return scale / denom
}
