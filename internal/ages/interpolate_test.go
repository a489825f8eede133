package ages

import (
	"testing"

	"github.com/openlifting/oplengine/internal/opltypes"
	"github.com/stretchr/testify/assert"
)

func TestInterpolateFillsAgeFromKnownBirthdate(t *testing.T) {
	facts := []Fact{
		{MeetDate: d(2019, 5, 15), BirthDate: d(1990, 5, 15)},
		{MeetDate: d(2020, 5, 20)},
	}
	ages := Interpolate(facts)
	assert.Equal(t, opltypes.ExactAge(29), ages[0])
	assert.Equal(t, opltypes.ExactAge(30), ages[1])
}

func TestInterpolateReconcilesAgeAcrossEntries(t *testing.T) {
	// A known birthdate on one entry and a consistent exact age on
	// another both narrow the same range; the second entry's own Age
	// is recomputed from that shared range and agrees with what it
	// already reported.
	facts := []Fact{
		{MeetDate: d(2019, 3, 1), BirthDate: d(1988, 6, 15)},
		{MeetDate: d(2020, 1, 10), Age: opltypes.ExactAge(31)},
	}
	ages := Interpolate(facts)
	assert.Equal(t, opltypes.ExactAge(31), ages[1])
}

func TestInterpolateRequiresAtLeastTwoFacts(t *testing.T) {
	facts := []Fact{{MeetDate: d(2019, 5, 15), BirthDate: d(1990, 5, 15)}}
	ages := Interpolate(facts)
	assert.Equal(t, opltypes.Age{}, ages[0])
}

func TestInterpolateAbandonsOnConflict(t *testing.T) {
	facts := []Fact{
		{MeetDate: d(2019, 5, 15), BirthDate: d(1990, 5, 15)},
		{MeetDate: d(2019, 5, 15), BirthDate: d(1991, 1, 1)},
	}
	ages := Interpolate(facts)
	// Conflicting birthdates: interpolation abandons, original (absent)
	// ages pass through unchanged.
	assert.Equal(t, opltypes.Age{}, ages[0])
	assert.Equal(t, opltypes.Age{}, ages[1])
}
