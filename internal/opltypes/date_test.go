package opltypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateParts(t *testing.T) {
	// Given a valid YYYY-MM-DD string
	// When it is parsed
	// Then the parts round-trip exactly.
	d, err := ParseDate("1988-02-16")
	require.NoError(t, err)
	assert.Equal(t, uint32(1988), d.Year())
	assert.Equal(t, uint32(2), d.Month())
	assert.Equal(t, uint32(16), d.Day())
	assert.Equal(t, uint32(216), d.MonthDay())
}

func TestDateParseErrors(t *testing.T) {
	cases := []string{
		"2017-03-04-05", "2017-03-004", "2017-003-04", "02017-03-04",
		"2017-3-4", "20170304", "", "nota-ni-nt",
		"2017-13-04", "2017-03-32", "2017-00-04", "2017-03-00",
	}
	for _, s := range cases {
		_, err := ParseDate(s)
		assert.Error(t, err, "expected parse error for %q", s)
	}
}

func TestDateIsValid(t *testing.T) {
	d, err := ParseDate("2000-02-29")
	require.NoError(t, err)
	assert.True(t, d.IsValid())

	d, err = ParseDate("2018-04-31")
	require.NoError(t, err)
	assert.False(t, d.IsValid())
}

func TestDateOrdering(t *testing.T) {
	d1 := FromParts(2017, 1, 12)
	d2 := FromParts(2016, 1, 12)
	d3 := FromParts(2017, 1, 13)
	d4 := FromParts(2017, 2, 11)

	assert.True(t, d1 > d2)
	assert.True(t, d3 > d1)
	assert.True(t, d4 > d1)
	assert.True(t, d3 < d4)
}

func TestDateDisplay(t *testing.T) {
	d := FromParts(2017, 3, 4)
	assert.Equal(t, "2017-03-04", d.String())
}

func TestDateAgeOn(t *testing.T) {
	birthdate := FromParts(1988, 2, 16)

	_, err := birthdate.AgeOn(FromParts(1987, 1, 1))
	assert.Error(t, err)

	_, err = birthdate.AgeOn(FromParts(1988, 2, 15))
	assert.Error(t, err)

	age, err := birthdate.AgeOn(FromParts(1988, 2, 16))
	require.NoError(t, err)
	assert.Equal(t, ExactAge(0), age)

	age, err = birthdate.AgeOn(FromParts(1989, 2, 15))
	require.NoError(t, err)
	assert.Equal(t, ExactAge(0), age)

	age, err = birthdate.AgeOn(FromParts(1989, 2, 16))
	require.NoError(t, err)
	assert.Equal(t, ExactAge(1), age)

	age, err = birthdate.AgeOn(FromParts(2018, 1, 4))
	require.NoError(t, err)
	assert.Equal(t, ExactAge(29), age)

	age, err = birthdate.AgeOn(FromParts(2018, 11, 3))
	require.NoError(t, err)
	assert.Equal(t, ExactAge(30), age)

	_, err = birthdate.AgeOn(FromParts(3018, 11, 3))
	assert.Error(t, err)
}

func TestDateCountDays(t *testing.T) {
	d := FromParts(4, 12, 31)
	assert.Equal(t, uint32(366+3*365), d.CountDays())

	d = FromParts(100, 12, 31)
	assert.Equal(t, uint32(24*366+76*365), d.CountDays())

	d = FromParts(400, 12, 31)
	assert.Equal(t, uint32(97*366+303*365), d.CountDays())

	d = FromParts(4, 2, 28)
	assert.Equal(t, uint32(3*365+31+28), d.CountDays())

	beforeLeap := FromParts(4, 2, 28)
	onLeap := FromParts(4, 2, 29)
	afterLeap := FromParts(4, 3, 1)
	assert.Equal(t, int32(1), onLeap.Sub(beforeLeap))
	assert.Equal(t, int32(2), afterLeap.Sub(beforeLeap))
}
