package ages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupByAgeSeparatesBlankRanges(t *testing.T) {
	ranges := []BirthDateRange{
		DefaultBirthDateRange(),                        // 0: no age data at all
		{Min: d(1966, 2, 3), Max: d(1966, 2, 3)},       // 1
		DefaultBirthDateRange(),                        // 2: no age data at all
	}
	groups := GroupByAge(ranges)
	// The blank-range group always comes first and holds every index
	// whose range was never narrowed.
	assert.Equal(t, []int{0, 2}, groups[0])
}

func TestGroupByAgeMergesConsistentExactBirthdates(t *testing.T) {
	shared := BirthDateRange{Min: d(1966, 2, 3), Max: d(1966, 2, 3)}
	other := BirthDateRange{Min: d(1980, 5, 1), Max: d(1980, 5, 1)}
	ranges := []BirthDateRange{shared, shared, other}

	groups := GroupByAge(ranges)
	assert.ElementsMatch(t, []int{0, 1}, groupContaining(groups, 0))
	assert.ElementsMatch(t, []int{2}, groupContaining(groups, 2))
}

func TestGroupByAgeSeparatesConflictingBirthdates(t *testing.T) {
	a := BirthDateRange{Min: d(1965, 1, 1), Max: d(1965, 1, 1)}
	b := BirthDateRange{Min: d(1990, 1, 1), Max: d(1990, 1, 1)}
	groups := GroupByAge([]BirthDateRange{a, b})

	// Two incompatible exact birthdates can never share a group.
	assert.NotEqual(t, groupContaining(groups, 0), groupContaining(groups, 1))
}

func TestGroupByAgeOverlappingRangesMerge(t *testing.T) {
	// Two ranges that overlap, but aren't identical, should still be
	// considered one consistent group, since they share common ground.
	a := BirthDateRange{Min: d(1966, 1, 1), Max: d(1966, 6, 30)}
	b := BirthDateRange{Min: d(1966, 4, 1), Max: d(1966, 12, 31)}
	groups := GroupByAge([]BirthDateRange{a, b})
	assert.ElementsMatch(t, []int{0, 1}, groupContaining(groups, 0))
}

func groupContaining(groups [][]int, idx int) []int {
	for _, g := range groups {
		for _, i := range g {
			if i == idx {
				return g
			}
		}
	}
	return nil
}
