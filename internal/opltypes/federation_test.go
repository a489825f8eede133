package opltypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFederation(t *testing.T) {
	f, ok := ParseFederation("ipf")
	assert.True(t, ok)
	assert.Equal(t, FedIPF, f)

	f, ok = ParseFederation("USAPL")
	assert.True(t, ok)
	assert.Equal(t, FedUSAPL, f)

	_, ok = ParseFederation("notafed")
	assert.False(t, ok)
}

func TestSanctioningBody(t *testing.T) {
	d := FromParts(2020, 1, 1)
	assert.Equal(t, FedIPF, FedIPF.SanctioningBody(d))
	assert.Equal(t, FedIPF, FedUSAPL.SanctioningBody(d))
	assert.Equal(t, FedUnknown, FedRPS.SanctioningBody(d))
}

func TestIsTestedOnlyFederation(t *testing.T) {
	assert.True(t, IsTestedOnlyFederation(FedIPF))
	assert.True(t, IsTestedOnlyFederation(FedUSAPL))
	assert.False(t, IsTestedOnlyFederation(FedRPS))
}

func TestParseMetaFederation(t *testing.T) {
	m, ok := ParseMetaFederation("all-tested")
	assert.True(t, ok)
	assert.Equal(t, MetaFedAllTested, m)

	_, ok = ParseMetaFederation("not-a-metafed")
	assert.False(t, ok)
}
