package metafed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/opltypes"
)

func TestIPFAndAffiliatesMeetCache(t *testing.T) {
	meets := []db.Meet{
		{Federation: opltypes.FedIPF, Country: opltypes.CountryUSA},
		{Federation: opltypes.FedUSAPL, Country: opltypes.CountryUSA},
		{Federation: opltypes.FedUSPA, Country: opltypes.CountryUSA},
	}
	r := NewResolver(meets)

	bm, ok := r.MeetIDsFor(opltypes.MetaFedIPFAndAffiliates)
	require.True(t, ok)
	require.True(t, bm.Contains(0))
	require.True(t, bm.Contains(1))
	require.False(t, bm.Contains(2))
}

func TestAllTestedChecksEntryFlag(t *testing.T) {
	meets := []db.Meet{{Federation: opltypes.FedUSPA}}
	r := NewResolver(meets)

	tested := &db.Entry{MeetID: 0, Tested: true}
	untested := &db.Entry{MeetID: 0, Tested: false}

	require.True(t, r.Contains(opltypes.MetaFedAllTested, tested, &meets[0]))
	require.False(t, r.Contains(opltypes.MetaFedAllTested, untested, &meets[0]))
}

func TestAllTestedFederationOverride(t *testing.T) {
	meets := []db.Meet{{Federation: opltypes.FedIPF}}
	r := NewResolver(meets)
	entry := &db.Entry{MeetID: 0, Tested: false}
	require.True(t, r.Contains(opltypes.MetaFedAllTested, entry, &meets[0]))
}
