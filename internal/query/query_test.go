package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openlifting/oplengine/internal/cache"
	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/metafed"
	"github.com/openlifting/oplengine/internal/opltypes"
)

func buildFixture(t *testing.T) *Engine {
	t.Helper()
	meets := []db.Meet{
		{Path: "uspa/0001", Federation: opltypes.FedUSPA, Date: opltypes.FromParts(2022, 1, 1), Sanctioned: true},
		{Path: "uspa/0002", Federation: opltypes.FedUSPA, Date: opltypes.FromParts(2023, 1, 1), Sanctioned: true},
	}
	lifters := []db.Lifter{{Username: "alice"}, {Username: "bob"}}
	entries := []db.Entry{
		{MeetID: 0, LifterID: 0, Sex: opltypes.SexFemale, Equipment: opltypes.EquipmentRaw, TotalKg: opltypes.FromKgInt32(300), Wilks: opltypes.PointsFromFloat64(400)},
		{MeetID: 1, LifterID: 1, Sex: opltypes.SexMale, Equipment: opltypes.EquipmentRaw, TotalKg: opltypes.FromKgInt32(600), Wilks: opltypes.PointsFromFloat64(450)},
	}
	database, err := db.New(lifters, meets, entries)
	require.NoError(t, err)

	ll := cache.BuildLogLinearCache(database.Meets(), database.Entries())
	ct := cache.BuildConstantTimeCache(ll, database.Meets(), database.Entries())
	mf := metafed.NewResolver(database.Meets())
	return NewEngine(database, ll, ct, mf)
}

func TestParseRankingsQueryBasicTokens(t *testing.T) {
	def := DefaultRankingsQuery()

	q, err := ParseRankingsQuery("/raw/men", def)
	require.NoError(t, err)
	require.Equal(t, cache.EquipmentRaw, q.Filter.Equipment)
	require.Equal(t, SexMen, q.Filter.Sex)

	q, err = ParseRankingsQuery("/wraps/women", def)
	require.NoError(t, err)
	require.Equal(t, cache.EquipmentWraps, q.Filter.Equipment)
	require.Equal(t, SexWomen, q.Filter.Sex)

	q, err = ParseRankingsQuery("/uspa/raw", def)
	require.NoError(t, err)
	require.Equal(t, FederationExact, q.Filter.Federation.Kind)
	require.Equal(t, opltypes.FedUSPA, q.Filter.Federation.Fed)
	require.Equal(t, cache.EquipmentRaw, q.Filter.Equipment)
}

func TestParseRankingsQueryRejectsDuplicateAxis(t *testing.T) {
	def := DefaultRankingsQuery()
	_, err := ParseRankingsQuery("/raw/raw", def)
	require.Error(t, err)

	_, err = ParseRankingsQuery("/women/men", def)
	require.Error(t, err)
}

func TestParseRankingsQueryRejectsMalformedPaths(t *testing.T) {
	def := DefaultRankingsQuery()
	for _, p := range []string{"/raw///////", "////raw////", "912h3h123h12ch39", "......."} {
		_, err := ParseRankingsQuery(p, def)
		require.Error(t, err, p)
	}
}

func TestParseRankingsQueryYearVsWeightClassDisambiguation(t *testing.T) {
	def := DefaultRankingsQuery()
	q, err := ParseRankingsQuery("/2023", def)
	require.NoError(t, err)
	require.False(t, q.Filter.Year.All)
	require.Equal(t, uint32(2023), q.Filter.Year.Year)

	q, err = ParseRankingsQuery("/72.5", def)
	require.NoError(t, err)
	require.False(t, q.Filter.WeightClasses.All)
}

func TestExecuteConstantTimeSchemaMatchesCache(t *testing.T) {
	e := buildFixture(t)
	q := RankingsQuery{Filter: DefaultFilter(), OrderBy: cache.OrderByTotal}
	q.Filter.Equipment = cache.EquipmentRaw

	rows := e.Execute(q)
	cached, ok := e.constant.Lookup(cache.OrderByTotal, cache.EquipmentRaw)
	require.True(t, ok)
	require.Equal(t, cached, rows)
}

func TestGetSlicePagination(t *testing.T) {
	rows := cache.SortedUnique{0, 1, 2, 3, 4}

	res, err := GetSlice(rows, 0, 2)
	require.NoError(t, err)
	require.Equal(t, 5, res.TotalLength)
	require.Len(t, res.Rows, 3)

	res, err = GetSlice(rows, 3, 100)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	res, err = GetSlice(rows, 2, 0)
	require.NoError(t, err)
	require.Equal(t, db.EntryID(0), res.Rows[0])

	_, err = GetSlice(rows, 10, 20)
	require.Error(t, err)
}
