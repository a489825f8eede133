package records

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openlifting/oplengine/internal/cache"
	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/metafed"
	"github.com/openlifting/oplengine/internal/opltypes"
	"github.com/openlifting/oplengine/internal/query"
)

func buildFixture(t *testing.T) *Engine {
	t.Helper()
	meets := []db.Meet{
		{Path: "uspa/0001", Federation: opltypes.FedUSPA, Date: opltypes.FromParts(2022, 1, 1), Sanctioned: true},
	}
	lifters := []db.Lifter{{Username: "alice"}, {Username: "bob"}, {Username: "carol"}, {Username: "dave"}}
	entries := []db.Entry{
		// alice: 82.5kg class, full power, best total 400.
		{MeetID: 0, LifterID: 0, Sex: opltypes.SexMale, Equipment: opltypes.EquipmentRaw, Event: opltypes.SBD(),
			BodyweightKg: opltypes.FromKgFloat64(79), Best3SquatKg: opltypes.FromKgInt32(150), Best3BenchKg: opltypes.FromKgInt32(100),
			Best3DeadliftKg: opltypes.FromKgInt32(150), TotalKg: opltypes.FromKgInt32(400)},
		// bob: same class, weaker total (should lose the #1 slot but still place).
		{MeetID: 0, LifterID: 1, Sex: opltypes.SexMale, Equipment: opltypes.EquipmentRaw, Event: opltypes.SBD(),
			BodyweightKg: opltypes.FromKgFloat64(78), Best3SquatKg: opltypes.FromKgInt32(140), Best3BenchKg: opltypes.FromKgInt32(90),
			Best3DeadliftKg: opltypes.FromKgInt32(140), TotalKg: opltypes.FromKgInt32(370)},
		// carol: same class, an even better total than alice (should displace alice to #2).
		{MeetID: 0, LifterID: 2, Sex: opltypes.SexMale, Equipment: opltypes.EquipmentRaw, Event: opltypes.SBD(),
			BodyweightKg: opltypes.FromKgFloat64(80), Best3SquatKg: opltypes.FromKgInt32(160), Best3BenchKg: opltypes.FromKgInt32(110),
			Best3DeadliftKg: opltypes.FromKgInt32(160), TotalKg: opltypes.FromKgInt32(430)},
		// dave: squat-only entry in the same class.
		{MeetID: 0, LifterID: 3, Sex: opltypes.SexMale, Equipment: opltypes.EquipmentRaw, Event: opltypes.SOnly(),
			BodyweightKg: opltypes.FromKgFloat64(79), Best3SquatKg: opltypes.FromKgInt32(200), TotalKg: opltypes.FromKgInt32(200)},
	}
	database, err := db.New(lifters, meets, entries)
	require.NoError(t, err)

	ll := cache.BuildLogLinearCache(database.Meets(), database.Entries())
	ct := cache.BuildConstantTimeCache(ll, database.Meets(), database.Entries())
	mf := metafed.NewResolver(database.Meets())
	return NewEngine(database, ll, ct, mf)
}

func TestClassSchemaTraditionalMenCovers140Plus(t *testing.T) {
	schema := classSchema(ClassTraditional, query.SexMen)
	require.Len(t, schema, 12)
	last := schema[len(schema)-1]
	require.Equal(t, opltypes.WeightClassOver, last.Name.Kind)
	require.Equal(t, opltypes.MaxWeightKg, last.MaxInclusive)
	require.Equal(t, opltypes.FromKgFloat64(140), last.MinExclusive)
}

func TestClassSchemaIPFWomenHasEightClasses(t *testing.T) {
	schema := classSchema(ClassIPF, query.SexWomen)
	require.Len(t, schema, 8)
	require.Equal(t, opltypes.UnderOrEqual(opltypes.FromKgFloat64(43)), schema[0].Name)
}

func TestEntryInClassUsesBodyweight(t *testing.T) {
	bound := classSchema(ClassTraditional, query.SexMen)[4] // 75kg class: (67.5, 75]
	c := &classCollector{weightClassBound: bound}

	in := &db.Entry{BodyweightKg: opltypes.FromKgFloat64(74)}
	require.True(t, c.entryInClass(in))

	out := &db.Entry{BodyweightKg: opltypes.FromKgFloat64(76)}
	require.False(t, c.entryInClass(out))
}

func TestSingleRecordCollectorReplacesSameLifterOnlyIfBetter(t *testing.T) {
	var c singleRecordCollector
	meets := []db.Meet{{}}

	weak := &db.Entry{LifterID: 0, TotalKg: opltypes.FromKgInt32(300)}
	strong := &db.Entry{LifterID: 0, TotalKg: opltypes.FromKgInt32(350)}
	weaker := &db.Entry{LifterID: 0, TotalKg: opltypes.FromKgInt32(310)}

	c.integrate(meets, weak, db.CmpTotal)
	c.integrate(meets, strong, db.CmpTotal)
	require.Equal(t, strong, c.accumulator[0])

	c.integrate(meets, weaker, db.CmpTotal)
	require.Equal(t, strong, c.accumulator[0], "a worse entry from the same lifter must not displace their existing record")
}

func TestFindProducesTopThreeWithDisplacement(t *testing.T) {
	e := buildFixture(t)
	sel := DefaultSelection()

	tables, err := e.Find(sel)
	require.NoError(t, err)

	// The 82.5kg class (under-or-equal bound containing bodyweights 79/78/80)
	// should have carol's 430 total first, alice's 400 second, bob's 370 third.
	var totalsForClass []db.EntryID
	for i, cr := range tables.FullPowerTotal {
		if len(cr.FullPowerTotal) > 0 && cr.FullPowerTotal[0].Entry != nil {
			totalsForClass = append(totalsForClass, db.EntryID(i))
		}
	}
	require.NotEmpty(t, totalsForClass)

	var found bool
	for _, cr := range tables.FullPowerTotal {
		if cr.FullPowerTotal[0].Entry != nil && cr.FullPowerTotal[0].Entry.LifterID == 2 {
			found = true
			require.Equal(t, db.LifterID(0), cr.FullPowerTotal[1].Entry.LifterID)
			require.Equal(t, db.LifterID(1), cr.FullPowerTotal[2].Entry.LifterID)
		}
	}
	require.True(t, found, "carol (lifterID 2) should hold the top full-power total record in her class")
}

func TestFindIncludesSquatOnlyEntryInAnySquatButNotFullPower(t *testing.T) {
	e := buildFixture(t)
	tables, err := e.Find(DefaultSelection())
	require.NoError(t, err)

	var daveInAnySquat, daveInFullPowerSquat bool
	for _, cr := range tables.AnySquat {
		for _, r := range cr.AnySquat {
			if r.Entry != nil && r.Entry.LifterID == 3 {
				daveInAnySquat = true
			}
		}
	}
	for _, cr := range tables.FullPowerSquat {
		for _, r := range cr.FullPowerSquat {
			if r.Entry != nil && r.Entry.LifterID == 3 {
				daveInFullPowerSquat = true
			}
		}
	}
	require.True(t, daveInAnySquat)
	require.False(t, daveInFullPowerSquat)
}

func TestParseSelectionBasicTokens(t *testing.T) {
	def := DefaultSelection()

	sel, err := ParseSelection("/raw/women/ipf-classes", def)
	require.NoError(t, err)
	require.Equal(t, cache.EquipmentRaw, sel.Equipment)
	require.Equal(t, query.SexWomen, sel.Sex)
	require.Equal(t, ClassIPF, sel.ClassKind)
}

func TestParseSelectionRejectsDuplicateAxis(t *testing.T) {
	def := DefaultSelection()
	_, err := ParseSelection("/raw/wraps", def)
	require.Error(t, err)
}
