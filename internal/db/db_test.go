package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFixture(t *testing.T) *Database {
	t.Helper()
	lifters := []Lifter{
		{Name: "Amy Ant", Username: "amyant"},
		{Name: "Bob Bee", Username: "bobbee"},
		{Name: "Amy Ant", Username: "amyant1"},
	}
	meets := []Meet{
		{Path: "uspa/1001", Name: "USPA Nationals"},
		{Path: "uspa/1002", Name: "USPA Regionals"},
	}
	entries := []Entry{
		{MeetID: 0, LifterID: 1},
		{MeetID: 0, LifterID: 0},
		{MeetID: 1, LifterID: 0},
		{MeetID: 1, LifterID: 2},
	}
	d, err := New(lifters, meets, entries)
	require.NoError(t, err)
	return d
}

func TestNewSortsEntriesByLifterID(t *testing.T) {
	d := buildFixture(t)
	entries := d.Entries()
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].LifterID, entries[i].LifterID)
	}
}

func TestLifterIDLookup(t *testing.T) {
	d := buildFixture(t)
	id, ok := d.LifterID("bobbee")
	require.True(t, ok)
	assert.Equal(t, LifterID(1), id)

	_, ok = d.LifterID("nosuchlifter")
	assert.False(t, ok)
}

func TestMeetIDLookup(t *testing.T) {
	d := buildFixture(t)
	id, ok := d.MeetID("uspa/1002")
	require.True(t, ok)
	assert.Equal(t, MeetID(1), id)
}

func TestLiftersUnderUsernameBase(t *testing.T) {
	d := buildFixture(t)
	ids := d.LiftersUnderUsernameBase("amyant")
	assert.ElementsMatch(t, []LifterID{0, 2}, ids)
}

func TestLiftersUnderUsernameBaseAlreadyDisambiguated(t *testing.T) {
	d := buildFixture(t)
	ids := d.LiftersUnderUsernameBase("amyant1")
	assert.Equal(t, []LifterID{2}, ids)
}

func TestEntryIDsForLifter(t *testing.T) {
	d := buildFixture(t)
	ids, err := d.EntryIDsForLifter(0)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	for _, id := range ids {
		assert.Equal(t, LifterID(0), d.Entry(id).LifterID)
	}
}

func TestEntryIDsForLifterUnknown(t *testing.T) {
	d := buildFixture(t)
	_, err := d.EntryIDsForLifter(99)
	assert.Error(t, err)
}

func TestEntriesForMeet(t *testing.T) {
	d := buildFixture(t)
	entries := d.EntriesForMeet(0)
	assert.Len(t, entries, 2)
}

func TestLifterIDsForMeet(t *testing.T) {
	d := buildFixture(t)
	ids := d.LifterIDsForMeet(1)
	assert.ElementsMatch(t, []LifterID{0, 2}, ids)
}

func TestNumUniqueLifters(t *testing.T) {
	entries := []Entry{{LifterID: 0}, {LifterID: 1}, {LifterID: 0}}
	assert.Equal(t, uint16(2), NumUniqueLifters(entries))
}
