package db

import (
	"sort"

	"github.com/openlifting/oplengine/internal/errors"
)

// Database is the immutable collection of tables that make up a
// complete compiled dataset: lifters, meets, and entries, indexed by
// the position-as-ID convention described on LifterID/MeetID/EntryID.
//
// Once built, a Database is never mutated, so its methods only ever
// hand out copies or read-only views.
type Database struct {
	lifters []Lifter
	meets   []Meet
	entries []Entry

	usernameToLifter map[string]LifterID
}

// New assembles a Database from already-parsed tables. Entries are
// sorted into non-decreasing LifterID order (the invariant every other
// package in this module relies on for O(log n) lifter lookups), and a
// username index is built for LifterID lookups by login name.
//
// New does not itself validate cross-table referential integrity or
// row-level invariants; that's the checker package's job during a
// build. It assumes the tables it's given already passed that check.
func New(lifters []Lifter, meets []Meet, entries []Entry) (*Database, error) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LifterID < entries[j].LifterID
	})

	usernameToLifter := make(map[string]LifterID, len(lifters))
	for i, l := range lifters {
		usernameToLifter[l.Username] = LifterID(i)
	}

	d := &Database{
		lifters:          lifters,
		meets:            meets,
		entries:          entries,
		usernameToLifter: usernameToLifter,
	}
	return d, nil
}

// Lifters returns the full lifters table.
func (d *Database) Lifters() []Lifter { return d.lifters }

// Meets returns the full meets table.
func (d *Database) Meets() []Meet { return d.meets }

// Entries returns the full entries table, ordered by non-decreasing
// LifterID.
func (d *Database) Entries() []Entry { return d.entries }

// Lifter returns the lifter at the given ID.
func (d *Database) Lifter(id LifterID) *Lifter { return &d.lifters[id] }

// Meet returns the meet at the given ID.
func (d *Database) Meet(id MeetID) *Meet { return &d.meets[id] }

// Entry returns the entry at the given ID.
func (d *Database) Entry(id EntryID) *Entry { return &d.entries[id] }

// LifterID looks up a LifterID by exact username match.
func (d *Database) LifterID(username string) (LifterID, bool) {
	id, ok := d.usernameToLifter[username]
	return id, ok
}

// MeetID looks up a MeetID by exact meet path match.
func (d *Database) MeetID(meetPath string) (MeetID, bool) {
	for i, m := range d.meets {
		if m.Path == meetPath {
			return MeetID(i), true
		}
	}
	return 0, false
}

// LiftersUnderUsernameBase returns every LifterID whose username is
// base itself, or base with a disambiguating numeric suffix appended
// (base+"1", base+"2", ...), stopping at the first missing suffix.
//
// If base itself already ends in a digit, it's treated as a fully
// disambiguated username and matched exactly rather than as a prefix,
// since appending more digits to it would search for the wrong names.
func (d *Database) LiftersUnderUsernameBase(base string) []LifterID {
	if n := len(base); n > 0 && base[n-1] >= '0' && base[n-1] <= '9' {
		if id, ok := d.LifterID(base); ok {
			return []LifterID{id}
		}
		return nil
	}

	var acc []LifterID
	if id, ok := d.LifterID(base); ok {
		acc = append(acc, id)
	}
	for i := 1; ; i++ {
		disambig := base + itoa(i)
		id, ok := d.LifterID(disambig)
		if !ok {
			break
		}
		acc = append(acc, id)
	}
	return acc
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

// EntryIDsForLifter returns every EntryID belonging to lifterID, found
// via binary search on the LifterID-sorted entries table followed by a
// bidirectional linear scan across the contiguous run.
func (d *Database) EntryIDsForLifter(lifterID LifterID) ([]EntryID, error) {
	n := len(d.entries)
	found := sort.Search(n, func(i int) bool { return d.entries[i].LifterID >= lifterID })
	if found >= n || d.entries[found].LifterID != lifterID {
		return nil, errors.ReferentialError("no entries for lifter id", nil).
			WithDetail("lifter_id", itoa(int(lifterID)))
	}

	first := found
	for first > 0 && d.entries[first-1].LifterID == lifterID {
		first--
	}
	last := found
	for last+1 < n && d.entries[last+1].LifterID == lifterID {
		last++
	}

	ids := make([]EntryID, 0, last-first+1)
	for i := first; i <= last; i++ {
		ids = append(ids, EntryID(i))
	}
	return ids, nil
}

// EntriesForLifter is the dereferenced form of EntryIDsForLifter.
func (d *Database) EntriesForLifter(lifterID LifterID) ([]*Entry, error) {
	ids, err := d.EntryIDsForLifter(lifterID)
	if err != nil {
		return nil, err
	}
	out := make([]*Entry, len(ids))
	for i, id := range ids {
		out[i] = d.Entry(id)
	}
	return out, nil
}

// EntryIDsForMeet returns every EntryID belonging to meetID, found via
// a linear scan since entries aren't ordered by MeetID.
func (d *Database) EntryIDsForMeet(meetID MeetID) []EntryID {
	var ids []EntryID
	for i, e := range d.entries {
		if e.MeetID == meetID {
			ids = append(ids, EntryID(i))
		}
	}
	return ids
}

// EntriesForMeet is the dereferenced form of EntryIDsForMeet.
func (d *Database) EntriesForMeet(meetID MeetID) []*Entry {
	ids := d.EntryIDsForMeet(meetID)
	out := make([]*Entry, len(ids))
	for i, id := range ids {
		out[i] = d.Entry(id)
	}
	return out
}

// LifterIDsForMeet returns the distinct LifterIDs that competed at
// meetID.
func (d *Database) LifterIDsForMeet(meetID MeetID) []LifterID {
	seen := make(map[LifterID]struct{})
	var out []LifterID
	for _, e := range d.entries {
		if e.MeetID != meetID {
			continue
		}
		if _, ok := seen[e.LifterID]; ok {
			continue
		}
		seen[e.LifterID] = struct{}{}
		out = append(out, e.LifterID)
	}
	return out
}

// NumUniqueLifters counts the distinct LifterIDs among entries,
// assumed sorted by MeetID as they are immediately after CSV import
// (before the build-time sort into LifterID order).
func NumUniqueLifters(entriesForMeet []Entry) uint16 {
	ids := make([]LifterID, len(entriesForMeet))
	for i, e := range entriesForMeet {
		ids[i] = e.LifterID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var count uint16
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			count++
		}
	}
	return count
}
