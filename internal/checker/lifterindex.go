package checker

import (
	"fmt"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// LifterIndexer assigns a stable LifterID to every distinct lifter
// identity seen across a build, the build-time half of §4.4's Lifter
// Index: db.Database's LiftersUnderUsernameBase only ever reads an
// already-assigned Username → LifterID table, so something upstream
// has to decide, once, which entries.csv Name strings are the same
// person and what Username each distinct person gets. That's this
// type's job.
//
// Two rows with byte-identical Name strings are always the same
// lifter. Two rows with different Name strings that happen to
// normalize to the same base Username (opltypes.FromName) are treated
// as different people and disambiguated with a numeric suffix, exactly
// the "johndoe, johndoe1, johndoe2" shape LiftersUnderUsernameBase
// resolves at query time. A pre-seeded lifter-data/*.csv row overrides
// both the identity key and the assigned Username for its Name.
type LifterIndexer struct {
	byName        map[string]db.LifterID
	usedUsernames map[string]bool
	lifters       []db.Lifter
}

// NewLifterIndexer starts an indexer pre-populated from the global
// lifter-data table, if any.
func NewLifterIndexer(seed []LifterDatum) *LifterIndexer {
	ix := &LifterIndexer{
		byName:        make(map[string]db.LifterID),
		usedUsernames: make(map[string]bool),
	}
	for _, d := range seed {
		id := db.LifterID(len(ix.lifters))
		ix.lifters = append(ix.lifters, db.Lifter{
			Name:         d.Name,
			Username:     d.Username,
			ChineseName:  d.ChineseName,
			CyrillicName: d.CyrillicName,
			GreekName:    d.GreekName,
			JapaneseName: d.JapaneseName,
			KoreanName:   d.KoreanName,
			Instagram:    d.Instagram,
			Color:        d.Color,
		})
		ix.byName[d.Name] = id
		ix.usedUsernames[d.Username] = true
	}
	return ix
}

// ResolveOrCreate returns the LifterID for name, creating a new Lifter
// row (with a freshly assigned, collision-disambiguated Username) the
// first time name is seen.
func (ix *LifterIndexer) ResolveOrCreate(name string) (db.LifterID, error) {
	return ix.ResolveOrCreateIdentity(name, name)
}

// ResolveOrCreateIdentity is ResolveOrCreate generalized to let a build
// distinguish two physically different lifters who share both a Name
// spelling and a resulting Username base. The age Disambiguator
// (§4.3) splits a Name's entries into age-consistent groups before
// usernames are assigned; each group after the first needs its own
// identityKey (anything stable and distinct, e.g. "name\x002") so it
// gets its own Lifter row and its own disambiguating suffix, while
// still recording the same human-readable Name.
func (ix *LifterIndexer) ResolveOrCreateIdentity(identityKey, name string) (db.LifterID, error) {
	if id, ok := ix.byName[identityKey]; ok {
		return id, nil
	}

	username, err := opltypes.FromName(name)
	if err != nil {
		return 0, fmt.Errorf("checker: deriving username for %q: %w", name, err)
	}
	base := username.String()

	candidate := base
	if ix.usedUsernames[candidate] {
		for suffix := 1; ; suffix++ {
			candidate = fmt.Sprintf("%s%d", base, suffix)
			if !ix.usedUsernames[candidate] {
				break
			}
		}
	}

	id := db.LifterID(len(ix.lifters))
	ix.lifters = append(ix.lifters, db.Lifter{Name: name, Username: candidate})
	ix.byName[identityKey] = id
	ix.usedUsernames[candidate] = true
	return id, nil
}

// Lifters returns the assembled Lifter table, indexed by LifterID.
func (ix *LifterIndexer) Lifters() []db.Lifter { return ix.lifters }
