// Package db holds the in-memory row model for the lifting database: the
// Lifter, Meet, and Entry records, the comparator and filter functions
// used to rank them, and the arena that owns all three tables by index.
//
// Because the data is read-only once built, the arena can lay out its
// storage more aggressively than a general-purpose database: Lifter,
// Meet, and Entry are plain structs referencing each other by integer
// ID rather than by pointer, so the whole dataset is relocatable,
// trivially serializable, and friendly to the CPU cache.
package db

import "github.com/openlifting/oplengine/internal/intern"

// LifterID indexes into Database.Lifters(). The ID is implicit in the
// backing slice position; the order of lifters is arbitrary.
type LifterID uint32

// MeetID indexes into Database.Meets(). The ID is implicit in the
// backing slice position; the order of meets is arbitrary.
type MeetID uint32

// EntryID indexes into Database.Entries(). The order of entries is by
// increasing LifterID; within a single LifterID's run, order is
// arbitrary. Callers rely on this ordering for lifter-uniqueness
// filtering without building extra indices.
type EntryID uint32

// Lifter is a unique competitor, identified across meets by Username.
type Lifter struct {
	Name         string
	Username     string
	ChineseName  string
	CyrillicName string
	GreekName    string
	JapaneseName string
	KoreanName   string
	Instagram    string
	Color        string
}

// Meet is a single competition event.
type Meet struct {
	Path              string
	Federation        Federation
	Date              Date
	Country           Country
	State             State
	Town              string
	Name              string
	RuleSet           RuleSet
	Sanctioned        bool
	NumUniqueLifters  uint16
}

// Entry is one competitor's performance at one meet.
type Entry struct {
	MeetID   MeetID
	LifterID LifterID

	Sex       Sex
	Event     Event
	Equipment Equipment
	Age       Age

	Division intern.Symbol

	BodyweightKg  WeightKg
	WeightClassKg WeightClassKg

	Squat1Kg, Squat2Kg, Squat3Kg, Squat4Kg WeightKg
	Best3SquatKg                           WeightKg

	Bench1Kg, Bench2Kg, Bench3Kg, Bench4Kg WeightKg
	Best3BenchKg                           WeightKg

	Deadlift1Kg, Deadlift2Kg, Deadlift3Kg, Deadlift4Kg WeightKg
	Best3DeadliftKg                                    WeightKg

	TotalKg WeightKg
	Place   Place

	Wilks        Points
	McCulloch    Points
	Glossbrenner Points
	Goodlift     Points
	Dots         Points

	Tested bool

	AgeClass        AgeClass
	BirthYearClass  BirthYearClass
	LifterCountry   Country
	LifterState     State
}

// DivisionString resolves the interned Division symbol, or "" if unset.
func (e *Entry) DivisionString() string { return e.Division.String() }

// HighestSquatKg is the best of Best3SquatKg and a fourth-attempt
// Squat4Kg, which counts for rankings even though it's excluded from
// the official Best3SquatKg total.
func (e *Entry) HighestSquatKg() WeightKg { return maxWeight(e.Best3SquatKg, e.Squat4Kg) }

// HighestBenchKg is the analogous highest-attempt bench value.
func (e *Entry) HighestBenchKg() WeightKg { return maxWeight(e.Best3BenchKg, e.Bench4Kg) }

// HighestDeadliftKg is the analogous highest-attempt deadlift value.
func (e *Entry) HighestDeadliftKg() WeightKg { return maxWeight(e.Best3DeadliftKg, e.Deadlift4Kg) }

func maxWeight(a, b WeightKg) WeightKg {
	if b > a {
		return b
	}
	return a
}
