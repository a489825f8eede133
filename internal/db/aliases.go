package db

import "github.com/openlifting/oplengine/internal/opltypes"

// Aliases bring the domain value types into this package's namespace so
// that Lifter, Meet, and Entry field types read naturally without a
// package-qualified name on every field.
type (
	Sex            = opltypes.Sex
	Event          = opltypes.Event
	Equipment      = opltypes.Equipment
	Age            = opltypes.Age
	WeightKg       = opltypes.WeightKg
	WeightClassKg  = opltypes.WeightClassKg
	Points         = opltypes.Points
	Place          = opltypes.Place
	AgeClass       = opltypes.AgeClass
	BirthYearClass = opltypes.BirthYearClass
	Date           = opltypes.Date
	Country        = opltypes.Country
	State          = opltypes.State
	RuleSet        = opltypes.RuleSet
	Federation     = opltypes.Federation
)
