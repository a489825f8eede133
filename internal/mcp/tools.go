package mcp

import (
	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/records"
)

// RankingsQueryInput defines the input schema for the rankings_query tool.
type RankingsQueryInput struct {
	Path  string `json:"path,omitempty" jsonschema:"slash-delimited rankings selector, e.g. 'raw/men/by-wilks'; empty means the default raw+wraps all-sexes Wilks ranking"`
	Start int    `json:"start,omitempty" jsonschema:"zero-based index of the first row to return, default 0"`
	End   int    `json:"end,omitempty" jsonschema:"zero-based index of the last row to return, default 9; capped at start+99"`
}

// RankingsQueryOutput defines the output schema for the rankings_query tool.
type RankingsQueryOutput struct {
	TotalLength int           `json:"total_length" jsonschema:"number of rows the selector matches before pagination"`
	Rows        []RankingsRow `json:"rows" jsonschema:"the requested page of ranked rows"`
}

// RankingsRow is one ranked entry, flattened to the fields a rankings
// table column needs.
type RankingsRow struct {
	Rank         int     `json:"rank"`
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	Sex          string  `json:"sex"`
	Equipment    string  `json:"equipment"`
	Event        string  `json:"event"`
	Federation   string  `json:"federation"`
	MeetPath     string  `json:"meet_path"`
	Date         string  `json:"date"`
	SquatKg      float64 `json:"squat_kg,omitempty"`
	BenchKg      float64 `json:"bench_kg,omitempty"`
	DeadliftKg   float64 `json:"deadlift_kg,omitempty"`
	TotalKg      float64 `json:"total_kg,omitempty"`
	Wilks        float64 `json:"wilks,omitempty"`
	McCulloch    float64 `json:"mcculloch,omitempty"`
	Glossbrenner float64 `json:"glossbrenner,omitempty"`
	Goodlift     float64 `json:"goodlift,omitempty"`
	Dots         float64 `json:"dots,omitempty"`
}

// RecordsQueryInput defines the input schema for the records_query tool.
type RecordsQueryInput struct {
	Path string `json:"path,omitempty" jsonschema:"slash-delimited records selector, e.g. 'raw/women/ipf-classes'; empty means the default raw+wraps men traditional-classes selection"`
}

// RecordsQueryOutput defines the output schema for the records_query tool,
// mirroring records.Tables field-for-field with JSON-friendly names.
type RecordsQueryOutput struct {
	FullPowerSquat    []RecordsClassResult `json:"full_power_squat"`
	FullPowerBench    []RecordsClassResult `json:"full_power_bench"`
	FullPowerDeadlift []RecordsClassResult `json:"full_power_deadlift"`
	FullPowerTotal    []RecordsClassResult `json:"full_power_total"`
	AnySquat          []RecordsClassResult `json:"any_squat"`
	AnyBench          []RecordsClassResult `json:"any_bench"`
	AnyDeadlift       []RecordsClassResult `json:"any_deadlift"`
}

// RecordsClassResult is one weight class's top-3 list for a single
// record category.
type RecordsClassResult struct {
	WeightClass string          `json:"weight_class"`
	Records     []RecordsRecord `json:"records"`
}

// RecordsRecord is a single ranked slot in a records table; Username is
// empty for an unfilled slot.
type RecordsRecord struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username,omitempty"`
	Name     string  `json:"name,omitempty"`
	MeetPath string  `json:"meet_path,omitempty"`
	ValueKg  float64 `json:"value_kg,omitempty"`
}

// LifterLookupInput defines the input schema for the lifter_lookup tool.
type LifterLookupInput struct {
	Query string `json:"query" jsonschema:"a username base, e.g. 'johndoe' matches 'johndoe' and every disambiguated variant ('johndoe1', 'johndoe2', ...)"`
}

// LifterLookupOutput defines the output schema for the lifter_lookup tool.
// Lifters is ordered by username, matching LiftersUnderUsernameBase.
type LifterLookupOutput struct {
	Lifters []LifterLookupResult `json:"lifters"`
}

// LifterLookupResult is one matched lifter and their competition history.
type LifterLookupResult struct {
	Username  string              `json:"username"`
	Name      string              `json:"name"`
	Instagram string              `json:"instagram,omitempty"`
	Entries   []LifterLookupEntry `json:"entries"`
}

// LifterLookupEntry summarizes one of the lifter's competition entries.
type LifterLookupEntry struct {
	MeetPath  string  `json:"meet_path"`
	Date      string  `json:"date"`
	Federation string `json:"federation"`
	Division  string  `json:"division,omitempty"`
	Equipment string  `json:"equipment"`
	Event     string  `json:"event"`
	TotalKg   float64 `json:"total_kg,omitempty"`
	Place     string  `json:"place"`
}

// MeetLookupInput defines the input schema for the meet_lookup tool.
type MeetLookupInput struct {
	Path string `json:"path" jsonschema:"the meet's canonical path, e.g. 'uspa/0485'"`
}

// MeetLookupOutput defines the output schema for the meet_lookup tool.
type MeetLookupOutput struct {
	Path       string             `json:"path"`
	Federation string             `json:"federation"`
	Date       string             `json:"date"`
	Country    string             `json:"country"`
	State      string             `json:"state,omitempty"`
	Town       string             `json:"town,omitempty"`
	Name       string             `json:"name"`
	Sanctioned bool               `json:"sanctioned"`
	Entries    []MeetLookupEntry  `json:"entries"`
}

// MeetLookupEntry summarizes one lifter's result at the meet.
type MeetLookupEntry struct {
	Username  string  `json:"username"`
	Name      string  `json:"name"`
	Division  string  `json:"division,omitempty"`
	Equipment string  `json:"equipment"`
	Event     string  `json:"event"`
	TotalKg   float64 `json:"total_kg,omitempty"`
	Place     string  `json:"place"`
}

func toRankingsRow(rank int, entries []db.Entry, meets []db.Meet, lifters []db.Lifter, id db.EntryID) RankingsRow {
	e := &entries[id]
	m := &meets[e.MeetID]
	l := &lifters[e.LifterID]
	return RankingsRow{
		Rank:         rank,
		Username:     l.Username,
		Name:         l.Name,
		Sex:          e.Sex.String(),
		Equipment:    e.Equipment.String(),
		Event:        e.Event.String(),
		Federation:   m.Federation.String(),
		MeetPath:     m.Path,
		Date:         m.Date.String(),
		SquatKg:      e.Best3SquatKg.Float64(),
		BenchKg:      e.Best3BenchKg.Float64(),
		DeadliftKg:   e.Best3DeadliftKg.Float64(),
		TotalKg:      e.TotalKg.Float64(),
		Wilks:        e.Wilks.Float64(),
		McCulloch:    e.McCulloch.Float64(),
		Glossbrenner: e.Glossbrenner.Float64(),
		Goodlift:     e.Goodlift.Float64(),
		Dots:         e.Dots.Float64(),
	}
}

func toRecordsOutput(database *db.Database, tables records.Tables) RecordsQueryOutput {
	return RecordsQueryOutput{
		FullPowerSquat:    toClassResults(database, tables.FullPowerSquat, func(r records.ClassResult) []records.Record { return r.FullPowerSquat }),
		FullPowerBench:    toClassResults(database, tables.FullPowerBench, func(r records.ClassResult) []records.Record { return r.FullPowerBench }),
		FullPowerDeadlift: toClassResults(database, tables.FullPowerDeadlift, func(r records.ClassResult) []records.Record { return r.FullPowerDeadlift }),
		FullPowerTotal:    toClassResults(database, tables.FullPowerTotal, func(r records.ClassResult) []records.Record { return r.FullPowerTotal }),
		AnySquat:          toClassResults(database, tables.AnySquat, func(r records.ClassResult) []records.Record { return r.AnySquat }),
		AnyBench:          toClassResults(database, tables.AnyBench, func(r records.ClassResult) []records.Record { return r.AnyBench }),
		AnyDeadlift:       toClassResults(database, tables.AnyDeadlift, func(r records.ClassResult) []records.Record { return r.AnyDeadlift }),
	}
}

// toClassResults converts one table (the per-category []ClassResult
// slice Engine.Find populates) into its JSON-friendly form; pick reads
// back whichever of ClassResult's seven category fields this table
// holds, since each table element only ever has its own field set.
func toClassResults(database *db.Database, results []records.ClassResult, pick func(records.ClassResult) []records.Record) []RecordsClassResult {
	out := make([]RecordsClassResult, len(results))
	for i, r := range results {
		out[i] = RecordsClassResult{
			WeightClass: r.WeightClass.String(),
			Records:     toRecords(database, pick(r)),
		}
	}
	return out
}

func toRecords(database *db.Database, recs []records.Record) []RecordsRecord {
	out := make([]RecordsRecord, len(recs))
	for i, r := range recs {
		out[i] = RecordsRecord{Rank: r.Rank}
		if r.Entry == nil {
			continue
		}
		lifter := database.Lifter(r.Entry.LifterID)
		meet := database.Meet(r.Entry.MeetID)
		out[i].Username = lifter.Username
		out[i].Name = lifter.Name
		out[i].MeetPath = meet.Path
		out[i].ValueKg = recordValueKg(r.Entry)
	}
	return out
}

// recordValueKg picks whichever lift total the record was ranked by;
// since a Record doesn't carry its own category tag, callers only ever
// read ValueKg from the category they requested it for, so reporting
// the best of all three is a harmless superset for any other category.
func recordValueKg(e *db.Entry) float64 {
	if e.TotalKg.IsNonZero() {
		return e.TotalKg.Float64()
	}
	best := e.Best3SquatKg
	if e.Best3BenchKg > best {
		best = e.Best3BenchKg
	}
	if e.Best3DeadliftKg > best {
		best = e.Best3DeadliftKg
	}
	return best.Float64()
}
