package checker

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/intern"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// requiredEntryColumns must all be present in entries.csv, in any
// order.
var requiredEntryColumns = []string{"Name", "Sex", "Equipment", "Event", "Place", "TotalKg"}

// RawEntry is one validated entries.csv row, not yet assigned a
// LifterID or MeetID — those are filled in once every meet in a build
// has been parsed and the global lifter identity table is known. The
// BirthDate/BirthYear/AgeFact fields are the raw age evidence the Age
// Interpolator (§4.2) consumes; they aren't part of the canonical
// db.Entry, which only ever stores the single resolved Age.
type RawEntry struct {
	Name      string
	BirthDate opltypes.Date
	BirthYear uint32
	AgeFact   opltypes.Age
	Entry     db.Entry
}

// columnSet indexes entries.csv's order-independent header into column
// positions, so row parsing can look fields up by name instead of by
// position.
type columnSet map[string]int

func (c columnSet) has(name string) bool { _, ok := c[name]; return ok }

func (c columnSet) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// ParseEntriesCSV reads and validates entries.csv, returning every row
// that parsed and validated cleanly alongside a Report of every
// problem found (including problems on rows that were otherwise
// dropped). cfg may be nil, in which case division-age consistency
// isn't checked (entries.csv contracts still apply without a
// CONFIG.toml).
func ParseEntriesCSV(r io.Reader, meetPath string, cfg *Config, exemptFolder string, ruleset opltypes.RuleSet) ([]RawEntry, *Report) {
	report := NewReport(meetPath + "/entries.csv")
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		report.Error(1, "could not read header row: %v", err)
		return nil, report
	}

	cols, ok := checkEntryHeaders(headerRow, report)
	if !ok {
		return nil, report
	}

	var out []RawEntry
	lineNo := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			report.Error(lineNo, "could not read row: %v", err)
			continue
		}

		entry, ok := parseEntryRow(row, cols, lineNo, report, cfg, exemptFolder, ruleset)
		if ok {
			out = append(out, entry)
		}
	}
	return out, report
}

func checkEntryHeaders(headers []string, report *Report) (columnSet, bool) {
	cols := make(columnSet, len(headers))
	for i, h := range headers {
		if _, dup := cols[h]; dup {
			report.Error(1, "duplicate column %q", h)
			continue
		}
		cols[h] = i
	}

	ok := true
	for _, want := range requiredEntryColumns {
		if !cols.has(want) {
			report.Error(1, "missing required column %q", want)
			ok = false
		}
	}
	if !cols.has("WeightClassKg") && !cols.has("BodyweightKg") {
		report.Error(1, "must have either WeightClassKg or BodyweightKg")
		ok = false
	}
	if cols.has("Squat1Kg") && !cols.has("Best3SquatKg") {
		report.Error(1, "SquatNKg columns require Best3SquatKg")
		ok = false
	}
	if cols.has("Bench1Kg") && !cols.has("Best3BenchKg") {
		report.Error(1, "BenchNKg columns require Best3BenchKg")
		ok = false
	}
	if cols.has("Deadlift1Kg") && !cols.has("Best3DeadliftKg") {
		report.Error(1, "DeadliftNKg columns require Best3DeadliftKg")
		ok = false
	}
	return cols, ok
}

func parseEntryRow(row []string, cols columnSet, line int, report *Report, cfg *Config, exemptFolder string, ruleset opltypes.RuleSet) (RawEntry, bool) {
	startErrors := len(report.Messages)
	var e db.Entry

	name := strings.TrimSpace(cols.get(row, "Name"))
	if name == "" {
		report.Error(line, "Name must not be empty")
	}

	sex, err := opltypes.ParseSex(cols.get(row, "Sex"))
	if err != nil {
		report.Error(line, "%v", err)
	}
	e.Sex = sex

	equip, err := opltypes.ParseEquipment(cols.get(row, "Equipment"))
	if err != nil {
		report.Error(line, "%v", err)
	}
	e.Equipment = equip

	event, err := opltypes.ParseEvent(cols.get(row, "Event"))
	if err != nil {
		report.Error(line, "%v", err)
	}
	e.Event = event

	place, err := opltypes.ParsePlace(cols.get(row, "Place"))
	if err != nil {
		report.Error(line, "%v", err)
	}
	e.Place = place

	total, err := opltypes.ParseWeightKg(cols.get(row, "TotalKg"))
	if err != nil {
		report.Error(line, "invalid TotalKg: %v", err)
	}
	e.TotalKg = total

	if cols.has("BodyweightKg") {
		bw, err := opltypes.ParseWeightKg(cols.get(row, "BodyweightKg"))
		if err != nil {
			report.Error(line, "invalid BodyweightKg: %v", err)
		}
		e.BodyweightKg = bw
	}
	if cols.has("WeightClassKg") {
		wc, err := opltypes.ParseWeightClassKg(cols.get(row, "WeightClassKg"))
		if err != nil {
			report.Error(line, "invalid WeightClassKg: %v", err)
		}
		e.WeightClassKg = wc
	}

	if cols.has("Division") {
		e.Division = intern.Intern(cols.get(row, "Division"))
	}

	exempt := cfg != nil && exemptFolder != "" && cfg.IsExempt(exemptFolder, ExemptLiftOrder)
	fourthMayLower := ruleset.Contains(opltypes.RuleFourthAttemptsMayLower)

	parseLiftGroup(row, cols, line, report, "Squat", exempt, fourthMayLower,
		&e.Squat1Kg, &e.Squat2Kg, &e.Squat3Kg, &e.Squat4Kg, &e.Best3SquatKg)
	parseLiftGroup(row, cols, line, report, "Bench", exempt, fourthMayLower,
		&e.Bench1Kg, &e.Bench2Kg, &e.Bench3Kg, &e.Bench4Kg, &e.Best3BenchKg)
	parseLiftGroup(row, cols, line, report, "Deadlift", exempt, fourthMayLower,
		&e.Deadlift1Kg, &e.Deadlift2Kg, &e.Deadlift3Kg, &e.Deadlift4Kg, &e.Best3DeadliftKg)

	checkTotalConsistency(&e, line, report)
	checkWeightClassConsistency(&e, line, report, cfg != nil && exemptFolder != "" && cfg.IsExempt(exemptFolder, ExemptWeightClassConsistency))

	var birthDate opltypes.Date
	var birthYear uint32
	var ageFact opltypes.Age
	if cols.has("BirthDate") && cols.get(row, "BirthDate") != "" {
		if d, err := opltypes.ParseDate(cols.get(row, "BirthDate")); err == nil {
			birthDate = d
		} else {
			report.Error(line, "invalid BirthDate: %v", err)
		}
	}
	if cols.has("BirthYear") && cols.get(row, "BirthYear") != "" {
		if y, err := strconv.ParseUint(strings.TrimSpace(cols.get(row, "BirthYear")), 10, 32); err == nil {
			birthYear = uint32(y)
		} else {
			report.Error(line, "invalid BirthYear: %v", err)
		}
	}
	if cols.has("Age") && cols.get(row, "Age") != "" {
		if a, err := opltypes.ParseAge(cols.get(row, "Age")); err == nil {
			ageFact = a
			e.Age = a
		}
	}

	if cfg != nil {
		checkDivisionAge(e.Age, cols.get(row, "Division"), line, report, cfg, exemptFolder)
	}

	if cols.has("Tested") {
		e.Tested = strings.EqualFold(strings.TrimSpace(cols.get(row, "Tested")), "Yes")
	}

	return RawEntry{Name: name, BirthDate: birthDate, BirthYear: birthYear, AgeFact: ageFact, Entry: e}, len(report.Messages) == startErrors
}

// parseLiftGroup parses the four attempts and the computed Best3 value
// for one discipline, checking monotone-ascending attempts (attempts 1
// through 3; the 4th is a records-only attempt that's exempt from
// ordering against the 3rd unless fourthMayLower is also false, in
// which case it must still be ascending) and that Best3 is at least the
// maximum successful attempt among the first three.
func parseLiftGroup(row []string, cols columnSet, line int, report *Report, prefix string, exempt, fourthMayLower bool,
	a1, a2, a3, a4, best3 *opltypes.WeightKg) {
	names := [4]string{prefix + "1Kg", prefix + "2Kg", prefix + "3Kg", prefix + "4Kg"}
	attempts := [4]*opltypes.WeightKg{a1, a2, a3, a4}

	any := false
	for _, n := range names {
		if cols.has(n) {
			any = true
		}
	}
	if !any && !cols.has("Best3"+prefix+"Kg") {
		return
	}

	for i, n := range names {
		if !cols.has(n) {
			continue
		}
		w, err := opltypes.ParseWeightKg(row[cols[n]])
		if err != nil {
			report.Error(line, "invalid %s: %v", n, err)
			continue
		}
		*attempts[i] = w
	}

	if cols.has("Best3" + prefix + "Kg") {
		w, err := opltypes.ParseWeightKg(row[cols["Best3"+prefix+"Kg"]])
		if err != nil {
			report.Error(line, "invalid Best3%sKg: %v", prefix, err)
		}
		*best3 = w
	}

	if !exempt {
		checkAscending(*a1, *a2, prefix+"1Kg/"+prefix+"2Kg", line, report)
		checkAscending(*a2, *a3, prefix+"2Kg/"+prefix+"3Kg", line, report)
		if !fourthMayLower {
			checkAscending(*a3, *a4, prefix+"3Kg/"+prefix+"4Kg", line, report)
		}
	}

	maxSuccess := opltypes.WeightKg(0)
	for _, a := range [3]opltypes.WeightKg{*a1, *a2, *a3} {
		if a > maxSuccess {
			maxSuccess = a
		}
	}
	if *best3 != 0 && *best3 < maxSuccess {
		report.Error(line, "Best3%sKg (%s) is less than the best successful attempt (%s)", prefix, best3.SerializeKg(), maxSuccess.SerializeKg())
	}
}

// checkAscending enforces that if both attempts were taken (non-zero),
// the later one is not a smaller magnitude attempt than the earlier one
// — federations allow a lifter to repeat or raise their next attempt,
// never lower it, once a weight has been declared.
func checkAscending(prev, next opltypes.WeightKg, label string, line int, report *Report) {
	if prev == 0 || next == 0 {
		return
	}
	if next.Abs() < prev.Abs() {
		report.Error(line, "%s: attempts must be non-decreasing (%s then %s)", label, prev.SerializeKg(), next.SerializeKg())
	}
}

func checkTotalConsistency(e *db.Entry, line int, report *Report) {
	if e.Place.IsDQ() {
		if e.TotalKg != 0 {
			report.Error(line, "a disqualified entry must have TotalKg of zero")
		}
		return
	}
	if e.TotalKg == 0 {
		return
	}
	if e.Best3SquatKg == 0 && e.Best3BenchKg == 0 && e.Best3DeadliftKg == 0 {
		// No best-lift data was recorded, so there's nothing to sum.
		return
	}
	computed := e.Best3SquatKg.Abs() + e.Best3BenchKg.Abs() + e.Best3DeadliftKg.Abs()
	// Only disciplines the lifter actually contested count toward the
	// sum; a push-pull entry with no squat column has Best3SquatKg == 0
	// by construction, so no event-masking is needed here.
	if e.Best3SquatKg < 0 {
		computed -= e.Best3SquatKg.Abs()
	}
	if e.Best3BenchKg < 0 {
		computed -= e.Best3BenchKg.Abs()
	}
	if e.Best3DeadliftKg < 0 {
		computed -= e.Best3DeadliftKg.Abs()
	}
	if computed != e.TotalKg {
		report.Error(line, "TotalKg (%s) does not match the sum of best lifts (%s)", e.TotalKg.SerializeKg(), computed.SerializeKg())
	}
}

func checkWeightClassConsistency(e *db.Entry, line int, report *Report, exempt bool) {
	if exempt || e.WeightClassKg.Kind == opltypes.WeightClassNone || e.BodyweightKg == 0 {
		return
	}
	if !e.WeightClassKg.Matches(e.BodyweightKg) {
		report.Error(line, "bodyweight %s is inconsistent with weightclass %s", e.BodyweightKg.SerializeKg(), e.WeightClassKg.String())
	}
}

// checkDivisionAge validates that age (already parsed from the row's
// Age column, if present) is consistent with division's configured
// bounds. age is the zero Age (IsSome() == false) when the row carried
// no Age column or it failed to parse; that's not itself an error
// here, since Age is optional and the Interpolator may still recover
// it from BirthDate/BirthYear evidence elsewhere in the build.
func checkDivisionAge(age opltypes.Age, division string, line int, report *Report, cfg *Config, exemptFolder string) {
	if division == "" || cfg == nil {
		return
	}
	if exemptFolder != "" && cfg.IsExempt(exemptFolder, ExemptDivision) {
		return
	}
	d, ok := cfg.DivisionByName(division)
	if !ok {
		report.Error(line, "unknown division %q (add it to CONFIG.toml)", division)
		return
	}
	if !age.IsSome() {
		return
	}
	min, errMin := d.MinAge()
	max, errMax := d.MaxAge()
	if errMin != nil || errMax != nil {
		return
	}
	if age.IsDefinitelyLessThan(min) || age.IsDefinitelyGreaterThan(max) {
		report.Error(line, "age %s is inconsistent with division %q (%s-%s)", age.String(), division, min.String(), max.String())
	}
}
