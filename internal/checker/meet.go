package checker

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/opltypes"
)

// requiredMeetHeaders is the fixed, order-sensitive header meet.csv
// must start with.
var requiredMeetHeaders = []string{"Federation", "Date", "MeetCountry", "MeetState", "MeetTown", "MeetName"}

// optionalMeetHeaders may follow the required headers, in any order
// amongst themselves but never interleaved with the required ones.
var optionalMeetHeaders = map[string]bool{"RuleSet": true}

// meetPathPattern is every character check_meetpath allows in a
// canonical MeetPath.
var meetPathPattern = regexp.MustCompile(`^[A-Za-z0-9/-]+$`)

// maxPlausibleMeetYear matches the upper bound the query engine's own
// year-token parser accepts (internal/query/parse.go): no meet.csv
// date past this point is a real result, only a parse/typo error.
const maxPlausibleMeetYear = 2100

// MeetPath derives a meet's canonical path from its directory, relative
// to the meet-data root. It's the directory-walk analogue of the Rust
// checker's file_to_meetpath.
func MeetPath(meetDataRoot, meetDir string) (string, bool) {
	rel, err := filepath.Rel(meetDataRoot, meetDir)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !meetPathPattern.MatchString(rel) {
		return "", false
	}
	return rel, true
}

// ParseMeetCSV reads and validates a single meet.csv. r must yield
// exactly one header row and one data row; meetPath is the meet's
// canonical MeetPath, already computed and checked by the caller
// (see MeetPath), and is only recorded on the Meet and in the Report.
func ParseMeetCSV(r io.Reader, meetPath string) (*db.Meet, *Report) {
	report := NewReport(meetPath + "/meet.csv")
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		report.Error(1, "could not read header row: %v", err)
		return nil, report
	}
	if !checkMeetHeaders(headers, report) {
		return nil, report
	}

	row, err := reader.Read()
	if err == io.EOF {
		report.Error(2, "meet.csv must have exactly one data row")
		return nil, report
	}
	if err != nil {
		report.Error(2, "could not read data row: %v", err)
		return nil, report
	}
	if extra, err := reader.Read(); err != io.EOF {
		_ = extra
		report.Error(3, "meet.csv must have exactly one data row")
		return nil, report
	}

	meet := &db.Meet{Path: meetPath, Sanctioned: true}

	fed, ok := opltypes.ParseFederation(row[0])
	if !ok {
		report.Error(2, "unknown federation %q", row[0])
	}
	meet.Federation = fed

	date, err := opltypes.ParseDate(row[1])
	if err != nil {
		report.Error(2, "invalid date %q: %v", row[1], err)
	} else if !date.IsValid() {
		report.Error(2, "date %q is not a valid calendar date", row[1])
	} else if date.Year() < 1945 {
		report.Error(2, "date %q is implausibly early", row[1])
	} else if now := time.Now(); date.Year() > maxPlausibleMeetYear ||
		date > opltypes.FromParts(uint32(now.Year()), uint32(now.Month()), uint32(now.Day())) {
		report.Error(2, "date %q is in the future", row[1])
	}
	meet.Date = date

	country, ok := opltypes.ParseCountry(row[2])
	if !ok {
		report.Error(2, "unknown country %q", row[2])
	}
	meet.Country = country

	if row[3] != "" {
		state, ok := opltypes.ParseState(country, row[3])
		if !ok {
			report.Error(2, "unknown state %q for country %q", row[3], row[2])
		}
		meet.State = state
	}

	meet.Town = row[4]

	if strings.TrimSpace(row[5]) == "" {
		report.Error(2, "MeetName must not be empty")
	}
	meet.Name = row[5]

	if len(headers) > len(requiredMeetHeaders) && len(row) > 6 {
		rs, err := opltypes.ParseRuleSet(row[6])
		if err != nil {
			report.Error(2, "invalid ruleset %q: %v", row[6], err)
		}
		meet.RuleSet = rs
	}

	if report.HasError() {
		return nil, report
	}
	return meet, report
}

func checkMeetHeaders(headers []string, report *Report) bool {
	minHeaders := len(requiredMeetHeaders)
	maxHeaders := minHeaders + len(optionalMeetHeaders)

	if len(headers) < minHeaders {
		report.Error(1, "there must be at least %d columns", minHeaders)
		return false
	}
	if len(headers) > maxHeaders {
		report.Error(1, "there can be at most %d columns", maxHeaders)
		return false
	}
	ok := true
	for i, want := range requiredMeetHeaders {
		if headers[i] != want {
			report.Error(1, "column %d must be %q, got %q", i, want, headers[i])
			ok = false
		}
	}
	for _, h := range headers[minHeaders:] {
		if !optionalMeetHeaders[h] {
			report.Error(1, "unknown optional column %q", h)
			ok = false
		}
	}
	return ok
}
