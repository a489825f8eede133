package checker

import (
	"encoding/csv"
	"io"
	"strings"
)

// LifterDatum is one row of the global lifter-data table: a canonical
// Name plus the pre-assigned Username and optional localized fields
// that a meet's entries.csv Name column resolves against.
type LifterDatum struct {
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

var lifterDataColumns = []string{"Name", "Username"}

// ParseLifterDataCSV reads one lifter-data/*.csv table. Its Username
// column is authoritative: it lets two lifters who'd otherwise collide
// on the same auto-generated base username (per opltypes.FromName) be
// pre-disambiguated. Rows are matched to entries by exact Name, so a
// Name spelled differently across meets resolves to separate identities.
func ParseLifterDataCSV(r io.Reader, path string) ([]LifterDatum, *Report) {
	report := NewReport(path)
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		report.Error(1, "could not read header row: %v", err)
		return nil, report
	}
	cols := make(columnSet, len(headers))
	for i, h := range headers {
		cols[h] = i
	}
	for _, want := range lifterDataColumns {
		if !cols.has(want) {
			report.Error(1, "missing required column %q", want)
			return nil, report
		}
	}

	var out []LifterDatum
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
		name := strings.TrimSpace(cols.get(row, "Name"))
		username := strings.TrimSpace(cols.get(row, "Username"))
		if name == "" || username == "" {
			report.Error(lineNo, "Name and Username must both be non-empty")
			continue
		}
		out = append(out, LifterDatum{
			Name:         name,
			Username:     username,
			ChineseName:  cols.get(row, "ChineseName"),
			CyrillicName: cols.get(row, "CyrillicName"),
			GreekName:    cols.get(row, "GreekName"),
			JapaneseName: cols.get(row, "JapaneseName"),
			KoreanName:   cols.get(row, "KoreanName"),
			Instagram:    cols.get(row, "Instagram"),
			Color:        cols.get(row, "Color"),
		})
	}
	return out, report
}
