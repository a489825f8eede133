package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/records"
)

func newRecordsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "records <selection-path>",
		Short: "Print the seven records tables for a selection",
		Long: `records parses <selection-path> using the same slash-delimited grammar
as the MCP records_query tool (e.g. "raw/women/ipf-classes") and prints,
for each weight class in that schema, the top-3 entries per record
category.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runRecords(cmd, path, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the tables as JSON instead of text")
	return cmd
}

func runRecords(cmd *cobra.Command, path string, jsonOutput bool) error {
	eng, err := loadEngine(cmd)
	if err != nil {
		return err
	}

	sel, err := records.ParseSelection(path, records.DefaultSelection())
	if err != nil {
		return fmt.Errorf("parsing records selection %q: %w", path, err)
	}

	engine := records.NewEngine(eng.Database, eng.LogLin, eng.Constant, eng.MetaFeds)
	tables, err := engine.Find(sel)
	if err != nil {
		return fmt.Errorf("computing records: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tables)
	}

	families := []struct {
		name    string
		results []records.ClassResult
		pick    func(records.ClassResult) []records.Record
	}{
		{"Full Power Squat", tables.FullPowerSquat, func(r records.ClassResult) []records.Record { return r.FullPowerSquat }},
		{"Full Power Bench", tables.FullPowerBench, func(r records.ClassResult) []records.Record { return r.FullPowerBench }},
		{"Full Power Deadlift", tables.FullPowerDeadlift, func(r records.ClassResult) []records.Record { return r.FullPowerDeadlift }},
		{"Full Power Total", tables.FullPowerTotal, func(r records.ClassResult) []records.Record { return r.FullPowerTotal }},
		{"Any-Event Squat", tables.AnySquat, func(r records.ClassResult) []records.Record { return r.AnySquat }},
		{"Any-Event Bench", tables.AnyBench, func(r records.ClassResult) []records.Record { return r.AnyBench }},
		{"Any-Event Deadlift", tables.AnyDeadlift, func(r records.ClassResult) []records.Record { return r.AnyDeadlift }},
	}

	lifters := eng.Database.Lifters()
	meets := eng.Database.Meets()
	for _, fam := range families {
		fmt.Fprintf(cmd.OutOrStdout(), "=== %s ===\n", fam.name)
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
		fmt.Fprintln(tw, "CLASS\tRANK\tUSERNAME\tMEET\tKG")
		for _, class := range fam.results {
			for _, rec := range fam.pick(class) {
				if rec.Entry == nil {
					fmt.Fprintf(tw, "%s\t%d\t\t\t\n", class.WeightClass.String(), rec.Rank)
					continue
				}
				l := &lifters[rec.Entry.LifterID]
				m := &meets[rec.Entry.MeetID]
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.2f\n",
					class.WeightClass.String(), rec.Rank, l.Username, m.Path, recordValueKg(rec.Entry))
			}
		}
		tw.Flush()
	}
	return nil
}

// recordValueKg picks whichever lift total a record entry qualified
// under, mirroring internal/mcp/tools.go's toRecords formatting since
// a Record carries the winning Entry, not its own category tag.
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
