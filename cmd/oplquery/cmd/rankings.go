package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openlifting/oplengine/internal/query"
)

func newRankingsCmd() *cobra.Command {
	var (
		start      int
		end        int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "rankings <path-query>",
		Short: "Print a paginated rankings slice",
		Long: `rankings parses <path-query> as the same slash-delimited selector the
website URL grammar accepts (e.g. "raw/men/by-wilks"), executes it against
the loaded database, and prints rows [start, end] (default: the first 10
rows) as a table, or as JSON with --json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runRankings(cmd, path, start, end, jsonOutput)
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "Zero-based index of the first row to return")
	cmd.Flags().IntVar(&end, "end", 9, "Zero-based index of the last row to return")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print rows as JSON instead of a table")
	return cmd
}

func runRankings(cmd *cobra.Command, path string, start, end int, jsonOutput bool) error {
	eng, err := loadEngine(cmd)
	if err != nil {
		return err
	}

	q, err := query.ParseRankingsQuery(path, query.DefaultRankingsQuery())
	if err != nil {
		return fmt.Errorf("parsing rankings query %q: %w", path, err)
	}

	queries := query.NewEngine(eng.Database, eng.LogLin, eng.Constant, eng.MetaFeds)
	rows := queries.Execute(q)

	result, err := query.GetSlice(rows, start, end)
	if err != nil {
		return fmt.Errorf("paginating rankings: %w", err)
	}

	entries := eng.Database.Entries()
	meets := eng.Database.Meets()
	lifters := eng.Database.Lifters()

	type row struct {
		Rank       int     `json:"rank"`
		Username   string  `json:"username"`
		Name       string  `json:"name"`
		Federation string  `json:"federation"`
		Date       string  `json:"date"`
		Equipment  string  `json:"equipment"`
		TotalKg    float64 `json:"total_kg"`
		Wilks      float64 `json:"wilks"`
	}
	out := make([]row, len(result.Rows))
	for i, id := range result.Rows {
		e := &entries[id]
		m := &meets[e.MeetID]
		l := &lifters[e.LifterID]
		out[i] = row{
			Rank:       start + i + 1,
			Username:   l.Username,
			Name:       l.Name,
			Federation: m.Federation.String(),
			Date:       m.Date.String(),
			Equipment:  e.Equipment.String(),
			TotalKg:    e.TotalKg.Float64(),
			Wilks:      e.Wilks.Float64(),
		}
	}

	if jsonOutput {
		payload := struct {
			TotalLength int    `json:"total_length"`
			Rows        []row  `json:"rows"`
			Query       string `json:"query"`
		}{TotalLength: result.TotalLength, Rows: out, Query: path}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d total row(s) match %q\n", result.TotalLength, path)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tUSERNAME\tNAME\tFEDERATION\tDATE\tEQUIPMENT\tTOTAL KG\tWILKS")
	for _, r := range out {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%.2f\t%.2f\n",
			r.Rank, r.Username, r.Name, r.Federation, r.Date, r.Equipment, r.TotalKg, r.Wilks)
	}
	return tw.Flush()
}
