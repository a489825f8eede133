package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openlifting/oplengine/internal/db"
	"github.com/openlifting/oplengine/internal/liftermap"
)

func newFindCmd() *cobra.Command {
	var (
		limit int
		fuzzy bool
	)

	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Search the Name Search Index for a lifter",
		Long: `find looks up <name> against every lifter name field (Name, Username,
and the localized-name columns) using prefix matching by default, or
fuzzy matching with --fuzzy, and prints the matching lifters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, args[0], limit, fuzzy)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of matches to return")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Use fuzzy matching instead of prefix matching")
	return cmd
}

func runFind(cmd *cobra.Command, name string, limit int, fuzzy bool) error {
	eng, err := loadEngine(cmd)
	if err != nil {
		return err
	}

	index, err := liftermap.NewIndex(eng.Database)
	if err != nil {
		return fmt.Errorf("building name search index: %w", err)
	}
	defer index.Close()

	ctx := context.Background()
	var lifterIDs []db.LifterID
	if fuzzy {
		lifterIDs, err = index.FindFuzzy(ctx, name, limit)
		if err != nil {
			return fmt.Errorf("fuzzy search: %w", err)
		}
	} else {
		lifterIDs, err = index.FindByNamePrefix(ctx, name, limit)
		if err != nil {
			return fmt.Errorf("prefix search: %w", err)
		}
	}

	lifters := eng.Database.Lifters()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME\tINSTAGRAM")
	for _, id := range lifterIDs {
		l := &lifters[id]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Username, l.Name, l.Instagram)
	}
	return tw.Flush()
}
