package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
)

func newExercisesCommand(opts *globalOptions) *cobra.Command {
	var (
		category string
		query    string
		limit    int
		offset   int
	)
	cmd := &cobra.Command{
		Use:   "exercises",
		Short: "List catalog exercises",
		Example: `  fitmatch exercises --category strength
  fitmatch exercises --query hamstrings -o table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, closeCatalog, err := opts.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = closeCatalog() }()

			items, total, err := catalog.FindExercises(cmd.Context(), domain.ExerciseFilter{
				Category: category,
				Query:    query,
				Limit:    limit,
				Offset:   offset,
			})
			if err != nil {
				return err
			}
			if items == nil {
				items = []domain.Exercise{}
			}

			if opts.output != "table" {
				return outputJSON(cmd.OutOrStdout(), map[string]any{"total": total, "items": items})
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tMUSCLES")
			for _, e := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Name, e.Category, strings.Join(e.TargetMuscles, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category (exact, case-insensitive)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search name, category and muscles")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of exercises (0: all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of exercises to skip")
	return cmd
}
