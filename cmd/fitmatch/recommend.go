package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
	"github.com/denisok6893-rgb/fitmatch/internal/matching"
)

func newRecommendCommand(opts *globalOptions) *cobra.Command {
	var (
		goals    []string
		injuries []string
	)
	cmd := &cobra.Command{
		Use:   "recommend <exercise-id>",
		Short: "Recommend alternatives for an exercise",
		Example: `  fitmatch recommend 1 --goal flexibility --injury knee
  fitmatch recommend 4 --goal strength,muscle_building -o table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid exercise id %q", args[0])
			}

			catalog, closeCatalog, err := opts.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = closeCatalog() }()

			rec := matching.NewRecommender(catalog, matching.NewEngine(opts.loadRules(cmd.Context())))
			results, err := rec.Alternatives(cmd.Context(), id, goals, injuries)
			if errors.Is(err, matching.ErrExerciseNotFound) {
				fmt.Fprintf(cmd.ErrOrStderr(), "exercise %d not found\n", id)
				results = []domain.Recommendation{}
			} else if err != nil {
				return err
			}

			if opts.output == "table" {
				return printRecommendations(cmd, results)
			}
			if results == nil {
				results = []domain.Recommendation{}
			}
			return outputJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringSliceVarP(&goals, "goal", "g", nil, "Goal tags (repeatable or comma-separated)")
	cmd.Flags().StringSliceVarP(&injuries, "injury", "i", nil, "Injury tags (repeatable or comma-separated)")
	return cmd
}

func printRecommendations(cmd *cobra.Command, results []domain.Recommendation) error {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		_, err := fmt.Fprintln(out, "No alternative exercises found")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSCORE\tWHY")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d%%\t%s\n", r.ID, r.Name, r.Category, r.MatchScore, r.RecommendationReason)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Instructions:")
	for i, step := range results[0].Instructions {
		fmt.Fprintf(out, "  %d. %s\n", i+1, strings.TrimSpace(step))
	}
	return nil
}
