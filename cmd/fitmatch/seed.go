package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/fitmatch/internal/storage"
)

func newSeedCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "seed",
		Short:   "Load the JSON fixture into the catalog database",
		Example: `  fitmatch seed --driver sqlite3 --dsn fitmatch.db --exercises data/exercises.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dsn == "" {
				return fmt.Errorf("--dsn is required")
			}
			ctx := cmd.Context()

			items, err := storage.LoadExercisesFromFile(opts.exercisesPath)
			if err != nil {
				return err
			}
			store, err := storage.OpenSQL(opts.driver, opts.dsn)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := store.UpsertMany(ctx, items); err != nil {
				return err
			}
			n, err := store.CountExercises(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d exercises (%d in catalog)\n", len(items), n)
			return nil
		},
	}
}
