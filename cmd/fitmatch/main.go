package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/fitmatch/internal/config"
	"github.com/denisok6893-rgb/fitmatch/internal/logging"
	"github.com/denisok6893-rgb/fitmatch/internal/matching"
	"github.com/denisok6893-rgb/fitmatch/internal/storage"
)

const version = "0.3.0"

// globalOptions are shared by every subcommand.
type globalOptions struct {
	exercisesPath string
	rulesPath     string
	driver        string
	dsn           string
	output        string
	logLevel      string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.Load()
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "fitmatch",
		Short: "fitmatch - exercise alternatives from goals and injury history",
		Long: `fitmatch scores a read-only exercise catalog against fitness goals and
injury history and prints the best alternatives for a given exercise.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(cmd.ErrOrStderr(), opts.logLevel, "text")
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.exercisesPath, "exercises", cfg.ExercisesPath, "Exercise catalog JSON fixture")
	flags.StringVar(&opts.rulesPath, "rules", cfg.RulesPath, "Goal/injury rules YAML file")
	flags.StringVar(&opts.driver, "driver", cfg.DBDriver, "Database driver: sqlite3, postgres")
	flags.StringVar(&opts.dsn, "dsn", cfg.DBDSN, "Database DSN (empty: use the JSON fixture)")
	flags.StringVarP(&opts.output, "output", "o", "json", "Output format: json, table")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newRecommendCommand(opts))
	rootCmd.AddCommand(newExercisesCommand(opts))
	rootCmd.AddCommand(newSeedCommand(opts))
	rootCmd.AddCommand(newRulesCommand(opts))
	return rootCmd
}

func (o *globalOptions) openCatalog(ctx context.Context) (storage.Catalog, func() error, error) {
	return storage.OpenCatalog(ctx, o.driver, o.dsn, o.exercisesPath)
}

// loadRules falls back to the built-in tables when the file cannot be used.
func (o *globalOptions) loadRules(ctx context.Context) matching.Rules {
	rules, err := matching.LoadRulesFromFile(o.rulesPath)
	if err != nil {
		slog.WarnContext(ctx, "use default rules", "path", o.rulesPath, "reason", err)
	}
	return rules
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
