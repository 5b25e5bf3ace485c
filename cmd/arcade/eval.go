package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/eval"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

var (
	flagEpisodes int
	flagWorkers  int
	flagPolicy   string
	flagSave     bool
	flagCSV      string
)

var evalCmd = &cobra.Command{
	Use:   "eval <env>",
	Short: "Evaluate a built-in policy",
	Long: `Run a policy for many episodes and report reward, score and
episode length statistics. Episode i is seeded with --seed + i, so a run
is reproducible regardless of the worker count.

Policies:
  random     - Uniform random actions (seeded)
  heuristic  - Hand-written policy reading only the observation

Examples:
  arcade eval snake
  arcade eval catcher --policy random --episodes 500 --workers 8
  arcade eval aim --mode accuracy --save
  arcade eval snake --csv episodes.csv --seed 1000`,
	Args: cobra.ExactArgs(1),
	Run:  runEval,
}

func init() {
	evalCmd.Flags().IntVar(&flagEpisodes, "episodes", 100, "Number of episodes")
	evalCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent environments (0 = GOMAXPROCS)")
	evalCmd.Flags().StringVar(&flagPolicy, "policy", eval.PolicyHeuristic, "Policy: "+strings.Join(eval.Policies(), ", "))
	evalCmd.Flags().BoolVar(&flagSave, "save", false, "Store the run in the database")
	evalCmd.Flags().StringVar(&flagCSV, "csv", "", "Write per-episode results to a CSV file")
}

func runEval(cmd *cobra.Command, args []string) {
	envID := args[0]
	requireEnv(envID)

	logger := newLogger("eval")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := eval.Run(ctx, eval.Config{
		EnvID:    envID,
		Policy:   flagPolicy,
		Episodes: flagEpisodes,
		Workers:  flagWorkers,
		BaseSeed: flagSeed,
		Env:      envOptions(cmd, logger),
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report.Print(os.Stdout, eval.ActionNames(envID))

	if flagCSV != "" {
		if err := writeCSV(flagCSV, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("episodes written", "path", flagCSV)
	}

	if flagSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := eval.Save(store, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("run saved", "run", report.RunID, "db", flagDBPath)
	}
}

func writeCSV(path string, r *eval.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := eval.WriteCSV(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
