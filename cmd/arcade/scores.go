package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/registry"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

var (
	flagScoreLimit int
	flagEvals      bool
	flagRunID      string
	flagClear      bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [env]",
	Short: "Show high scores and evaluation runs",
	Long: `Without arguments, shows a summary for every environment.
With an environment, shows its top manual-play scores, or its recorded
evaluation runs with --evals.

Examples:
  arcade scores
  arcade scores catcher
  arcade scores snake --evals
  arcade scores --run 6f1c2d9e-...
  arcade scores aim --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoreLimit, "limit", 10, "Number of rows to show")
	scoresCmd.Flags().BoolVar(&flagEvals, "evals", false, "Show evaluation runs instead of scores")
	scoresCmd.Flags().StringVar(&flagRunID, "run", "", "Show one evaluation run with its episodes")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the manual-play scores of the environment")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagRunID != "" {
		exitOnErr(showRun(store, flagRunID))
		return
	}

	if len(args) == 0 {
		if flagEvals {
			exitOnErr(showEvalRuns(store, ""))
			return
		}
		exitOnErr(showSummary(store))
		return
	}

	envID := args[0]
	requireEnv(envID)

	switch {
	case flagClear:
		exitOnErr(store.ClearScores(envID))
		fmt.Printf("Scores for %s cleared.\n", envID)
	case flagEvals:
		exitOnErr(showEvalRuns(store, envID))
	default:
		exitOnErr(showTopScores(store, envID))
	}
}

func exitOnErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func envTitle(envID string) string {
	for _, e := range registry.List() {
		if e.ID == envID {
			return e.Title
		}
	}
	return envID
}

func showSummary(store *storage.Store) error {
	stats, err := store.AllEnvStats()
	if err != nil {
		return err
	}

	fmt.Printf("  %-10s  %-6s  %-6s  %-8s  %s\n", "Env", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-10s  %-6s  %-6s  %-8s  %s\n", "---", "-----", "----", "-------", "-----------")
	for _, e := range registry.List() {
		s, ok := stats[e.ID]
		if !ok {
			fmt.Printf("  %-10s  %-6d  %-6s  %-8s  %s\n", e.ID, 0, "-", "-", "never")
			continue
		}
		fmt.Printf("  %-10s  %-6d  %-6d  %-8.1f  %s\n", e.ID, s.GamesCount, s.HighScore, s.AvgScore,
			s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func showTopScores(store *storage.Store, envID string) error {
	scores, err := store.TopScores(envID, flagScoreLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", envTitle(envID))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arcade play %s' to set the first high score!\n", envID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(envID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func showEvalRuns(store *storage.Store, envID string) error {
	runs, err := store.RecentEvalRuns(envID, flagScoreLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No evaluation runs recorded. Use 'arcade eval <env> --save'.")
		return nil
	}

	fmt.Printf("  %-36s  %-8s  %-10s  %-10s  %-5s  %-16s  %-7s  %s\n",
		"Run", "Env", "Policy", "Mode", "Eps", "Reward", "Score", "Crash")
	for _, r := range runs {
		fmt.Printf("  %-36s  %-8s  %-10s  %-10s  %-5d  %7.2f ± %-6.2f  %-7.2f  %.1f%%\n",
			r.RunID, r.EnvID, r.Policy, r.RewardMode, r.Episodes,
			r.MeanReward, r.StdReward, r.MeanScore, r.CrashRate*100)
	}
	return nil
}

func showRun(store *storage.Store, runID string) error {
	run, err := store.EvalRunByID(runID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no evaluation run %q", runID)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (%s)\n", run.RunID, run.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Env: %s  Policy: %s  Mode: %s  Base seed: %d\n", run.EnvID, run.Policy, run.RewardMode, run.BaseSeed)
	fmt.Printf("Mean reward %.2f ± %.2f, mean score %.2f (best %d), mean steps %.1f\n",
		run.MeanReward, run.StdReward, run.MeanScore, run.MaxScore, run.MeanSteps)
	fmt.Printf("Crash rate %.1f%%, timeout rate %.1f%%\n", run.CrashRate*100, run.TimeoutRate*100)
	fmt.Println()

	episodes, err := store.EvalEpisodes(runID)
	if err != nil {
		return err
	}
	fmt.Printf("  %-10s  %-7s  %-9s  %-6s  %-6s  %s\n", "Seed", "Steps", "Reward", "Score", "Length", "End")
	for _, ep := range episodes {
		end := "terminated"
		if ep.Truncated {
			end = "truncated"
		}
		fmt.Printf("  %-10d  %-7d  %-9.2f  %-6d  %-6d  %s\n", ep.Seed, ep.Steps, ep.TotalReward, ep.Score, ep.Length, end)
	}
	return nil
}
