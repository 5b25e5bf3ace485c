// arcade runs arcade-style reinforcement learning environments: play them in
// the terminal, evaluate policies against them, or serve them to remote
// training drivers.
//
// Usage:
//
//	arcade list              - List available environments
//	arcade play <env>        - Play an environment
//	arcade menu              - Interactive environment picker
//	arcade eval <env>        - Evaluate a built-in policy
//	arcade serve             - Start SSH server for remote play
//	arcade remote            - Serve environments over websocket
//	arcade scores [env]      - Show high scores and eval runs
//
// Global flags:
//
//	--fps <rate>        - Steps per second for manual play (0 = per env)
//	--seed <value>      - RNG seed (0 = random based on time)
//	--db <path>         - Database path (default: ~/.arcade/scores.db)
//	--config <path>     - Environment YAML config
//	--mode <name>       - Reward mode
//	--max-steps <n>     - Episode step budget
//	--log-level <lvl>   - debug, info, warn, error
//	--theme <name>      - default, monochrome
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/platform/tui"
	"github.com/vovakirdan/arcade-gym/internal/registry"

	// Import environments to register them
	_ "github.com/vovakirdan/arcade-gym/internal/envs/aim"
	_ "github.com/vovakirdan/arcade-gym/internal/envs/catcher"
	_ "github.com/vovakirdan/arcade-gym/internal/envs/snake"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagMode     string
	flagMaxSteps int
	flagLogLevel string
	flagTheme    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Arcade Gym - arcade environments for reinforcement learning",
	Long: `Arcade Gym provides small arcade games behind a reset/step
environment contract. The same environments can be played by hand in the
terminal, evaluated with built-in policies, or driven remotely.

Available commands:
  list     - Show all environments and their spaces
  play     - Play an environment directly
  menu     - Interactive environment picker
  eval     - Evaluate a policy over many seeded episodes
  serve    - Start SSH server for remote play
  remote   - Serve environments to training drivers over websocket
  scores   - View high scores and evaluation runs

Examples:
  arcade list
  arcade play catcher --mode collector
  arcade eval snake --episodes 200 --workers 8 --save
  arcade remote --addr :8765
  arcade scores aim --evals`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Steps per second for manual play (0 = per-environment default)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to environment config YAML")
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "", "Reward mode (see 'arcade list')")
	rootCmd.PersistentFlags().IntVar(&flagMaxSteps, "max-steps", 0, "Episode step budget (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "default", "Color theme: "+strings.Join(tui.ThemeNames(), ", "))

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds a component logger honoring --log-level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// envOptions collects the global environment flags.
func envOptions(cmd *cobra.Command, logger *log.Logger) registry.Options {
	opts := registry.Options{
		ConfigPath: flagConfig,
		Overrides:  config.Overrides{RewardMode: flagMode},
		Logger:     logger,
	}
	if cmd.Flags().Changed("max-steps") {
		steps := flagMaxSteps
		opts.Overrides.MaxSteps = &steps
	}
	if flagSeed != 0 {
		seed := flagSeed
		opts.Overrides.Seed = &seed
	}
	return opts
}

// theme resolves --theme, falling back to the default.
func theme() tui.Theme {
	t, ok := tui.ThemeByName(flagTheme)
	if !ok {
		fmt.Fprintf(os.Stderr, "Warning: unknown theme %q, using default\n", flagTheme)
	}
	return t
}

// requireEnv exits when envID is not registered.
func requireEnv(envID string) {
	if registry.Exists(envID) {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: unknown environment %q\n", envID)
	fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available environments.")
	os.Exit(1)
}
