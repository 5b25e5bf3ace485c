package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arcade-gym/internal/platform/tui"
	"github.com/vovakirdan/arcade-gym/internal/registry"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <env>",
	Short: "Play an environment",
	Long: `Play the specified environment in the terminal. Keys and mouse
events are translated to the same actions a training driver sends.

Controls:
  catcher   Arrows/WASD move, Space slow-motion power-up
  snake     Arrows/WASD turn
  aim       Move the mouse and click, or arrows + Space
  P         Pause
  R         Restart (after the episode ends)
  B/Esc     Back (when paused or finished)
  Ctrl+S    Screenshot to ~/.arcade/screenshots
  Q/Ctrl+C  Quit

Examples:
  arcade play catcher
  arcade play snake --mode length --fps 8
  arcade play aim --mode accuracy
  arcade play catcher --config ./my-catcher.yaml --seed 42`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	envID := args[0]
	requireEnv(envID)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Logging would draw over the alternate screen
	opts := envOptions(cmd, nil)
	render := true
	opts.Overrides.Render = &render

	env, err := registry.Create(envID, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating environment: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage
		store = nil
	}

	runErr := tui.Run(env, width, height, tui.Options{
		TickRate: flagFPS,
		Seed:     flagSeed,
		Store:    store,
		Theme:    theme(),
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running environment: %v\n", runErr)
		os.Exit(1)
	}
}
