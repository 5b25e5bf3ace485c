package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arcade-gym/internal/platform/tui"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with an environment picker menu",
	Long: `Start the arcade in interactive menu mode.

Pick an environment, then a reward mode. After an episode you can restart
or go back to the menu. Tab opens the scoreboard.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scoreboard
  Q            - Quit

Examples:
  arcade menu
  arcade menu --theme monochrome
  arcade menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	// Logging would draw over the alternate screen
	logger := log.New(io.Discard)
	cfg := tui.SessionConfig{
		Width:    width,
		Height:   height,
		Env:      envOptions(cmd, nil),
		TickRate: flagFPS,
		Theme:    theme(),
	}
	// The mode picker owns the reward mode
	cfg.Env.Overrides.RewardMode = ""

	runErr := tui.RunSession(store, cfg, logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
