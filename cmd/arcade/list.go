package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-gym/internal/config"
	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available environments",
	Long:  `Shows every registered environment with its action and observation spaces and reward modes.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, _ []string) {
	envs := registry.List()

	if len(envs) == 0 {
		fmt.Println("No environments available.")
		return
	}

	fmt.Println("Available environments:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, e := range envs {
		maxIDLen = max(maxIDLen, len(e.ID))
	}

	fmt.Printf("  %-*s  %-14s  %-16s  %-4s  %s\n", maxIDLen, "ID", "Title", "Actions", "Obs", "Modes")
	fmt.Printf("  %-*s  %-14s  %-16s  %-4s  %s\n", maxIDLen, "--", "-----", "-------", "---", "-----")

	opts := envOptions(cmd, nil)
	for _, e := range envs {
		actions, obs := "?", "?"
		if env, err := registry.Create(e.ID, opts); err == nil {
			actions, obs = describeSpace(env.Spec()), fmt.Sprintf("%d", env.Spec().ObservationSize)
			//nolint:errcheck // Probe instance only
			env.Close()
		}
		fmt.Printf("  %-*s  %-14s  %-16s  %-4s  %s\n", maxIDLen, e.ID, e.Title, actions, obs,
			strings.Join(config.RewardModes(e.ID), ", "))
	}

	fmt.Println()
	fmt.Println("Run 'arcade play <id>' to play, or 'arcade eval <id>' to evaluate a policy.")
}

func describeSpace(s core.Spec) string {
	if s.ActionKind == core.ActionContinuous {
		return fmt.Sprintf("continuous(%d)", s.ActionDims)
	}
	return fmt.Sprintf("discrete(%d)", s.ActionCount)
}
