// Package tui is the manual play driver: a Bubble Tea front end that turns
// keys and mouse events into environment actions and draws the environment's
// screen buffer to the terminal, locally or over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-gym/internal/envs/snake"
)

// DefaultTickRate is used when no positive rate is configured.
const DefaultTickRate = 30

// TickRateFor returns the default play speed for an environment.
// The grid snake moves one cell per step.
func TickRateFor(envID string) int {
	if envID == snake.ID {
		return 10
	}
	return DefaultTickRate
}

// TickMsg is sent to trigger one environment step.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
