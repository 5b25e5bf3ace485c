package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/envs/aim"
	"github.com/vovakirdan/arcade-gym/internal/envs/catcher"
	"github.com/vovakirdan/arcade-gym/internal/envs/snake"
)

// Translator turns terminal input into the same action encoding a training
// driver sends to Step.
type Translator interface {
	// Key records a key press. It reports whether the key was used.
	Key(msg tea.KeyMsg) bool

	// Mouse records a mouse event on a screen of the given layout.
	Mouse(msg tea.MouseMsg, screen *core.Screen)

	// Next returns the action for the coming tick. False skips the tick.
	Next() (core.Action, bool)

	// Reset clears input state for a new episode.
	Reset()

	// Help is a one-line summary of the controls.
	Help() string
}

// NewTranslator returns the input translator for an environment.
func NewTranslator(envID string) Translator {
	switch envID {
	case catcher.ID:
		return &catcherInput{}
	case snake.ID:
		return &snakeInput{dir: core.DirRight}
	case aim.ID:
		return newAimInput()
	}
	return noInput{}
}

// catcherInput sends the last key of the tick, or Stay.
type catcherInput struct {
	pending int
	has     bool
}

func (c *catcherInput) Key(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "left", "a":
		c.pending = catcher.ActionLeft
	case "right", "d":
		c.pending = catcher.ActionRight
	case "up", "w":
		c.pending = catcher.ActionUp
	case "down", "s":
		c.pending = catcher.ActionDown
	case " ", "e":
		c.pending = catcher.ActionPowerUp
	default:
		return false
	}
	c.has = true
	return true
}

func (c *catcherInput) Mouse(tea.MouseMsg, *core.Screen) {}

func (c *catcherInput) Next() (core.Action, bool) {
	a := catcher.ActionStay
	if c.has {
		a = c.pending
	}
	c.has = false
	return core.Discrete(a), true
}

func (c *catcherInput) Reset() { c.has = false }

func (c *catcherInput) Help() string {
	return "Arrows/WASD: move  Space: slow-mo"
}

// snakeInput keeps sending the last requested heading.
type snakeInput struct {
	dir core.Direction
}

func (s *snakeInput) Key(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "w":
		s.dir = core.DirUp
	case "down", "s":
		s.dir = core.DirDown
	case "left", "a":
		s.dir = core.DirLeft
	case "right", "d":
		s.dir = core.DirRight
	default:
		return false
	}
	return true
}

func (s *snakeInput) Mouse(tea.MouseMsg, *core.Screen) {}

func (s *snakeInput) Next() (core.Action, bool) {
	return core.Discrete(int(s.dir)), true
}

func (s *snakeInput) Reset() { s.dir = core.DirRight }

func (s *snakeInput) Help() string {
	return "Arrows/WASD: turn"
}

// aimKeyStep is how far one arrow press moves the keyboard cursor.
const aimKeyStep = 0.02

// aimInput steps only when the player clicks. The cursor follows the mouse
// or the arrow keys.
type aimInput struct {
	x, y    float64 // Normalized playfield position
	clicked bool
}

func newAimInput() *aimInput {
	return &aimInput{x: 0.5, y: 0.5}
}

func (a *aimInput) Key(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "w":
		a.y -= aimKeyStep
	case "down", "s":
		a.y += aimKeyStep
	case "left", "a":
		a.x -= aimKeyStep
	case "right", "d":
		a.x += aimKeyStep
	case " ", "enter":
		a.clicked = true
	default:
		return false
	}
	a.x = core.ClampF(a.x, 0, 1)
	a.y = core.ClampF(a.y, 0, 1)
	return true
}

func (a *aimInput) Mouse(msg tea.MouseMsg, screen *core.Screen) {
	vp := core.NewViewport(screen, 1, 1, aim.HUDRows)
	if msg.Y < vp.OffsetY || msg.Y >= vp.OffsetY+vp.Rows {
		return
	}
	x, y := vp.Point(msg.X, msg.Y)
	a.x, a.y = core.ClampF(x, 0, 1), core.ClampF(y, 0, 1)

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		a.clicked = true
	}
}

func (a *aimInput) Next() (core.Action, bool) {
	if !a.clicked {
		return core.Action{}, false
	}
	a.clicked = false
	return core.Continuous(a.x, a.y), true
}

func (a *aimInput) Reset() {
	a.x, a.y, a.clicked = 0.5, 0.5, false
}

func (a *aimInput) Help() string {
	return "Mouse: aim + click  Arrows: aim  Space: click"
}

// noInput drives unknown environments with no-op ticks.
type noInput struct{}

func (noInput) Key(tea.KeyMsg) bool { return false }
func (noInput) Mouse(tea.MouseMsg, *core.Screen) {}
func (noInput) Next() (core.Action, bool) { return core.Discrete(-1), true }
func (noInput) Reset() {}
func (noInput) Help() string { return "" }
