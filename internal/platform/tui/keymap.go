package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Control is a driver-level command that never reaches the environment.
type Control int

const (
	ControlNone Control = iota
	ControlQuit
	ControlPause
	ControlRestart
	ControlBack
	ControlScreenshot
)

// KeyMapper translates Bubble Tea key messages to driver controls and menu
// actions. Environment actions are produced by a Translator.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapControl returns the driver control bound to a key, or ControlNone.
func (km *KeyMapper) MapControl(msg tea.KeyMsg) Control {
	switch msg.String() {
	case "ctrl+c", "q":
		return ControlQuit
	case "p":
		return ControlPause
	case "r":
		return ControlRestart
	case "b", "esc":
		return ControlBack
	case "ctrl+s":
		return ControlScreenshot
	}
	return ControlNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
