package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-gym/internal/config"
)

// ModeModel lets users choose the reward mode for an environment.
// The first entry is the environment's default mode.
type ModeModel struct {
	envID     string
	title     string
	modes     []string
	cursor    int
	width     int
	height    int
	theme     Theme
	keyMapper *KeyMapper
	selected  string
	quitting  bool
	back      bool
}

// NewModeModel creates a reward mode picker for envID.
func NewModeModel(envID, title string, width, height int, theme Theme) ModeModel {
	return ModeModel{
		envID:     envID,
		title:     title,
		modes:     config.RewardModes(envID),
		width:     width,
		height:    height,
		theme:     theme,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m ModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m ModeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.modes)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		if len(m.modes) > 0 {
			m.selected = m.modes[m.cursor]
		}
	case MenuActionBack:
		m.back = true
	}

	return m, nil
}

// View renders the mode selection.
func (m ModeModel) View() string {
	if m.quitting {
		return ""
	}

	t := m.theme
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(t.MenuTitle.Render(strings.ToUpper(m.title)), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(t.MenuDescription.Render("Select reward mode:"), m.width))
	b.WriteString("\n\n")

	for i, mode := range m.modes {
		label := mode
		if i == 0 {
			label += " (default)"
		}
		line := "  " + label
		style := t.MenuItemNormal
		if i == m.cursor {
			line = "> " + label
			style = t.MenuItemActive
		}
		b.WriteString(centerText(style.Render(line), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(t.MenuDescription.Render(fmt.Sprintf("%d modes  |  Enter: Select  |  Esc: Back  |  Q: Quit", len(m.modes))), m.width))

	return b.String()
}

// Selected returns the chosen mode, or "" while still choosing.
func (m ModeModel) Selected() string {
	return m.selected
}

// IsQuitting returns true if user wants to quit.
func (m ModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m ModeModel) WantsBack() bool {
	return m.back
}
