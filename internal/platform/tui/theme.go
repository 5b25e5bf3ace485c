package tui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade-gym/internal/core"
)

// Theme contains the visual styles for the play screen and menus.
type Theme struct {
	// Playfield cell colors
	Cells map[core.Color]lipgloss.Style

	// Status line
	StatusValue lipgloss.Style
	StatusDim   lipgloss.Style

	// Menus
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style

	// Overlays
	OverlayTitle lipgloss.Style
}

// DefaultTheme returns the standard 16-color theme.
func DefaultTheme() Theme {
	return Theme{
		Cells: map[core.Color]lipgloss.Style{
			core.ColorDefault: lipgloss.NewStyle(),
			core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
			core.ColorOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
			core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},

		StatusValue: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		StatusDim:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		OverlayTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
	}
}

// MonochromeTheme returns a grayscale theme for terminals without color.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	gray := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	theme.Cells = map[core.Color]lipgloss.Style{
		core.ColorDefault: lipgloss.NewStyle(),
		core.ColorRed:     gray("255").Bold(true),
		core.ColorGreen:   gray("250"),
		core.ColorYellow:  gray("252"),
		core.ColorBlue:    gray("245"),
		core.ColorWhite:   gray("255"),
		core.ColorOrange:  gray("248"),
		core.ColorGray:    gray("240"),
	}
	theme.MenuTitle = gray("255").Bold(true)
	theme.MenuItemActive = gray("255").Bold(true).Underline(true)
	theme.OverlayTitle = gray("255").Bold(true)
	return theme
}

var themes = map[string]func() Theme{
	"default":    DefaultTheme,
	"monochrome": MonochromeTheme,
}

// ThemeByName looks up a theme. Unknown names report false.
func ThemeByName(name string) (Theme, bool) {
	f, ok := themes[name]
	if !ok {
		return DefaultTheme(), false
	}
	return f(), true
}

// ThemeNames lists the available themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
