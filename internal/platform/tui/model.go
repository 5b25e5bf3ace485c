package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

// statusRows is the number of rows below the playfield used by the driver.
const statusRows = 1

// Options configure the manual driver.
type Options struct {
	// TickRate is the number of environment steps per second.
	// Zero uses the environment's default rate.
	TickRate int

	// Seed for the first episode. Zero uses the current time.
	Seed int64

	// Store receives one score per finished episode. May be nil.
	Store *storage.Store

	Theme Theme
}

// Model is the Bubble Tea model that lets a person play an environment.
// It drives the environment through the same Reset/Step contract as any
// training driver; key and mouse events go through a Translator.
type Model struct {
	env    core.Env
	input  Translator
	keys   *KeyMapper
	screen *core.Screen
	opts   Options

	info       core.Info
	lastReward float64
	err        error

	paused     bool
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether the score of the finished episode was stored
}

// NewModel creates a play model and resets the environment.
func NewModel(env core.Env, width, height int, opts Options) (Model, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.TickRate <= 0 {
		opts.TickRate = TickRateFor(env.ID())
	}
	if opts.Theme.Cells == nil {
		opts.Theme = DefaultTheme()
	}

	m := Model{
		env:    env,
		input:  NewTranslator(env.ID()),
		keys:   NewKeyMapper(),
		screen: core.NewScreen(width, max(height-statusRows, 1)),
		opts:   opts,
	}

	_, info, err := env.Reset(core.Seed(opts.Seed))
	if err != nil {
		return m, fmt.Errorf("tui: reset %s: %w", env.ID(), err)
	}
	m.info = info
	return m, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.paused {
			m.input.Mouse(msg, m.screen)
		}
		return m, nil

	case tea.WindowSizeMsg:
		// The simulation has its own coordinate system; only the view changes
		m.screen.Resize(msg.Width, max(msg.Height-statusRows, 1))
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done := m.env.Phase().Done()

	switch m.keys.MapControl(msg) {
	case ControlQuit:
		m.quitting = true
		return m, tea.Quit

	case ControlPause:
		if !done {
			m.paused = !m.paused
		}
		return m, nil

	case ControlRestart:
		if done {
			m.restart()
		}
		return m, nil

	case ControlBack:
		if done || m.paused {
			m.backToMenu = true
		}
		return m, nil

	case ControlScreenshot:
		m.saveScreenshot()
		return m, nil
	}

	if !m.paused && !done {
		m.input.Key(msg)
	}
	return m, nil
}

// restart begins a new episode, continuing the RNG stream.
func (m *Model) restart() {
	_, info, err := m.env.Reset(nil)
	if err != nil {
		m.err = err
		return
	}
	m.info = info
	m.lastReward = 0
	m.scoreSaved = false
	m.input.Reset()
}

// handleTick advances the environment by at most one step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	next := tickCmd(m.opts.TickRate)
	if m.paused || m.env.Phase() != core.PhaseRunning {
		return m, next
	}

	a, ok := m.input.Next()
	if !ok {
		return m, next
	}

	res, err := m.env.Step(a)
	if err != nil {
		m.err = err
		return m, next
	}
	m.info = res.Info
	m.lastReward = res.Reward

	if res.Done() && !m.scoreSaved {
		if m.opts.Store != nil && res.Info.Score > 0 {
			//nolint:errcheck // Best-effort save, play continues regardless
			m.opts.Store.SaveScore(m.env.ID(), res.Info.Score)
		}
		m.scoreSaved = true
	}

	return m, next
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.env.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.env.ID(), timestamp))
	//nolint:errcheck // Best-effort save, play continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the environment followed by a status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.env.Render(m.screen)
	return RenderScreen(m.screen, m.opts.Theme) + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	t := m.opts.Theme
	parts := []string{
		t.StatusValue.Render(fmt.Sprintf("step %d", m.info.Step)),
		t.StatusDim.Render(fmt.Sprintf("return %.2f (%+.2f)", m.info.Breakdown.Total(), m.lastReward)),
	}

	switch {
	case m.err != nil:
		parts = append(parts, t.OverlayTitle.Render(m.err.Error()))
	case m.env.Phase().Done():
		parts = append(parts,
			t.OverlayTitle.Render(strings.ToUpper(m.env.Phase().String())),
			t.StatusDim.Render("R: restart  B: menu  Q: quit"))
	case m.paused:
		parts = append(parts,
			t.OverlayTitle.Render("PAUSED"),
			t.StatusDim.Render("P: resume  B: menu  Q: quit"))
	default:
		parts = append(parts, t.StatusDim.Render(m.input.Help()+"  P: pause  Q: quit"))
	}

	return strings.Join(parts, "  ")
}

// Info returns the latest episode diagnostics.
func (m Model) Info() core.Info {
	return m.info
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays env in the terminal until the user quits or goes back.
func Run(env core.Env, width, height int, opts Options) error {
	model, err := NewModel(env, width, height, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		standalone{model},
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	_, err = p.Run()
	return err
}

// standalone ends the program when the play model asks for the menu.
type standalone struct {
	Model
}

func (s standalone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := s.Model.Update(msg)
	s.Model = next.(Model)
	if s.BackToMenu() {
		return s, tea.Quit
	}
	return s, cmd
}
