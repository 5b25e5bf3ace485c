package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-gym/internal/core"
	"github.com/vovakirdan/arcade-gym/internal/registry"
	"github.com/vovakirdan/arcade-gym/internal/storage"
)

// SessionConfig configures an interactive session.
type SessionConfig struct {
	Width, Height int

	// Env is the base for every environment created in the session.
	// Rendering is always switched on.
	Env registry.Options

	TickRate int
	Theme    Theme
}

type sessionView int

const (
	viewMenu sessionView = iota
	viewMode
	viewPlay
	viewScores
)

// SessionModel manages the full session flow:
// menu -> reward mode -> play -> menu, with the scoreboard reachable from the menu.
type SessionModel struct {
	store    *storage.Store
	cfg      SessionConfig
	username string
	logger   *log.Logger

	view     sessionView
	menu     MenuModel
	mode     ModeModel
	scores   ScoreboardModel
	play     Model
	env      core.Env
	envInfo  registry.EnvInfo
	lastErr  string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg SessionConfig, username string, logger *log.Logger) SessionModel {
	if cfg.Theme.Cells == nil {
		cfg.Theme = DefaultTheme()
	}
	if logger == nil {
		logger = log.Default()
	}
	return SessionModel{
		store:    store,
		cfg:      cfg,
		username: username,
		logger:   logger,
		menu:     NewMenuModel(cfg.Width, cfg.Height, cfg.Theme),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active view. Sub-models only ask to quit
// when the user quits entirely.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Width = wsm.Width
		m.cfg.Height = wsm.Height
	}

	switch m.view {
	case viewMode:
		return m.updateMode(msg)
	case viewPlay:
		return m.updatePlay(msg)
	case viewScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.store, m.cfg.Width, m.cfg.Height, m.cfg.Theme)
		m.view = viewScores
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		m.envInfo = *m.menu.Selected()
		m.mode = NewModeModel(m.envInfo.ID, m.envInfo.Title, m.cfg.Width, m.cfg.Height, m.cfg.Theme)
		m.view = viewMode
		return m, m.mode.Init()
	}

	return m, cmd
}

func (m SessionModel) updateMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.mode.Update(msg)
	m.mode = next.(ModeModel)

	switch {
	case m.mode.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.mode.WantsBack():
		return m.backToMenu()

	case m.mode.Selected() != "":
		return m.startPlay(m.mode.Selected())
	}

	return m, cmd
}

// startPlay creates a fresh environment for the chosen reward mode.
func (m SessionModel) startPlay(rewardMode string) (tea.Model, tea.Cmd) {
	opts := m.cfg.Env
	opts.Overrides.RewardMode = rewardMode
	render := true
	opts.Overrides.Render = &render

	env, err := registry.Create(m.envInfo.ID, opts)
	if err != nil {
		m.logger.Error("cannot create environment", "env", m.envInfo.ID, "user", m.username, "error", err)
		m.lastErr = err.Error()
		return m.backToMenu()
	}

	var seed int64
	if opts.Overrides.Seed != nil {
		seed = *opts.Overrides.Seed
	}
	play, err := NewModel(env, m.cfg.Width, m.cfg.Height, Options{
		TickRate: m.cfg.TickRate,
		Seed:     seed,
		Store:    m.store,
		Theme:    m.cfg.Theme,
	})
	if err != nil {
		//nolint:errcheck // Closing a failed env is best-effort
		env.Close()
		m.lastErr = err.Error()
		return m.backToMenu()
	}

	m.logger.Info("episode started", "env", env.ID(), "mode", rewardMode, "user", m.username)
	m.env = env
	m.play = play
	m.lastErr = ""
	m.view = viewPlay
	return m, m.play.Init()
}

func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.play.Update(msg)
	m.play = next.(Model)

	switch {
	case m.play.IsQuitting():
		m.closeEnv()
		m.quitting = true
		return m, tea.Quit

	case m.play.BackToMenu():
		m.closeEnv()
		return m.backToMenu()
	}

	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		return m.backToMenu()
	}

	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.cfg.Width, m.cfg.Height, m.cfg.Theme)
	m.view = viewMenu
	return m, m.menu.Init()
}

func (m *SessionModel) closeEnv() {
	if m.env == nil {
		return
	}
	info := m.play.Info()
	m.logger.Info("episode closed", "env", m.env.ID(), "user", m.username, "steps", info.Step, "score", info.Score)
	//nolint:errcheck // Close only releases rendering state
	m.env.Close()
	m.env = nil
}

// View renders the active view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewMode:
		return m.mode.View()
	case viewPlay:
		return m.play.View()
	case viewScores:
		return m.scores.View()
	}

	v := m.menu.View()
	if m.lastErr != "" {
		v += "\n" + centerText(m.cfg.Theme.OverlayTitle.Render(m.lastErr), m.cfg.Width)
	}
	return v
}

// RunSession runs the interactive menu in the local terminal.
func RunSession(store *storage.Store, cfg SessionConfig, logger *log.Logger) error {
	p := tea.NewProgram(
		NewSessionModel(store, cfg, "local", logger),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := p.Run()
	return err
}
