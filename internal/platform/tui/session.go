package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/neon-runner/internal/core"
)

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenBoard
)

// SessionModel manages the full session flow: menu -> game or leaderboard ->
// menu. It is the top-level model for SSH sessions and local play.
type SessionModel struct {
	opts     GameOptions
	config   core.RuntimeConfig
	screen   sessionScreen
	menu     MenuModel
	game     *Model
	board    *ScoreboardModel
	quitting bool
}

// NewSessionModel creates a new session model. cfg.Player is the identity
// scores are reported under.
func NewSessionModel(opts GameOptions, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		opts:   opts,
		config: cfg,
		menu:   NewMenuModel(cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenBoard:
		return m.updateBoard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode. The menu quits its program
// when a choice is made; that command is swallowed here.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch m.menu.Choice() {
	case ChoiceQuit:
		m.quitting = true
		return m, tea.Quit

	case ChoicePlay:
		game := NewModel(m.opts, m.config)
		m.game = &game
		m.screen = screenGame
		return m, m.game.Init()

	case ChoiceLeaderboard:
		board := NewScoreboardModel(m.opts.Store, m.config.Player, m.config.ScreenW, m.config.ScreenH)
		m.board = &board
		m.screen = screenBoard
		return m, m.board.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.game.Close()
		m.game = nil
		return m.toMenu()
	}
	return m, cmd
}

// updateBoard handles updates when the leaderboard is open.
func (m SessionModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.board.Update(msg)
	if board, ok := newModel.(ScoreboardModel); ok {
		m.board = &board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		m.board = nil
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenBoard:
		return m.board.View()
	}
	return m.menu.View()
}

// Close waits for score reports of the game in progress, if any.
func (m SessionModel) Close() {
	if m.game != nil {
		m.game.Close()
	}
}

// RunSession runs the menu-driven session in the local terminal.
func RunSession(opts GameOptions, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(opts, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if m, ok := final.(SessionModel); ok {
		m.Close()
	}
	return err
}
