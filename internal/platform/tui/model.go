package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
	"github.com/vovakirdan/neon-runner/internal/games/runner"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

// lookupTimeout bounds the best-score query made when a game screen opens.
const lookupTimeout = 2 * time.Second

// GameOptions carries what a game screen needs besides the runtime config.
type GameOptions struct {
	Tuning config.RunnerConfig
	Store  *storage.Store // Nil disables score reporting
	Logger *log.Logger
	Bell   io.Writer // Where the audio bell is written; nil for silence

	// Started, if set, is called with every game a screen creates.
	Started func(*runner.Game)
}

// Model is the Bubble Tea model for one runner game screen.
type Model struct {
	game      *runner.Game
	screen    *core.Screen
	status    *StatusBar
	clock     *core.FrameClock
	keyMapper *KeyMapper
	help      help.Model
	config    core.RuntimeConfig
	fixedSeed bool
	input     core.InputFrame
	state     core.GameState
	ticking   bool
	quitting  bool
	back      bool
}

// NewModel creates a game screen on the title card. A zero seed picks a new
// time based seed for every session.
func NewModel(opts GameOptions, cfg core.RuntimeConfig) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	status := NewStatusBar(cfg.Player, bestScore(opts.Store, cfg.Player))
	ro := []runner.Option{
		runner.WithHUD(status),
		runner.WithAudio(NewTerminalAudio(opts.Bell, opts.Logger)),
		runner.WithLogger(opts.Logger),
	}
	// A nil *Store must not become a non-nil interface
	if opts.Store != nil {
		ro = append(ro, runner.WithReporter(opts.Store))
	}

	m := Model{
		game:      runner.New(opts.Tuning, ro...),
		screen:    core.NewScreen(cfg.ScreenW, playfieldHeight(cfg.ScreenH)),
		status:    status,
		clock:     &core.FrameClock{},
		keyMapper: NewKeyMapper(),
		help:      help.New(),
		config:    cfg,
		fixedSeed: cfg.Seed != 0,
		input:     core.NewInputFrame(),
	}
	m.help.Width = cfg.ScreenW
	if opts.Started != nil {
		opts.Started(m.game)
	}
	m.reseed()
	m.game.Reset(m.config)
	m.state = m.game.State()
	return m
}

func bestScore(store *storage.Store, player string) int {
	if store == nil || player == "" {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	p, err := store.Player(ctx, player)
	if err != nil || p == nil {
		return 0
	}
	return p.BestScore
}

// playfieldHeight leaves the last row for the status bar.
func playfieldHeight(h int) int {
	return core.Max(h-1, 0)
}

// Init initializes the model. The title card needs no ticks.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.apply(m.keyMapper.MapMouse(msg, m.screen.Width()))

	case tea.WindowSizeMsg:
		// The session keeps running; only the drawing surface changes
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playfieldHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action, quit := m.keyMapper.MapKey(msg)
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m.apply(action)
}

// apply routes a semantic action: lane intents are buffered for the next
// tick, lifecycle actions take effect immediately.
func (m Model) apply(action core.Action) (tea.Model, tea.Cmd) {
	switch action {
	case core.ActionLaneLeft, core.ActionLaneRight:
		if m.state.Active {
			m.input.Set(action)
		}

	case core.ActionStart:
		if m.state.Active {
			return m, nil
		}
		m.reseed()
		m.game.Reset(m.config)
		m.game.Start()
		return m.begin()

	case core.ActionRestart:
		if !m.state.GameOver() {
			return m, nil
		}
		m.reseed()
		m.game.Reset(m.config)
		m.game.Restart()
		return m.begin()

	case core.ActionBack:
		if m.state.Active {
			return m, nil
		}
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

// reseed picks a fresh seed for the next session unless one was pinned.
func (m *Model) reseed() {
	if !m.fixedSeed {
		m.config.Seed = time.Now().UnixNano()
	}
}

// begin arms the frame clock and starts the tick chain if it is not
// already running.
func (m Model) begin() (tea.Model, tea.Cmd) {
	m.state = m.game.State()
	m.input.Clear()
	m.clock.Arm()
	if m.ticking {
		return m, nil
	}
	m.ticking = true
	return m, tickCmd(m.config.FrameInterval())
}

// handleTick processes simulation ticks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.state.Active {
		m.ticking = false
		return m, nil
	}

	delta := m.clock.Tick(now)
	result := m.game.Step(m.input, delta)
	m.input.Clear()
	m.state = result.State

	if result.Collided {
		m.status.Finish(result.State.FinalScore)
		m.ticking = false
		return m, nil
	}
	return m, tickCmd(m.config.FrameInterval())
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".neonrun", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	footer := m.status.View(m.config.ScreenW)
	if !m.state.Active {
		footer = m.help.View(m.keyMapper.Keys())
	}
	return RenderScreen(m.screen) + "\n" + footer
}

// State returns the last observed session state.
func (m Model) State() core.GameState {
	return m.state
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.back
}

// Close waits for pending score reports.
func (m Model) Close() {
	m.game.WaitReports()
}

// Run plays a single game screen without the menu.
func Run(opts GameOptions, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(opts, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.Close()
	}
	return err
}
