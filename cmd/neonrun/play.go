package main

import (
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/neon-runner/internal/core"
	"github.com/vovakirdan/neon-runner/internal/platform/tui"
)

var flagDirect bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Race in this terminal",
	Long: `Open the title menu and race in this terminal.

Controls:
  Left/A/H, Right/D/L - Change lane (mouse clicks and drags work too)
  Enter/Space         - Start
  R                   - Restart (after game over)
  Esc/B               - Back to menu
  Ctrl+S              - Screenshot to ~/.neonrun/screenshots
  Q/Ctrl+C            - Quit

Difficulty options:
  easy   - Slower start, fewer cars
  normal - Reference tuning
  hard   - Faster start, denser traffic
  fixed  - Speed never increases

Examples:
  neonrun play
  neonrun play --direct --seed 42
  neonrun play --difficulty hard --player neo`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagDirect, "direct", false, "Skip the menu and go straight to the track")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger := newLogger("neonrun")

	tuning, err := loadTuning()
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Player:   playerName(logger),
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	// The alternate screen owns the terminal from here on
	defer logToFile(logger, defaultLogPath())()

	opts := tui.GameOptions{
		Tuning: tuning,
		Store:  store,
		Logger: logger,
		Bell:   os.Stdout,
	}

	if flagDirect {
		return tui.Run(opts, cfg)
	}
	return tui.RunSession(opts, cfg)
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".neonrun", "neonrun.log")
}

// logToFile sends logger output to path until the returned func is called.
// Output is discarded when the file cannot be opened.
func logToFile(logger *log.Logger, path string) func() {
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() {}
	}
	//nolint:errcheck // LogToFile reports the failure below
	os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := tea.LogToFile(path, "")
	if err != nil {
		logger.SetOutput(io.Discard)
		return func() {}
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		f.Close()
	}
}
