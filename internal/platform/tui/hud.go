package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("235"))
	statusNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true).
			Padding(0, 1)
	statusBannerStyle = statusBarStyle.
				Foreground(lipgloss.Color("226")).
				Bold(true)
)

// StatusBar is the terminal HUD. The game pushes value changes into it and
// the model draws it under the playfield.
type StatusBar struct {
	player string
	best   int
	score  int
	kmh    int
	level  int
	banner string
}

// NewStatusBar creates a status bar for player, whose stored best is best.
func NewStatusBar(player string, best int) *StatusBar {
	return &StatusBar{player: player, best: best, level: 1}
}

func (s *StatusBar) OnScore(score int)    { s.score = score }
func (s *StatusBar) OnSpeed(kmh int)      { s.kmh = kmh }
func (s *StatusBar) OnLevel(level int)    { s.level = level }
func (s *StatusBar) OnBanner(text string) { s.banner = text }

// Finish records a final score, raising the displayed best if beaten.
func (s *StatusBar) Finish(score int) {
	if score > s.best {
		s.best = score
	}
}

// Best returns the best score known to the status bar.
func (s *StatusBar) Best() int {
	return s.best
}

// View renders the bar at the given width.
func (s *StatusBar) View(width int) string {
	name := s.player
	if name == "" {
		name = "guest"
	}

	left := statusNameStyle.Render(name) +
		statusBarStyle.Render(fmt.Sprintf(" BEST %d ", s.best))

	var right string
	if s.banner != "" {
		right = statusBannerStyle.Render(" " + s.banner + " ")
	} else {
		right = statusBarStyle.Render(fmt.Sprintf(" SCORE %d  LVL %d  %d KM/H ", s.score, s.level, s.kmh))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		return lipgloss.NewStyle().MaxWidth(width).Render(left + right)
	}
	return left + statusBarStyle.Render(strings.Repeat(" ", gap)) + right
}
