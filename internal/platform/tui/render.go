package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/neon-runner/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRoad:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorNeonCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
	core.ColorNeonMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("201")),
	core.ColorPlayer:      lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	core.ColorEnemy:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	core.ColorCity:        lipgloss.NewStyle().Foreground(lipgloss.Color("93")),
	core.ColorRain:        lipgloss.NewStyle().Foreground(lipgloss.Color("67")),
	core.ColorHUD:         lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	core.ColorBanner:      lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
	core.ColorAlert:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Uncolored runs skip the renderer entirely
			if startColor == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
