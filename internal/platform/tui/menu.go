package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/neon-runner/internal/core"
)

// MenuChoice is what the player picked on the title menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceLeaderboard
	ChoiceQuit
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

var (
	menuTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("201")).
			Bold(true)
	menuCursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
	menuHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the title menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	player    string
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	choice    MenuChoice
}

// NewMenuModel creates a new menu model.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items: []MenuItem{
			{Choice: ChoicePlay, Title: "Play"},
			{Choice: ChoiceLeaderboard, Title: "Leaderboard"},
			{Choice: ChoiceQuit, Title: "Quit"},
		},
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		player:    cfg.Player,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.choice = ChoiceQuit
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		m.choice = m.items[m.cursor].Choice
		return m, tea.Quit

	case MenuActionScoreboard:
		m.choice = ChoiceLeaderboard
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.choice != ChoiceNone {
		return ""
	}

	var b strings.Builder

	top := (m.height - len(m.items) - 8) / 2
	b.WriteString(strings.Repeat("\n", core.Max(top, 1)))

	b.WriteString(centerText(menuTitleStyle.Render("N E O N   R U N N E R"), m.width))
	b.WriteString("\n\n")

	who := "racing as guest, scores are not saved"
	if m.player != "" {
		who = "racing as " + m.player
	}
	b.WriteString(centerText(menuHintStyle.Render(who), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title + "  "
		if i == m.cursor {
			line = menuCursorStyle.Render(fmt.Sprintf("> %s <", item.Title))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(menuHintStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Choice returns what the player picked, ChoiceNone while still choosing.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width, measuring styled text by its
// visible cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
