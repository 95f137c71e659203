package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	introPlay = iota
	introLeaderboard
)

// IntroModel holds the state for the main menu.
type IntroModel struct {
	selected int
	width    int
	height   int
}

func NewIntroModel(w, h int) IntroModel {
	return IntroModel{selected: introPlay, width: w, height: h}
}

func (m IntroModel) Init() tea.Cmd { return nil }

func (m IntroModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "right", "tab", "h", "l":
			m.selected = 1 - m.selected
		case "enter":
			selected := m.selected
			return m, func() tea.Msg { return IntroSubmitMsg(selected) }
		}
	}
	return m, nil
}

var gridsnakeAscii = `
 ██████  ██████  ██ ██████  ███████ ███    ██  █████  ██   ██ ███████
██       ██   ██ ██ ██   ██ ██      ████   ██ ██   ██ ██  ██  ██
██   ███ ██████  ██ ██   ██ ███████ ██ ██  ██ ███████ █████   █████
██    ██ ██   ██ ██ ██   ██      ██ ██  ██ ██ ██   ██ ██  ██  ██
 ██████  ██   ██ ██ ██████  ███████ ██   ████ ██   ██ ██   ██ ███████
`

var (
	asciiStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	introButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("7")).
				Padding(0, 3).
				Margin(1, 2).
				Border(lipgloss.RoundedBorder())

	introSelectedButtonStyle = introButtonStyle.
					Background(lipgloss.Color("10")).
					Foreground(lipgloss.Color("0"))
)

func (m IntroModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(asciiStyle.Render(gridsnakeAscii))
	sb.WriteString("\n")

	play := introButtonStyle.Render("Play")
	board := introButtonStyle.Render("View Leaderboard")
	if m.selected == introPlay {
		play = introSelectedButtonStyle.Render("Play")
	} else {
		board = introSelectedButtonStyle.Render("View Leaderboard")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, play, board)
	content := lipgloss.JoinVertical(lipgloss.Center, sb.String(), buttons)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}
