package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	focusedColor = lipgloss.Color("205")
	blurredColor = lipgloss.Color("240")
	focusedStyle = lipgloss.NewStyle().Foreground(focusedColor)
	blurredStyle = lipgloss.NewStyle().Foreground(blurredColor)
	helpStyle    = blurredStyle
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder())

	submitButtonStyle = buttonStyle.
				BorderForeground(focusedColor).
				Padding(0, 1)

	blurredButtonStyle = buttonStyle.
				BorderForeground(blurredColor).
				Padding(0, 1)
)

const (
	focusName = iota
	focusSubmit
)

// SetupModel asks for the name the leaderboard records.
type SetupModel struct {
	nameInput  textinput.Model
	focusIndex int
	problem    string
	width      int
	height     int
}

func NewInitialSetupModel(defaultName string, w, h int) SetupModel {
	ti := textinput.New()
	ti.Placeholder = "Your snake's name"
	ti.Focus()
	ti.CharLimit = 20
	ti.PromptStyle = focusedStyle
	ti.TextStyle = focusedStyle
	ti.SetValue(defaultName)
	ti.CursorEnd()

	return SetupModel{
		nameInput: ti,
		width:     w,
		height:    h,
	}
}

// Init sends a command to start the cursor blinking
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		case "enter":
			if m.focusIndex == focusName {
				m.toggleFocus()
				return m, nil
			}
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				m.problem = "A name is required."
				m.focusIndex = focusName
				m.nameInput.Focus()
				return m, nil
			}
			return m, func() tea.Msg { return SetupSubmitMsg{Name: name} }
		}

		if m.focusIndex == focusName {
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			m.problem = ""
			return m, cmd
		}
	}

	return m, nil
}

func (m *SetupModel) toggleFocus() {
	if m.focusIndex == focusName {
		m.focusIndex = focusSubmit
		m.nameInput.Blur()
		return
	}
	m.focusIndex = focusName
	m.nameInput.Focus()
}

func (m SetupModel) View() string {
	center := func(s string) string {
		return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(s)
	}

	var b strings.Builder

	prompt := "Pick a name for the leaderboard"
	if m.focusIndex == focusName {
		b.WriteString(center(focusedStyle.Render(prompt)))
	} else {
		b.WriteString(center(blurredStyle.Render(prompt)))
	}
	b.WriteString("\n\n")
	b.WriteString(center(m.nameInput.View()))
	b.WriteString("\n")
	if m.problem != "" {
		b.WriteString(center(errorStyle.Render(m.problem)))
	}
	b.WriteString("\n\n")

	if m.focusIndex == focusSubmit {
		b.WriteString(center(submitButtonStyle.Render("Play")))
	} else {
		b.WriteString(center(blurredButtonStyle.Render("Play")))
	}
	b.WriteString("\n\n")

	b.WriteString(center(helpStyle.Render("(tab/shift+tab to navigate, enter to confirm, ctrl+c to quit)")))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
