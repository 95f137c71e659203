package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mshel/gridsnake/internal/leaderboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const leaderboardPageSize = 10

type ShowLeaderboardMsg struct{}

// CloseLeaderboardMsg asks the controller to go back to the previous screen.
type CloseLeaderboardMsg struct{}

type LeaderboardLoadedMsg struct {
	Page   int
	Scores []leaderboard.Score
	Total  int
	Err    error
}

var (
	leaderboardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				Align(lipgloss.Center)

	leaderboardRowStyle = lipgloss.NewStyle().
				Padding(0, 1)

	leaderboardBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("8"))

	highlightRowStyle = leaderboardRowStyle.Foreground(lipgloss.Color("10"))
)

// LeaderboardModel pages through the games finished since the process started.
type LeaderboardModel struct {
	ScreenWidth  int
	ScreenHeight int

	scores     *leaderboard.HighScoreService
	playerName string
	page       int
	total      int
	entries    []leaderboard.Score
	err        error
	loading    bool
}

func NewLeaderboardModel(scores *leaderboard.HighScoreService, playerName string, w, h int) LeaderboardModel {
	return LeaderboardModel{
		ScreenWidth:  w,
		ScreenHeight: h,
		scores:       scores,
		playerName:   playerName,
		loading:      true,
	}
}

func (m LeaderboardModel) Init() tea.Cmd {
	return m.load(0)
}

func (m LeaderboardModel) load(page int) tea.Cmd {
	scores := m.scores
	return func() tea.Msg {
		if scores == nil {
			return LeaderboardLoadedMsg{Page: page, Err: fmt.Errorf("leaderboard disabled")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), recordWait)
		defer cancel()

		entries, err := scores.GetHighScores(ctx, leaderboardPageSize, page*leaderboardPageSize)
		if err != nil {
			return LeaderboardLoadedMsg{Page: page, Err: err}
		}
		total, err := scores.GetTotalScoreCount(ctx)
		return LeaderboardLoadedMsg{Page: page, Scores: entries, Total: total, Err: err}
	}
}

func (m LeaderboardModel) lastPage() int {
	if m.total == 0 {
		return 0
	}
	return (m.total - 1) / leaderboardPageSize
}

func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height

	case LeaderboardLoadedMsg:
		m.loading = false
		m.err = msg.Err
		m.page = msg.Page
		m.entries = msg.Scores
		m.total = msg.Total

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "b":
			return m, func() tea.Msg { return CloseLeaderboardMsg{} }
		case "left", "h", "pgup":
			if m.page > 0 && !m.loading {
				m.loading = true
				return m, m.load(m.page - 1)
			}
		case "right", "l", "pgdown":
			if m.page < m.lastPage() && !m.loading {
				m.loading = true
				return m, m.load(m.page + 1)
			}
		}
	}
	return m, nil
}

func (m LeaderboardModel) View() string {
	var table strings.Builder

	const (
		rankWidth  = 4
		nameWidth  = 20
		valueWidth = 8
	)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		leaderboardHeaderStyle.Width(rankWidth).Render("#"),
		leaderboardHeaderStyle.Width(nameWidth).Render("Player"),
		leaderboardHeaderStyle.Width(valueWidth).Render("Score"),
		leaderboardHeaderStyle.Width(valueWidth).Render("Length"),
		leaderboardHeaderStyle.Width(valueWidth).Render("Ticks"),
	)
	table.WriteString(header + "\n")

	switch {
	case m.loading:
		table.WriteString("Loading...\n")
	case m.err != nil:
		table.WriteString(gameOverStyle.Render("Leaderboard unavailable: "+m.err.Error()) + "\n")
	case len(m.entries) == 0:
		table.WriteString("No finished games yet.\n")
	}

	for i, score := range m.entries {
		style := leaderboardRowStyle
		if score.PlayerName == m.playerName {
			style = highlightRowStyle
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			style.Width(rankWidth).Render(strconv.Itoa(m.page*leaderboardPageSize+i+1)),
			style.Width(nameWidth).Render(score.PlayerName),
			style.Width(valueWidth).Render(strconv.Itoa(score.Score)),
			style.Width(valueWidth).Render(strconv.Itoa(score.Length)),
			style.Width(valueWidth).Render(strconv.Itoa(score.Ticks)),
		)
		table.WriteString(leaderboardBorderStyle.Render(row) + "\n")
	}

	title := lipgloss.NewStyle().Bold(true).Padding(1, 0).Render("👑 SESSION LEADERBOARD 👑")
	pager := fmt.Sprintf("page %d/%d · %d games", m.page+1, m.lastPage()+1, m.total)
	instruction := lipgloss.NewStyle().Faint(true).Margin(1, 0).Render(pager + "\n←/→ to page, ESC or ENTER to return.")

	content := lipgloss.JoinVertical(lipgloss.Center, title, table.String(), instruction)

	return lipgloss.Place(m.ScreenWidth, m.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
	)
}
