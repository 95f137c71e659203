package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/input"
	"github.com/Mshel/gridsnake/internal/leaderboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

type overlay int

const (
	overlayNone overlay = iota
	overlayStart
	overlayGameOver
)

// ScoreRecordedMsg reports the outcome of saving a finished game.
type ScoreRecordedMsg struct{ Err error }

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240"))

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2).
				Width(statusPanelWidth)

	voidCell  = lipgloss.NewStyle().Background(lipgloss.Color("0")).Render("  ")
	foodCell  = lipgloss.NewStyle().Background(lipgloss.Color("9")).Render("  ")
	bodyCell  = lipgloss.NewStyle().Background(lipgloss.Color("10")).Render("  ")
	headStyle = lipgloss.NewStyle().Background(lipgloss.Color("10")).Foreground(lipgloss.Color("0")).Bold(true)

	gameOverStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	titleStyle    = lipgloss.NewStyle().Bold(true)

	headRunes = map[game.Direction]rune{
		game.Up:    '▲',
		game.Down:  '▼',
		game.Left:  '◀',
		game.Right: '▶',
	}
)

const (
	statusPanelWidth = 34
	// each board cell is two terminal columns wide
	cellWidth = 2
	// the board border occupies the first row and column
	boardOffset = 1
	recordWait  = 2 * time.Second
)

// GameModel renders one local game and forwards input to its GameManager.
type GameModel struct {
	ScreenWidth  int
	ScreenHeight int
	PlayerName   string

	gameManager *game.GameManager
	bridge      *Bridge
	gesture     input.Gesture
	scores      *leaderboard.HighScoreService

	frame   game.Frame
	score   int
	overlay overlay
	summary game.Summary
}

func NewGameModel(gm *game.GameManager, bridge *Bridge, gesture input.Gesture, scores *leaderboard.HighScoreService, playerName string, screenWidth, screenHeight int) GameModel {
	return GameModel{
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		PlayerName:   playerName,
		gameManager:  gm,
		bridge:       bridge,
		gesture:      gesture,
		scores:       scores,
		overlay:      overlayStart,
	}
}

func (m GameModel) Init() tea.Cmd {
	return m.bridge.Listen()
}

func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		return m, nil

	case FrameMsg:
		m.frame = msg.Frame
		return m, m.bridge.Listen()

	case ScoreMsg:
		m.score = int(msg)
		return m, m.bridge.Listen()

	case HideOverlayMsg:
		m.overlay = overlayNone
		return m, m.bridge.Listen()

	case StartPromptMsg:
		m.overlay = overlayStart
		return m, m.bridge.Listen()

	case GameOverMsg:
		m.overlay = overlayGameOver
		m.summary = msg.Summary
		return m, tea.Batch(m.bridge.Listen(), m.recordScore(msg.Summary))

	case ScoreRecordedMsg:
		if msg.Err != nil {
			log.Error("High score persist failed", "player", m.PlayerName, "error", msg.Err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}

	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "enter" || key == " " {
		m.gameManager.PushCommand(game.CommandStart)
		return m, nil
	}

	switch m.overlay {
	case overlayGameOver:
		if key == "b" {
			return m, func() tea.Msg { return ShowLeaderboardMsg{} }
		}
		m.gameManager.PushCommand(game.CommandDismiss)
	case overlayStart:
		if key == "b" {
			return m, func() tea.Msg { return ShowLeaderboardMsg{} }
		}
	default:
		if sym, ok := input.SymbolForKey(key); ok {
			m.gameManager.PushDirection(sym)
		}
	}
	return m, nil
}

func (m GameModel) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		point, inside := m.boardPoint(msg.X, msg.Y)
		if !inside {
			return
		}
		switch m.overlay {
		case overlayGameOver:
			m.gameManager.PushCommand(game.CommandDismiss)
		case overlayStart:
			m.gameManager.PushCommand(game.CommandStart)
		default:
			if len(m.frame.Snake) == 0 {
				return
			}
			if sym, ok := m.gesture.Press(point, m.frame.Head(), m.gridSize()); ok {
				m.gameManager.PushDirection(sym)
			}
		}
	case tea.MouseActionRelease:
		if m.overlay != overlayNone {
			return
		}
		point, _ := m.boardPoint(msg.X, msg.Y)
		if sym, ok := m.gesture.Release(point); ok {
			m.gameManager.PushDirection(sym)
		}
	}
}

// boardPoint maps a terminal cell to board coordinates normalised to [0,1).
func (m GameModel) boardPoint(x, y int) (input.Point, bool) {
	grid := m.gridSize()
	col, row := x-boardOffset, y-boardOffset
	inside := col >= 0 && col < grid*cellWidth && row >= 0 && row < grid
	return input.Point{
		X: (float64(col) + 0.5) / float64(grid*cellWidth),
		Y: (float64(row) + 0.5) / float64(grid),
	}, inside
}

func (m GameModel) gridSize() int {
	if m.frame.GridSize > 0 {
		return m.frame.GridSize
	}
	return game.GridSize
}

func (m GameModel) recordScore(summary game.Summary) tea.Cmd {
	if m.scores == nil {
		return nil
	}
	scores, name := m.scores, m.PlayerName
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recordWait)
		defer cancel()
		return ScoreRecordedMsg{Err: scores.SavePlayersHighScore(ctx, name, summary)}
	}
}

func (m GameModel) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		boardStyle.Render(m.renderBoard()),
		statusPanelStyle.Render(m.renderStatusPanel()),
	)
}

func (m GameModel) renderBoard() string {
	grid := m.gridSize()
	cells := make([][]string, grid)
	for y := range cells {
		cells[y] = make([]string, grid)
		for x := range cells[y] {
			cells[y][x] = voidCell
		}
	}

	if len(m.frame.Snake) > 0 {
		cells[m.frame.Food.Y][m.frame.Food.X] = foodCell
		for _, segment := range m.frame.Snake[1:] {
			cells[segment.Y][segment.X] = bodyCell
		}
		head := m.frame.Head()
		cells[head.Y][head.X] = headStyle.Render(string(headRunes[m.frame.Heading]) + " ")
	}

	var sb strings.Builder
	for y, row := range cells {
		sb.WriteString(strings.Join(row, ""))
		if y < grid-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m GameModel) renderStatusPanel() string {
	var status strings.Builder

	status.WriteString(titleStyle.Render("--- Player ---") + "\n")
	status.WriteString(m.PlayerName + "\n\n")
	status.WriteString(fmt.Sprintf("Score: %d\n", m.score))
	status.WriteString(fmt.Sprintf("Length: %d\n", len(m.frame.Snake)))
	status.WriteString(fmt.Sprintf("Tick: %d\n", m.frame.Tick))
	if r, ok := headRunes[m.frame.Heading]; ok {
		status.WriteString(fmt.Sprintf("Direction: %c\n", r))
	}

	switch m.overlay {
	case overlayGameOver:
		status.WriteString("\n" + gameOverStyle.Render(fmt.Sprintf("Game Over! Score: %d", m.summary.Score)) + "\n")
		status.WriteString(fmt.Sprintf("Length %d after %d ticks\n", m.summary.Length, m.summary.Ticks))
		status.WriteString("Enter: play again\nB: leaderboard\nAny key: dismiss\n")
	case overlayStart:
		status.WriteString("\n" + promptStyle.Render("Press Enter to start") + "\n")
		status.WriteString("B: leaderboard\n")
	}

	status.WriteString("\n" + titleStyle.Render("--- Controls ---") + "\n")
	status.WriteString("WASD / Arrows: Move\n")
	if _, swipe := m.gesture.(*input.Swipe); swipe {
		status.WriteString("Mouse: drag to steer\n")
	} else {
		status.WriteString("Mouse: click to steer\n")
	}
	status.WriteString("Enter: restart\n")
	status.WriteString("Q / Ctrl+C: Quit")

	return status.String()
}
