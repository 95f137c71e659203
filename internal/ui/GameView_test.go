package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/input"
	"github.com/Mshel/gridsnake/internal/leaderboard"
	tea "github.com/charmbracelet/bubbletea"
)

func openScores(t *testing.T) *leaderboard.HighScoreService {
	t.Helper()
	dsn := fmt.Sprintf("file:ui_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	scores, err := leaderboard.Open(dsn)
	if err != nil {
		t.Fatalf("open scores: %v", err)
	}
	t.Cleanup(func() { scores.Close() })
	return scores
}

// newIdleModel returns a view whose manager loop is not running, so pushed
// input stays in the manager's buffered channels.
func newIdleModel(t *testing.T, mode input.Mode, scores *leaderboard.HighScoreService) (GameModel, *game.GameManager) {
	t.Helper()
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	gm := game.NewGameManager()
	return NewGameModel(gm, NewBridge(done), input.NewGesture(mode), scores, "ada", 80, 24), gm
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(GameModel), cmd
}

func runningFrame() game.Frame {
	return game.Frame{
		Snake:    []game.Position{{X: 10, Y: 10}, {X: 9, Y: 10}},
		Food:     game.Position{X: 3, Y: 4},
		Heading:  game.Right,
		Score:    1,
		State:    game.Running,
		Tick:     7,
		GridSize: game.GridSize,
	}
}

func TestKeysSteerWhileRunning(t *testing.T) {
	m, gm := newIdleModel(t, input.ModeHeadTracking, nil)
	m, _ = update(t, m, HideOverlayMsg{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})

	if got := <-gm.DirectionChannel; got != game.SymbolUp {
		t.Fatalf("first direction = %v, want up", got)
	}
	if got := <-gm.DirectionChannel; got != game.SymbolRight {
		t.Fatalf("second direction = %v, want right", got)
	}
}

func TestEnterStartsFromPrompt(t *testing.T) {
	m, gm := newIdleModel(t, input.ModeHeadTracking, nil)

	update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := <-gm.CommandChannel; got != game.CommandStart {
		t.Fatalf("command = %v, want start", got)
	}
	if len(gm.DirectionChannel) != 0 {
		t.Fatalf("enter produced a direction")
	}
}

func TestGameOverKeys(t *testing.T) {
	m, gm := newIdleModel(t, input.ModeHeadTracking, nil)
	m, _ = update(t, m, GameOverMsg{Summary: game.Summary{Score: 3, Length: 4, Ticks: 20}})

	if !strings.Contains(m.View(), "Game Over! Score: 3") {
		t.Fatalf("game over not shown:\n%s", m.View())
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if cmd == nil {
		t.Fatalf("b did not request the leaderboard")
	}
	if _, ok := cmd().(ShowLeaderboardMsg); !ok {
		t.Fatalf("b produced %T", cmd())
	}

	update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if got := <-gm.CommandChannel; got != game.CommandDismiss {
		t.Fatalf("command = %v, want dismiss", got)
	}
}

func TestGameOverRecordsScore(t *testing.T) {
	scores := openScores(t)
	m, _ := newIdleModel(t, input.ModeHeadTracking, scores)

	msg := m.recordScore(game.Summary{Score: 5, Length: 6, Ticks: 30})()
	if recorded, ok := msg.(ScoreRecordedMsg); !ok || recorded.Err != nil {
		t.Fatalf("unexpected record result %+v", msg)
	}

	got, err := scores.GetHighScores(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].PlayerName != "ada" || got[0].Score != 5 {
		t.Fatalf("score not recorded: %+v", got)
	}
}

func TestMouseHeadTracking(t *testing.T) {
	m, gm := newIdleModel(t, input.ModeHeadTracking, nil)
	m, _ = update(t, m, HideOverlayMsg{})
	m, _ = update(t, m, FrameMsg{Frame: runningFrame()})

	// one row above the head cell (10,10)
	update(t, m, tea.MouseMsg{X: boardOffset + 10*cellWidth, Y: boardOffset + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if got := <-gm.DirectionChannel; got != game.SymbolUp {
		t.Fatalf("direction = %v, want up", got)
	}

	// presses on the status panel are ignored
	update(t, m, tea.MouseMsg{X: 70, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(gm.DirectionChannel) != 0 {
		t.Fatalf("press outside the board produced a direction")
	}
}

func TestMouseSwipe(t *testing.T) {
	m, gm := newIdleModel(t, input.ModeSwipe, nil)
	m, _ = update(t, m, HideOverlayMsg{})
	m, _ = update(t, m, FrameMsg{Frame: runningFrame()})

	m, _ = update(t, m, tea.MouseMsg{X: 30, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	update(t, m, tea.MouseMsg{X: 4, Y: 11, Action: tea.MouseActionRelease})

	if got := <-gm.DirectionChannel; got != game.SymbolLeft {
		t.Fatalf("direction = %v, want left", got)
	}
}

func TestBoardDrawsHeadAndStatus(t *testing.T) {
	m, _ := newIdleModel(t, input.ModeHeadTracking, nil)
	m, _ = update(t, m, HideOverlayMsg{})
	m, _ = update(t, m, FrameMsg{Frame: runningFrame()})
	m, _ = update(t, m, ScoreMsg(1))

	view := m.View()
	for _, want := range []string{"▶", "Score: 1", "Length: 2", "Tick: 7", "ada"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBridgeDropsFramesButNotStatus(t *testing.T) {
	done := make(chan struct{})
	bridge := NewBridge(done)

	for i := 0; i < updateBuffer+5; i++ {
		bridge.Render(game.Frame{Tick: i})
	}
	if len(bridge.Updates) != updateBuffer {
		t.Fatalf("buffer holds %d messages, want %d", len(bridge.Updates), updateBuffer)
	}

	sent := make(chan struct{})
	go func() {
		bridge.ShowScore(4)
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatalf("status message was dropped instead of waiting")
	case <-time.After(50 * time.Millisecond):
	}

	close(done)
	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatalf("status send did not give up after done")
	}
	if msg := NewBridge(done).Listen()(); msg != nil {
		t.Fatalf("Listen after done = %v, want nil", msg)
	}
}
