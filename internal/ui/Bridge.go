package ui

import (
	"github.com/Mshel/gridsnake/internal/game"
	tea "github.com/charmbracelet/bubbletea"
)

// Messages delivered from the game loop to the bubbletea program.
type (
	FrameMsg       struct{ Frame game.Frame }
	ScoreMsg       int
	GameOverMsg    struct{ Summary game.Summary }
	StartPromptMsg struct{}
	HideOverlayMsg struct{}
)

const updateBuffer = 64

// Bridge is the terminal's game.Renderer and game.StatusDisplay. It turns loop
// callbacks into tea messages on Updates.
type Bridge struct {
	Updates chan tea.Msg
	done    <-chan struct{}
}

func NewBridge(done <-chan struct{}) *Bridge {
	return &Bridge{Updates: make(chan tea.Msg, updateBuffer), done: done}
}

// Render drops the frame when the view is behind; a newer one follows.
func (b *Bridge) Render(frame game.Frame) {
	select {
	case b.Updates <- FrameMsg{Frame: frame}:
	default:
	}
}

func (b *Bridge) ShowScore(score int) {
	b.send(ScoreMsg(score))
}

func (b *Bridge) ShowGameOver(summary game.Summary) {
	b.send(GameOverMsg{Summary: summary})
}

func (b *Bridge) ShowStartPrompt() {
	b.send(StartPromptMsg{})
}

func (b *Bridge) HideOverlays() {
	b.send(HideOverlayMsg{})
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.Updates <- msg:
	case <-b.done:
	}
}

// Listen waits for the next loop message.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.Updates:
			return msg
		case <-b.done:
			return nil
		}
	}
}
