package web

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/input"
	"github.com/Mshel/gridsnake/internal/leaderboard"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer  = 64
	recordWait  = 2 * time.Second
	defaultName = "Player"
)

// Session is one browser tab playing one game. It is the game's renderer and
// status display, translating both into websocket messages.
type Session struct {
	ID   string
	Name string

	conn     *websocket.Conn
	send     chan []byte
	manager  *game.GameManager
	gesture  input.Gesture
	mode     input.Mode
	scores   *leaderboard.HighScoreService
	frameMu  sync.Mutex
	lastSeen game.Frame
	records  sync.WaitGroup
}

func NewSession(conn *websocket.Conn, name string, mode input.Mode, scores *leaderboard.HighScoreService, opts ...game.Option) *Session {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}
	s := &Session{
		ID:      uuid.New().String(),
		Name:    name,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		gesture: input.NewGesture(mode),
		mode:    mode,
		scores:  scores,
	}
	opts = append(opts, game.WithRenderer(s), game.WithStatusDisplay(s))
	s.manager = game.NewGameManager(opts...)
	return s
}

// Serve runs the session until the peer disconnects or ctx is cancelled.
func (s *Session) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.enqueue(WelcomeMsg{
		Type:      MsgWelcome,
		ID:        s.ID,
		Name:      s.Name,
		GridSize:  game.GridSize,
		TouchMode: s.mode.String(),
	})

	go s.manager.StartGameLoop(ctx)
	go s.writePump(ctx)

	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	s.readPump()
	cancel()
	<-s.manager.Done()
	s.records.Wait()
}

func (s *Session) Render(frame game.Frame) {
	s.frameMu.Lock()
	s.lastSeen = frame
	s.frameMu.Unlock()
	s.enqueue(newFrameMsg(frame))
}

func (s *Session) ShowScore(score int) {
	s.enqueue(ScoreMsg{Type: MsgScore, Score: score})
}

func (s *Session) ShowGameOver(summary game.Summary) {
	s.enqueue(GameOverMsg{Type: MsgGameOver, Score: summary.Score, Length: summary.Length})
	if s.scores == nil {
		return
	}
	// the insert runs off the game loop
	s.records.Add(1)
	go func() {
		defer s.records.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordWait)
		defer cancel()
		if err := s.scores.SavePlayersHighScore(ctx, s.Name, summary); err != nil {
			log.Error("High score persist failed", "session", s.ID, "error", err)
		}
	}()
}

func (s *Session) ShowStartPrompt() {
	s.enqueue(SignalMsg{Type: MsgStartPrompt})
}

func (s *Session) HideOverlays() {
	s.enqueue(SignalMsg{Type: MsgClear})
}

func (s *Session) head() (game.Position, int, bool) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if len(s.lastSeen.Snake) == 0 {
		return game.Position{}, 0, false
	}
	return s.lastSeen.Head(), s.lastSeen.GridSize, true
}

// enqueue never blocks the game loop; a slow peer loses messages.
func (s *Session) enqueue(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("Failed to encode message", "session", s.ID, "error", err)
		return
	}
	select {
	case s.send <- data:
	default:
		log.Debug("Send buffer full, dropping message", "session", s.ID)
	}
}

func (s *Session) readPump() {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Websocket read failed", "session", s.ID, "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug("Bad client message", "session", s.ID, "error", err)
			continue
		}
		s.handle(msg)
	}
}

func (s *Session) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgKey:
		if sym, ok := input.SymbolForKey(msg.Key); ok {
			s.manager.PushDirection(sym)
		}
	case MsgPress:
		head, gridSize, ok := s.head()
		if !ok {
			return
		}
		if sym, ok := s.gesture.Press(input.Point{X: msg.X, Y: msg.Y}, head, gridSize); ok {
			s.manager.PushDirection(sym)
		}
	case MsgRelease:
		if sym, ok := s.gesture.Release(input.Point{X: msg.X, Y: msg.Y}); ok {
			s.manager.PushDirection(sym)
		}
	case MsgStart:
		s.manager.PushCommand(game.CommandStart)
	case MsgDismiss:
		s.manager.PushCommand(game.CommandDismiss)
	default:
		log.Debug("Unknown client message", "session", s.ID, "type", msg.Type)
	}
}

func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case message := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug("Websocket write failed", "session", s.ID, "error", err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
