package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Mshel/gridsnake/internal/config"
	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/input"
	"github.com/Mshel/gridsnake/internal/leaderboard"
	"github.com/Mshel/gridsnake/internal/netlimit"
	"github.com/gorilla/websocket"
)

func openScores(t *testing.T) *leaderboard.HighScoreService {
	t.Helper()
	dsn := fmt.Sprintf("file:web_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	scores, err := leaderboard.Open(dsn)
	if err != nil {
		t.Fatalf("open scores: %v", err)
	}
	t.Cleanup(func() { scores.Close() })
	return scores
}

func newTestServer(t *testing.T, scores *leaderboard.HighScoreService, limiter *netlimit.Limiter) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	// ticks never fire during a test
	cfg.TickInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	ts := httptest.NewServer(NewServer(ctx, cfg, scores, limiter).Handler())
	t.Cleanup(func() {
		cancel()
		ts.Close()
	})
	return ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type envelope struct {
	Type string `json:"t"`
	raw  []byte
}

func readMessage(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg envelope
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	msg.raw = data
	return msg
}

func readUntil(t *testing.T, conn *websocket.Conn, typ string) envelope {
	t.Helper()
	for i := 0; i < 10; i++ {
		if msg := readMessage(t, conn); msg.Type == typ {
			return msg
		}
	}
	t.Fatalf("no %q message received", typ)
	return envelope{}
}

func TestSessionWelcomeAndStart(t *testing.T) {
	ts := newTestServer(t, openScores(t), nil)
	conn := dial(t, ts, "?name=ada")

	var welcome WelcomeMsg
	if err := json.Unmarshal(readUntil(t, conn, MsgWelcome).raw, &welcome); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if welcome.Name != "ada" || welcome.GridSize != game.GridSize || welcome.ID == "" {
		t.Fatalf("unexpected welcome %+v", welcome)
	}

	var idle FrameMsg
	json.Unmarshal(readUntil(t, conn, MsgFrame).raw, &idle)
	if idle.State != "idle" {
		t.Fatalf("first frame state = %q, want idle", idle.State)
	}

	if err := conn.WriteJSON(ClientMessage{Type: MsgStart}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, conn, MsgClear)

	var running FrameMsg
	json.Unmarshal(readUntil(t, conn, MsgFrame).raw, &running)
	if running.State != "running" || len(running.Snake) != 1 {
		t.Fatalf("unexpected frame after start %+v", running)
	}
	if running.Snake[0] != [2]int{game.SpawnPosition.X, game.SpawnPosition.Y} || running.Heading != [2]int{1, 0} {
		t.Fatalf("snake not at spawn: %+v", running)
	}
}

func TestLimiterRejectsExtraConnections(t *testing.T) {
	limiter := netlimit.NewLimiter(1)
	ts := newTestServer(t, nil, limiter)

	first := dial(t, ts, "")
	readUntil(t, first, MsgWelcome)

	second := dial(t, ts, "")
	var rejected ErrorMsg
	json.Unmarshal(readUntil(t, second, MsgError).raw, &rejected)
	if !strings.Contains(rejected.Message, "Too many connections") {
		t.Fatalf("unexpected rejection %q", rejected.Message)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	scores := openScores(t)
	ctx := context.Background()
	for name, score := range map[string]int{"ada": 3, "bob": 9, "cy": 5} {
		if err := scores.SavePlayersHighScore(ctx, name, game.Summary{Score: score, Length: score + 1}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	ts := newTestServer(t, scores, nil)

	resp, err := http.Get(ts.URL + "/api/leaderboard?limit=2&offset=1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var board LeaderboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if board.Total != 3 || len(board.Entries) != 2 {
		t.Fatalf("unexpected page %+v", board)
	}
	if board.Entries[0].Rank != 2 || board.Entries[0].Name != "cy" || board.Entries[1].Name != "ada" {
		t.Fatalf("unexpected entries %+v", board.Entries)
	}
}

func TestLeaderboardRejectsBadPaging(t *testing.T) {
	ts := newTestServer(t, openScores(t), nil)

	for _, query := range []string{"limit=0", "limit=abc", "offset=-1", "limit=1000"} {
		resp, err := http.Get(ts.URL + "/api/leaderboard?" + query)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", query, resp.StatusCode)
		}
	}
}

func TestIndexPageIsServed(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<canvas") {
		t.Fatalf("index not served: %d", resp.StatusCode)
	}
}

func TestSessionRoutesInput(t *testing.T) {
	session := NewSession(nil, "", input.ModeHeadTracking, nil)
	if session.Name != defaultName {
		t.Fatalf("name = %q, want default", session.Name)
	}

	session.handle(ClientMessage{Type: MsgKey, Key: "ArrowDown"})
	if got := <-session.manager.DirectionChannel; got != game.SymbolDown {
		t.Fatalf("key routed as %v", got)
	}

	// presses before the first frame have no head to aim from
	session.handle(ClientMessage{Type: MsgPress, X: 0.9, Y: 0.5})
	if len(session.manager.DirectionChannel) != 0 {
		t.Fatalf("press without a frame produced a direction")
	}

	session.Render(game.Frame{Snake: []game.Position{{X: 10, Y: 10}}, GridSize: game.GridSize})
	session.handle(ClientMessage{Type: MsgPress, X: 0.95, Y: 0.5})
	if got := <-session.manager.DirectionChannel; got != game.SymbolRight {
		t.Fatalf("press routed as %v", got)
	}

	session.handle(ClientMessage{Type: MsgStart})
	session.handle(ClientMessage{Type: MsgDismiss})
	if got := <-session.manager.CommandChannel; got != game.CommandStart {
		t.Fatalf("first command = %v", got)
	}
	if got := <-session.manager.CommandChannel; got != game.CommandDismiss {
		t.Fatalf("second command = %v", got)
	}
}

func TestGameOverRecordsScore(t *testing.T) {
	scores := openScores(t)
	session := NewSession(nil, "ada", input.ModeSwipe, scores)

	session.ShowGameOver(game.Summary{Score: 7, Length: 8, Ticks: 40})
	session.records.Wait()

	var over GameOverMsg
	json.Unmarshal(<-session.send, &over)
	if over.Type != MsgGameOver || over.Score != 7 || over.Length != 8 {
		t.Fatalf("unexpected message %+v", over)
	}

	got, err := scores.GetHighScores(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].PlayerName != "ada" || got[0].Score != 7 {
		t.Fatalf("score not recorded: %+v", got)
	}
}

func TestBlankNameRecordsAsDefault(t *testing.T) {
	scores := openScores(t)
	session := NewSession(nil, "   ", input.ModeHeadTracking, scores)
	if session.Name != "Player" {
		t.Fatalf("session name = %q, want Player", session.Name)
	}

	session.ShowGameOver(game.Summary{Score: 7, Length: 8, Ticks: 40})
	session.records.Wait()

	got, err := scores.GetHighScores(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].PlayerName != "Player" || got[0].Score != 7 {
		t.Fatalf("score not recorded: %+v", got)
	}
}
