// Package web serves the browser front end: an embedded canvas page, one
// websocket game session per tab and a JSON view of the session leaderboard.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net"
	"net/http"
	"strconv"

	"github.com/Mshel/gridsnake/internal/autopilot"
	"github.com/Mshel/gridsnake/internal/config"
	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/leaderboard"
	"github.com/Mshel/gridsnake/internal/netlimit"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

//go:embed static
var staticFiles embed.FS

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Server struct {
	cfg      config.Config
	scores   *leaderboard.HighScoreService
	limiter  *netlimit.Limiter
	upgrader websocket.Upgrader
	ctx      context.Context
}

// NewServer wires a handler set. Sessions are stopped when ctx is cancelled.
func NewServer(ctx context.Context, cfg config.Config, scores *leaderboard.HighScoreService, limiter *netlimit.Limiter) *Server {
	return &Server{
		cfg:     cfg,
		scores:  scores,
		limiter: limiter,
		ctx:     ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServerFS(static))
	mux.HandleFunc("GET /ws", s.serveWs)
	mux.HandleFunc("GET /api/leaderboard", s.serveLeaderboard)
	return mux
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Websocket upgrade failed", "error", err)
		return
	}

	ip := remoteIP(r)
	if s.limiter != nil {
		allowed, current := s.limiter.Acquire(ip)
		if !allowed {
			log.Warn("Connection rejected: IP limit exceeded", "ip", ip, "current", current, "max", s.limiter.Max())
			rejectConn(conn, "Too many connections from your IP address.")
			return
		}
		defer s.limiter.Release(ip)
	}

	opts := s.cfg.GameOptions()
	if s.cfg.AutopilotScript != "" {
		pilot, err := autopilot.Open(s.cfg.AutopilotScript)
		if err != nil {
			log.Error("Autopilot unavailable", "error", err)
		} else {
			defer pilot.Close()
			opts = append(opts, game.WithPilot(pilot))
		}
	}

	session := NewSession(conn, r.URL.Query().Get("name"), s.cfg.TouchMode, s.scores, opts...)
	log.Info("Browser session started", "ip", ip, "session", session.ID, "name", session.Name)
	session.Serve(s.ctx)
	log.Info("Browser session ended", "ip", ip, "session", session.ID)
}

func (s *Server) serveLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		http.Error(w, "Leaderboard disabled", http.StatusServiceUnavailable)
		return
	}

	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil || limit <= 0 || limit > maxPageSize {
		http.Error(w, "Invalid limit", http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		http.Error(w, "Invalid offset", http.StatusBadRequest)
		return
	}

	scores, err := s.scores.GetHighScores(r.Context(), limit, offset)
	if err != nil {
		log.Error("Leaderboard query failed", "error", err)
		http.Error(w, "Leaderboard unavailable", http.StatusInternalServerError)
		return
	}
	total, err := s.scores.GetTotalScoreCount(r.Context())
	if err != nil {
		log.Error("Leaderboard count failed", "error", err)
		http.Error(w, "Leaderboard unavailable", http.StatusInternalServerError)
		return
	}

	response := LeaderboardResponse{Total: total, Entries: make([]LeaderboardEntry, 0, len(scores))}
	for i, score := range scores {
		response.Entries = append(response.Entries, LeaderboardEntry{
			Rank:   offset + i + 1,
			Name:   score.PlayerName,
			Score:  score.Score,
			Length: score.Length,
			At:     score.CreatedAt.Unix(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Debug("Leaderboard write failed", "error", err)
	}
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func rejectConn(conn *websocket.Conn, reason string) {
	defer conn.Close()
	data, err := json.Marshal(ErrorMsg{Type: MsgError, Message: reason})
	if err == nil {
		conn.WriteMessage(websocket.TextMessage, data)
	}
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason))
}
