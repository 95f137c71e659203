package web

import "github.com/Mshel/gridsnake/internal/game"

// Single-character keys keep the per-tick frames small.
//
//	Client -> Server:
//	  "k" key      {"t":"k","k":"ArrowUp"}
//	  "p" press    {"t":"p","x":0.41,"y":0.73}   (x,y normalised to the board)
//	  "u" release  {"t":"u","x":0.10,"y":0.70}
//	  "s" start    {"t":"s"}
//	  "d" dismiss  {"t":"d"}
//	Server -> Client:
//	  "w" welcome  {"t":"w","i":"uuid","n":"name","g":20,"m":"head"}
//	  "f" frame    {"t":"f","s":[[x,y],...],"f":[x,y],"h":[dx,dy],"p":3,"st":"running"}
//	  "c" score    {"t":"c","p":3}
//	  "o" over     {"t":"o","p":3,"l":4}
//	  "a" prompt   {"t":"a"}
//	  "x" clear    {"t":"x"}
//	  "e" error    {"t":"e","m":"reason"}
const (
	MsgKey     = "k"
	MsgPress   = "p"
	MsgRelease = "u"
	MsgStart   = "s"
	MsgDismiss = "d"

	MsgWelcome     = "w"
	MsgFrame       = "f"
	MsgScore       = "c"
	MsgGameOver    = "o"
	MsgStartPrompt = "a"
	MsgClear       = "x"
	MsgError       = "e"
)

type ClientMessage struct {
	Type string  `json:"t"`
	Key  string  `json:"k,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

type WelcomeMsg struct {
	Type      string `json:"t"`
	ID        string `json:"i"`
	Name      string `json:"n"`
	GridSize  int    `json:"g"`
	TouchMode string `json:"m"`
}

type FrameMsg struct {
	Type    string   `json:"t"`
	Snake   [][2]int `json:"s"`
	Food    [2]int   `json:"f"`
	Heading [2]int   `json:"h"`
	Score   int      `json:"p"`
	State   string   `json:"st"`
}

type ScoreMsg struct {
	Type  string `json:"t"`
	Score int    `json:"p"`
}

type GameOverMsg struct {
	Type   string `json:"t"`
	Score  int    `json:"p"`
	Length int    `json:"l"`
}

type SignalMsg struct {
	Type string `json:"t"`
}

type ErrorMsg struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}

// LeaderboardEntry is one row of GET /api/leaderboard.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Length int    `json:"length"`
	At     int64  `json:"at"`
}

type LeaderboardResponse struct {
	Total   int                `json:"total"`
	Entries []LeaderboardEntry `json:"entries"`
}

func newFrameMsg(frame game.Frame) FrameMsg {
	snake := make([][2]int, len(frame.Snake))
	for i, segment := range frame.Snake {
		snake[i] = [2]int{segment.X, segment.Y}
	}
	return FrameMsg{
		Type:    MsgFrame,
		Snake:   snake,
		Food:    [2]int{frame.Food.X, frame.Food.Y},
		Heading: [2]int{frame.Heading.Dx, frame.Heading.Dy},
		Score:   frame.Score,
		State:   frame.State.String(),
	}
}
