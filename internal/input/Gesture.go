package input

import (
	"fmt"
	"math"
	"strings"

	"github.com/Mshel/gridsnake/internal/game"
)

// Point is a pointer position normalised to the board: (0,0) top-left, (1,1)
// bottom-right.
type Point struct {
	X, Y float64
}

// Gesture turns pointer presses and releases into direction symbols.
// Implementations keep per-session state and are not safe for concurrent use.
type Gesture interface {
	Press(p Point, head game.Position, gridSize int) (game.Symbol, bool)
	Release(p Point) (game.Symbol, bool)
}

type Mode int

const (
	// ModeHeadTracking steers toward the pressed point, relative to the head.
	ModeHeadTracking Mode = iota
	// ModeSwipe steers along the dominant axis of a press-to-release drag.
	ModeSwipe
)

func (m Mode) String() string {
	if m == ModeSwipe {
		return "swipe"
	}
	return "head"
}

func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "head", "tap":
		return ModeHeadTracking, nil
	case "swipe":
		return ModeSwipe, nil
	}
	return ModeHeadTracking, fmt.Errorf("unknown touch mode %q", value)
}

// DefaultSwipeDistance is the shortest drag, as a fraction of the board, that
// counts as a swipe.
const DefaultSwipeDistance = 0.05

func NewGesture(mode Mode) Gesture {
	if mode == ModeSwipe {
		return &Swipe{MinDistance: DefaultSwipeDistance}
	}
	return HeadTracking{}
}

type HeadTracking struct{}

func (HeadTracking) Press(p Point, head game.Position, gridSize int) (game.Symbol, bool) {
	headX := (float64(head.X) + 0.5) / float64(gridSize)
	headY := (float64(head.Y) + 0.5) / float64(gridSize)
	return dominantAxis(p.X-headX, p.Y-headY), true
}

func (HeadTracking) Release(Point) (game.Symbol, bool) {
	return 0, false
}

type Swipe struct {
	MinDistance float64

	start   Point
	pressed bool
}

func (s *Swipe) Press(p Point, _ game.Position, _ int) (game.Symbol, bool) {
	s.start = p
	s.pressed = true
	return 0, false
}

func (s *Swipe) Release(p Point) (game.Symbol, bool) {
	if !s.pressed {
		return 0, false
	}
	s.pressed = false

	dx, dy := p.X-s.start.X, p.Y-s.start.Y
	if math.Max(math.Abs(dx), math.Abs(dy)) < s.MinDistance {
		return 0, false
	}
	return dominantAxis(dx, dy), true
}

// dominantAxis prefers the vertical axis on ties.
func dominantAxis(dx, dy float64) game.Symbol {
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return game.SymbolRight
		}
		return game.SymbolLeft
	}
	if dy > 0 {
		return game.SymbolDown
	}
	return game.SymbolUp
}
