package game

import "strings"

type Position struct {
	X, Y int
}

// Add returns the position one step along d, without wrapping.
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.Dx, Y: p.Y + d.Dy}
}

// Wrap folds p back onto a size x size torus.
func Wrap(p Position, size int) Position {
	return Position{
		X: ((p.X % size) + size) % size,
		Y: ((p.Y % size) + size) % size,
	}
}

type Direction struct {
	Dx, Dy int
}

var (
	Up    = Direction{Dx: 0, Dy: -1}
	Down  = Direction{Dx: 0, Dy: 1}
	Left  = Direction{Dx: -1, Dy: 0}
	Right = Direction{Dx: 1, Dy: 0}
)

func (d Direction) Inverse() Direction {
	return Direction{Dx: -d.Dx, Dy: -d.Dy}
}

// Symbol is a discrete input, produced by keys, gestures or the autopilot.
type Symbol int

const (
	SymbolUp Symbol = iota
	SymbolDown
	SymbolLeft
	SymbolRight
)

var symbolDirections = map[Symbol]Direction{
	SymbolUp:    Up,
	SymbolDown:  Down,
	SymbolLeft:  Left,
	SymbolRight: Right,
}

var symbolNames = map[Symbol]string{
	SymbolUp:    "up",
	SymbolDown:  "down",
	SymbolLeft:  "left",
	SymbolRight: "right",
}

func (s Symbol) Direction() Direction {
	return symbolDirections[s]
}

func (s Symbol) String() string {
	if name, ok := symbolNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSymbol accepts the lower-case names returned by Symbol.String.
func ParseSymbol(name string) (Symbol, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for sym, symName := range symbolNames {
		if symName == name {
			return sym, true
		}
	}
	return 0, false
}
