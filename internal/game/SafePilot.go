package game

import "math"

// SafePilot is a Go-native Pilot. It never steers into its own body when a
// free cell exists, prefers moves that keep the most board reachable, and
// among those heads for the food.
type SafePilot struct{}

func NewSafePilot() *SafePilot {
	return &SafePilot{}
}

func (s *SafePilot) NextSymbol(frame Frame) (Symbol, bool, error) {
	if len(frame.Snake) == 0 || frame.GridSize <= 0 {
		return 0, false, nil
	}

	snake := Snake{Segments: frame.Snake}
	head := snake.Head()

	type candidate struct {
		symbol Symbol
		area   int
		dist   int
	}
	var best *candidate
	// the neck is in here too, so reversals are never picked
	blocked := occupied(snake)

	for _, sym := range []Symbol{SymbolUp, SymbolRight, SymbolDown, SymbolLeft} {
		dir := sym.Direction()
		next := Wrap(head.Add(dir), frame.GridSize)
		if blocked[next] {
			continue
		}

		c := candidate{
			symbol: sym,
			area:   reachableArea(next, blocked, frame.GridSize),
			dist:   torusDistance(next, frame.Food, frame.GridSize),
		}
		// keep going straight when nothing else is better
		if dir == frame.Heading {
			c.dist--
		}

		if best == nil || c.area > best.area || (c.area == best.area && c.dist < best.dist) {
			best = &c
		}
	}

	if best == nil {
		// trapped
		return 0, false, nil
	}
	return best.symbol, true, nil
}

// occupied includes the tail: a step onto the current tail cell collides.
func occupied(snake Snake) map[Position]bool {
	cells := make(map[Position]bool, snake.Len())
	for _, segment := range snake.Segments {
		cells[segment] = true
	}
	return cells
}

// reachableArea flood-fills the free cells connected to start.
func reachableArea(start Position, blocked map[Position]bool, gridSize int) int {
	seen := map[Position]bool{start: true}
	queue := []Position{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dir := range []Direction{Up, Down, Left, Right} {
			next := Wrap(current.Add(dir), gridSize)
			if seen[next] || blocked[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return len(seen)
}

// torusDistance is the Manhattan distance on a wrapping board.
func torusDistance(a, b Position, gridSize int) int {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	dx = math.Min(dx, float64(gridSize)-dx)
	dy = math.Min(dy, float64(gridSize)-dy)
	return int(dx + dy)
}
