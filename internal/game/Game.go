package game

type State int

const (
	Idle State = iota
	Running
	GameOver
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case GameOver:
		return "game_over"
	default:
		return "idle"
	}
}

// Game is the whole simulation state. It is owned by exactly one goroutine.
type Game struct {
	Snake     Snake
	Direction Direction
	Food      Position
	Score     int
	State     State
	Ticks     int
	GridSize  int
}

// Summary is what gets surfaced when a game ends.
type Summary struct {
	Score  int
	Length int
	Ticks  int
}

type StepResult struct {
	Moved    bool
	Ate      bool
	Collided bool
}

func NewGame(gridSize int) Game {
	return Game{
		Snake:     NewSnake(SpawnPosition),
		Direction: SpawnDirection,
		Food:      IdleFoodPosition,
		State:     Idle,
		GridSize:  gridSize,
	}
}

// Reset puts the game back to its starting layout and marks it Running.
func (g *Game) Reset(food *FoodPlacer) {
	g.Snake = NewSnake(SpawnPosition)
	g.Direction = SpawnDirection
	g.Food = food.Initial(g.Snake)
	g.Score = 0
	g.Ticks = 0
	g.State = Running
}

// Step advances the snake by one cell. A collision leaves the snake untouched.
func (g *Game) Step(food *FoodPlacer) StepResult {
	if g.State != Running {
		return StepResult{}
	}

	candidate := Wrap(g.Snake.Head().Add(g.Direction), g.GridSize)
	if g.Snake.Contains(candidate) {
		g.State = GameOver
		return StepResult{Collided: true}
	}

	g.Ticks++
	g.Snake.pushHead(candidate)
	if candidate == g.Food {
		g.Score++
		g.Food = food.Reroll(g.Snake, candidate)
		return StepResult{Moved: true, Ate: true}
	}
	g.Snake.dropTail()
	return StepResult{Moved: true}
}

// Steer commits sym as the direction for the next step. Turning back into the
// neck is rejected while the snake is longer than one cell.
func (g *Game) Steer(sym Symbol) bool {
	if g.State != Running {
		return false
	}
	dir := sym.Direction()
	if g.Snake.Len() > 1 {
		next := Wrap(g.Snake.Head().Add(dir), g.GridSize)
		if next == g.Snake.Segments[1] {
			return false
		}
	}
	g.Direction = dir
	return true
}

func (g *Game) Summary() Summary {
	return Summary{Score: g.Score, Length: g.Snake.Len(), Ticks: g.Ticks}
}
