package game

import (
	"fmt"
	"math/rand"
	"strings"
)

// FoodPolicy decides which cells a re-rolled food may land on.
type FoodPolicy int

const (
	// FoodAnywhere picks any cell uniformly, including ones under the snake.
	FoodAnywhere FoodPolicy = iota
	// FoodFreeCells only picks cells the snake does not occupy.
	FoodFreeCells
)

func (p FoodPolicy) String() string {
	switch p {
	case FoodFreeCells:
		return "free"
	default:
		return "uniform"
	}
}

func ParseFoodPolicy(value string) (FoodPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "uniform", "anywhere":
		return FoodAnywhere, nil
	case "free":
		return FoodFreeCells, nil
	}
	return FoodAnywhere, fmt.Errorf("unknown food policy %q", value)
}

type FoodPlacer struct {
	rng      *rand.Rand
	policy   FoodPolicy
	gridSize int
}

func NewFoodPlacer(rng *rand.Rand, policy FoodPolicy, gridSize int) *FoodPlacer {
	return &FoodPlacer{rng: rng, policy: policy, gridSize: gridSize}
}

func (fp *FoodPlacer) random() Position {
	return Position{X: fp.rng.Intn(fp.gridSize), Y: fp.rng.Intn(fp.gridSize)}
}

// Initial places the food for a fresh game.
func (fp *FoodPlacer) Initial(snake Snake) Position {
	if fp.policy == FoodFreeCells {
		if p, ok := fp.randomFree(snake, nil); ok {
			return p
		}
	}
	return fp.random()
}

// Reroll places new food after the one at eaten was consumed. The result never
// equals eaten.
func (fp *FoodPlacer) Reroll(snake Snake, eaten Position) Position {
	if fp.policy == FoodFreeCells {
		if p, ok := fp.randomFree(snake, &eaten); ok {
			return p
		}
	}
	for {
		p := fp.random()
		if p != eaten {
			return p
		}
	}
}

func (fp *FoodPlacer) randomFree(snake Snake, eaten *Position) (Position, bool) {
	occupied := make(map[Position]struct{}, snake.Len()+1)
	for _, segment := range snake.Segments {
		occupied[segment] = struct{}{}
	}
	if eaten != nil {
		occupied[*eaten] = struct{}{}
	}

	free := make([]Position, 0, fp.gridSize*fp.gridSize-len(occupied))
	for y := 0; y < fp.gridSize; y++ {
		for x := 0; x < fp.gridSize; x++ {
			p := Position{X: x, Y: y}
			if _, taken := occupied[p]; !taken {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return Position{}, false
	}
	return free[fp.rng.Intn(len(free))], true
}
