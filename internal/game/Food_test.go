package game

import (
	"math/rand"
	"testing"
)

func TestRerollNeverReturnsEatenCell(t *testing.T) {
	placer := NewFoodPlacer(rand.New(rand.NewSource(42)), FoodAnywhere, 2)
	snake := Snake{Segments: []Position{{X: 0, Y: 0}}}

	for i := 0; i < 200; i++ {
		if p := placer.Reroll(snake, Position{X: 0, Y: 0}); p == (Position{X: 0, Y: 0}) {
			t.Fatalf("re-rolled onto the eaten cell")
		}
	}
}

func TestFreePolicyAvoidsSnake(t *testing.T) {
	placer := NewFoodPlacer(rand.New(rand.NewSource(7)), FoodFreeCells, 3)
	// every cell but (2,2) is occupied
	var segments []Position
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x == 2 && y == 2 {
				continue
			}
			segments = append(segments, Position{X: x, Y: y})
		}
	}
	snake := Snake{Segments: segments}

	for i := 0; i < 20; i++ {
		if p := placer.Reroll(snake, segments[0]); p != (Position{X: 2, Y: 2}) {
			t.Fatalf("food placed on %v, want the only free cell", p)
		}
	}
}

func TestFreePolicyFallsBackWhenBoardIsFull(t *testing.T) {
	placer := NewFoodPlacer(rand.New(rand.NewSource(7)), FoodFreeCells, 2)
	snake := Snake{Segments: []Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}}

	p := placer.Reroll(snake, Position{X: 0, Y: 0})
	if p == (Position{X: 0, Y: 0}) {
		t.Fatalf("fallback returned the eaten cell")
	}
}

func TestParseFoodPolicy(t *testing.T) {
	tests := map[string]FoodPolicy{"": FoodAnywhere, "uniform": FoodAnywhere, "FREE": FoodFreeCells}
	for in, want := range tests {
		got, err := ParseFoodPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseFoodPolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFoodPolicy("everywhere"); err == nil {
		t.Fatalf("expected an error")
	}
}
