package game

import "time"

const (
	GridSize            = 20
	DefaultTickInterval = 150 * time.Millisecond
)

var (
	SpawnPosition  = Position{X: 10, Y: 10}
	SpawnDirection = Right
	// food shown on the board before the first game starts
	IdleFoodPosition = Position{X: 5, Y: 5}
)
