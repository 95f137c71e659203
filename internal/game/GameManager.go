package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Frame is the render request emitted after every state change.
type Frame struct {
	Snake    []Position
	Food     Position
	Heading  Direction
	Score    int
	State    State
	Tick     int
	GridSize int
}

func (f Frame) Head() Position {
	return f.Snake[0]
}

// Renderer draws the board. It must not block for long: it runs on the loop goroutine.
type Renderer interface {
	Render(frame Frame)
}

// StatusDisplay shows the score line and the game-over / start overlays.
type StatusDisplay interface {
	ShowScore(score int)
	ShowGameOver(summary Summary)
	ShowStartPrompt()
	HideOverlays()
}

// Pilot is an optional extra input source consulted right before every tick.
type Pilot interface {
	NextSymbol(frame Frame) (Symbol, bool, error)
}

type Command int

const (
	CommandStart Command = iota
	CommandDismiss
)

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// GameManager owns a single Game and the ticker driving it. The exported
// methods are not safe for concurrent use; other goroutines talk to a running
// manager through PushDirection and PushCommand.
type GameManager struct {
	DirectionChannel chan Symbol
	CommandChannel   chan Command

	game      Game
	food      *FoodPlacer
	interval  time.Duration
	newTicker TickerFactory
	ticker    Ticker
	renderer  Renderer
	status    StatusDisplay
	pilot     Pilot
	done      chan struct{}
}

type Option func(*GameManager)

func WithTickInterval(interval time.Duration) Option {
	return func(gm *GameManager) { gm.interval = interval }
}

func WithTickerFactory(factory TickerFactory) Option {
	return func(gm *GameManager) { gm.newTicker = factory }
}

func WithRenderer(renderer Renderer) Option {
	return func(gm *GameManager) { gm.renderer = renderer }
}

func WithStatusDisplay(status StatusDisplay) Option {
	return func(gm *GameManager) { gm.status = status }
}

func WithPilot(pilot Pilot) Option {
	return func(gm *GameManager) { gm.pilot = pilot }
}

func WithFood(placer *FoodPlacer) Option {
	return func(gm *GameManager) { gm.food = placer }
}

func NewGameManager(opts ...Option) *GameManager {
	gm := &GameManager{
		DirectionChannel: make(chan Symbol, 10),
		CommandChannel:   make(chan Command, 10),
		game:             NewGame(GridSize),
		interval:         DefaultTickInterval,
		newTicker:        NewTimeTicker,
		renderer:         discardRenderer{},
		status:           discardStatus{},
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(gm)
	}
	if gm.food == nil {
		gm.food = NewFoodPlacer(rand.New(rand.NewSource(time.Now().UnixNano())), FoodAnywhere, GridSize)
	}
	return gm
}

// StartGameLoop serialises ticks, directions and commands until ctx is done.
func (gm *GameManager) StartGameLoop(ctx context.Context) {
	defer close(gm.done)
	defer gm.disarm()

	log.Debug("Game loop started.")
	gm.render()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Game loop stopped.")
			return
		case <-gm.tickChannel():
			gm.Tick()
		case sym := <-gm.DirectionChannel:
			gm.Steer(sym)
		case cmd := <-gm.CommandChannel:
			gm.processCommand(cmd)
		}
	}
}

// PushDirection hands sym to the loop. It gives up once the loop has exited.
func (gm *GameManager) PushDirection(sym Symbol) {
	select {
	case gm.DirectionChannel <- sym:
	case <-gm.done:
	}
}

func (gm *GameManager) PushCommand(cmd Command) {
	select {
	case gm.CommandChannel <- cmd:
	case <-gm.done:
	}
}

// Done is closed when StartGameLoop returns.
func (gm *GameManager) Done() <-chan struct{} {
	return gm.done
}

func (gm *GameManager) processCommand(cmd Command) {
	switch cmd {
	case CommandStart:
		gm.Start()
	case CommandDismiss:
		gm.Dismiss()
	default:
		log.Warn("Unknown command", "command", cmd)
	}
}

// Start resets the game and arms a fresh ticker, cancelling any previous one.
func (gm *GameManager) Start() {
	gm.disarm()
	gm.game.Reset(gm.food)
	gm.ticker = gm.newTicker(gm.interval)

	log.Debug("Game started", "food", gm.game.Food, "interval", gm.interval)
	gm.status.HideOverlays()
	gm.status.ShowScore(0)
	gm.render()
}

// Dismiss leaves the game-over screen and shows the start control again.
// The board keeps its final state until the next Start.
func (gm *GameManager) Dismiss() {
	if gm.game.State != GameOver {
		return
	}
	gm.game.State = Idle
	gm.status.ShowStartPrompt()
}

// Steer processes one direction input.
func (gm *GameManager) Steer(sym Symbol) bool {
	return gm.game.Steer(sym)
}

// Tick runs one simulation step.
func (gm *GameManager) Tick() {
	if gm.game.State != Running {
		return
	}

	gm.consultPilot()

	result := gm.game.Step(gm.food)
	if result.Collided {
		gm.stop()
		return
	}
	if result.Ate {
		gm.status.ShowScore(gm.game.Score)
	}
	gm.render()
}

func (gm *GameManager) consultPilot() {
	if gm.pilot == nil {
		return
	}
	sym, ok, err := gm.pilot.NextSymbol(gm.Snapshot())
	if err != nil {
		log.Warn("Autopilot failed, keeping current direction", "error", err)
		return
	}
	if ok {
		gm.game.Steer(sym)
	}
}

func (gm *GameManager) stop() {
	gm.disarm()
	summary := gm.game.Summary()
	log.Info("Game over", "score", summary.Score, "length", summary.Length, "ticks", summary.Ticks)
	gm.status.ShowGameOver(summary)
}

func (gm *GameManager) disarm() {
	if gm.ticker == nil {
		return
	}
	gm.ticker.Stop()
	gm.ticker = nil
}

func (gm *GameManager) tickChannel() <-chan time.Time {
	if gm.ticker == nil {
		return nil
	}
	return gm.ticker.C()
}

func (gm *GameManager) render() {
	gm.renderer.Render(gm.Snapshot())
}

// Snapshot copies the current state into a Frame.
func (gm *GameManager) Snapshot() Frame {
	return Frame{
		Snake:    gm.game.Snake.Clone().Segments,
		Food:     gm.game.Food,
		Heading:  gm.game.Direction,
		Score:    gm.game.Score,
		State:    gm.game.State,
		Tick:     gm.game.Ticks,
		GridSize: gm.game.GridSize,
	}
}

func (gm *GameManager) State() State {
	return gm.game.State
}

// Ticking reports whether a ticker is currently armed.
func (gm *GameManager) Ticking() bool {
	return gm.ticker != nil
}

type discardRenderer struct{}

func (discardRenderer) Render(Frame) {}

type discardStatus struct{}

func (discardStatus) ShowScore(int)        {}
func (discardStatus) ShowGameOver(Summary) {}
func (discardStatus) ShowStartPrompt()     {}
func (discardStatus) HideOverlays()        {}
