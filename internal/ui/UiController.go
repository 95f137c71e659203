package ui

import (
	"context"

	"github.com/Mshel/gridsnake/internal/autopilot"
	"github.com/Mshel/gridsnake/internal/config"
	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/input"
	"github.com/Mshel/gridsnake/internal/leaderboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Screen int

const (
	IntroScreen Screen = iota
	SetupScreen
	GameScreen
	LeaderboardScreen
)

// Messages for state transitions
type IntroSubmitMsg int
type SetupSubmitMsg struct {
	Name string
}

// ControllerModel switches between the menu, the name form, the game and the
// leaderboard. It owns the lifetime of the game loop it starts.
type ControllerModel struct {
	CurrentScreen Screen
	ScreenWidth   int
	ScreenHeight  int

	ctx        context.Context
	cfg        config.Config
	scores     *leaderboard.HighScoreService
	playerName string
	returnTo   Screen
	stopGame   context.CancelFunc

	IntroModel       tea.Model
	SetupModel       tea.Model
	GameModel        tea.Model
	LeaderboardModel tea.Model
}

// NewControllerModel builds the root model. The game loop stops when ctx is
// done or the user quits.
func NewControllerModel(ctx context.Context, cfg config.Config, scores *leaderboard.HighScoreService, playerName string, screenWidth, screenHeight int) ControllerModel {
	return ControllerModel{
		CurrentScreen: IntroScreen,
		ScreenWidth:   screenWidth,
		ScreenHeight:  screenHeight,

		ctx:        ctx,
		cfg:        cfg,
		scores:     scores,
		playerName: playerName,

		IntroModel: NewIntroModel(screenWidth, screenHeight),
		SetupModel: NewInitialSetupModel(playerName, screenWidth, screenHeight),
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case SetupScreen:
		return m.SetupModel.View()
	case GameScreen:
		if m.GameModel != nil {
			return m.GameModel.View()
		}
		return "Game Loading..."
	case LeaderboardScreen:
		if m.LeaderboardModel != nil {
			return m.LeaderboardModel.View()
		}
		return "Loading..."
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		key := msg.String()
		if key == "ctrl+c" || (key == "q" && m.CurrentScreen != SetupScreen) {
			m.quitGame()
			return m, tea.Quit
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		var cmds []tea.Cmd
		for _, model := range []*tea.Model{&m.IntroModel, &m.SetupModel, &m.GameModel, &m.LeaderboardModel} {
			if *model != nil {
				*model, cmd = (*model).Update(msg)
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case IntroSubmitMsg:
		if msg == introLeaderboard {
			return m.showLeaderboard(IntroScreen)
		}
		m.CurrentScreen = SetupScreen
		return m, m.SetupModel.Init()

	case SetupSubmitMsg:
		m.playerName = msg.Name
		m.CurrentScreen = GameScreen
		m.GameModel = m.startGame()
		return m, m.GameModel.Init()

	case ShowLeaderboardMsg:
		return m.showLeaderboard(m.CurrentScreen)

	case CloseLeaderboardMsg:
		m.CurrentScreen = m.returnTo
		return m, nil

	// loop messages belong to the game even while another screen is shown
	case FrameMsg, ScoreMsg, GameOverMsg, StartPromptMsg, HideOverlayMsg, ScoreRecordedMsg:
		if m.GameModel != nil {
			m.GameModel, cmd = m.GameModel.Update(msg)
		}
		return m, cmd

	case LeaderboardLoadedMsg:
		if m.LeaderboardModel != nil {
			m.LeaderboardModel, cmd = m.LeaderboardModel.Update(msg)
		}
		return m, cmd
	}

	switch m.CurrentScreen {
	case IntroScreen:
		m.IntroModel, cmd = m.IntroModel.Update(msg)
	case SetupScreen:
		m.SetupModel, cmd = m.SetupModel.Update(msg)
	case GameScreen:
		if m.GameModel != nil {
			m.GameModel, cmd = m.GameModel.Update(msg)
		}
	case LeaderboardScreen:
		if m.LeaderboardModel != nil {
			m.LeaderboardModel, cmd = m.LeaderboardModel.Update(msg)
		}
	}
	return m, cmd
}

func (m ControllerModel) showLeaderboard(from Screen) (tea.Model, tea.Cmd) {
	m.returnTo = from
	m.CurrentScreen = LeaderboardScreen
	m.LeaderboardModel = NewLeaderboardModel(m.scores, m.playerName, m.ScreenWidth, m.ScreenHeight)
	return m, m.LeaderboardModel.Init()
}

// startGame spins up a game loop for this screen; it runs until ctx is done or
// the user quits.
func (m *ControllerModel) startGame() GameModel {
	m.quitGame()
	ctx, cancel := context.WithCancel(m.ctx)
	m.stopGame = cancel

	bridge := NewBridge(ctx.Done())
	opts := append(m.cfg.GameOptions(), game.WithRenderer(bridge), game.WithStatusDisplay(bridge))

	var pilot autopilot.Pilot
	if m.cfg.AutopilotScript != "" {
		var err error
		pilot, err = autopilot.Open(m.cfg.AutopilotScript)
		if err != nil {
			log.Error("Autopilot unavailable", "error", err)
		} else {
			opts = append(opts, game.WithPilot(pilot))
		}
	}

	gameManager := game.NewGameManager(opts...)
	go func() {
		gameManager.StartGameLoop(ctx)
		if pilot != nil {
			pilot.Close()
		}
	}()

	log.Info("Terminal game started", "player", m.playerName)
	return NewGameModel(gameManager, bridge, input.NewGesture(m.cfg.TouchMode), m.scores, m.playerName, m.ScreenWidth, m.ScreenHeight)
}

func (m *ControllerModel) quitGame() {
	if m.stopGame != nil {
		m.stopGame()
		m.stopGame = nil
	}
}
