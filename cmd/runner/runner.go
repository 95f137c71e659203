package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Mshel/gridsnake/internal/config"
	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/input"
	"github.com/Mshel/gridsnake/internal/leaderboard"
	"github.com/Mshel/gridsnake/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}

	tick := flag.String("tick", cfg.TickInterval.String(), "tick interval, e.g. 150ms")
	touch := flag.String("touch", cfg.TouchMode.String(), "mouse steering: head or swipe")
	food := flag.String("food", cfg.FoodPolicy.String(), "food placement: uniform or free")
	pilot := flag.String("autopilot", cfg.AutopilotScript, "autopilot: \"safe\", \"builtin\" or a Lua script path")
	name := flag.String("name", os.Getenv("USER"), "player name")
	logPath := flag.String("log", "gridsnake.log", "log file")
	flag.Parse()

	if cfg.TickInterval, err = config.ParseTick(*tick); err != nil {
		fail(err)
	}
	if cfg.TouchMode, err = input.ParseMode(*touch); err != nil {
		fail(err)
	}
	if cfg.FoodPolicy, err = game.ParseFoodPolicy(*food); err != nil {
		fail(err)
	}
	cfg.AutopilotScript = *pilot

	// the alt screen owns stdout
	logFile, err := tea.LogToFile(*logPath, "runner")
	if err != nil {
		fail(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetLevel(cfg.LogLevel)

	scores, err := leaderboard.NewHighScoreService()
	if err != nil {
		fail(err)
	}
	defer scores.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(ui.NewControllerModel(ctx, cfg, scores, *name, 0, 0), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Printf("error %v\n", err)
	os.Exit(1)
}
