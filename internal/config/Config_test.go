package config

import (
	"strings"
	"testing"
	"time"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/input"
	"github.com/charmbracelet/log"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(lookupFrom(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
	if cfg.SSHAddress() != "0.0.0.0:6996" || cfg.HTTPAddress() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addresses %s %s", cfg.SSHAddress(), cfg.HTTPAddress())
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(lookupFrom(map[string]string{
		"GRIDSNAKE_HOST":            "127.0.0.1",
		"GRIDSNAKE_HTTP_PORT":       "9000",
		"GRIDSNAKE_TICK":            "80ms",
		"GRIDSNAKE_TOUCH_MODE":      "swipe",
		"GRIDSNAKE_FOOD_POLICY":     "free",
		"GRIDSNAKE_MAX_CONN_PER_IP": "5",
		"GRIDSNAKE_LOG_LEVEL":       "debug",
		"GRIDSNAKE_AUTOPILOT":       "builtin",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddress() != "127.0.0.1:9000" {
		t.Fatalf("http address = %s", cfg.HTTPAddress())
	}
	if cfg.TickInterval != 80*time.Millisecond {
		t.Fatalf("tick = %s", cfg.TickInterval)
	}
	if cfg.TouchMode != input.ModeSwipe || cfg.FoodPolicy != game.FoodFreeCells {
		t.Fatalf("modes not applied: %+v", cfg)
	}
	if cfg.MaxConnectionsIP != 5 || cfg.LogLevel != log.DebugLevel || cfg.AutopilotScript != "builtin" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"GRIDSNAKE_TICK":            "-1s",
		"GRIDSNAKE_TOUCH_MODE":      "pinch",
		"GRIDSNAKE_FOOD_POLICY":     "nowhere",
		"GRIDSNAKE_MAX_CONN_PER_IP": "zero",
		"GRIDSNAKE_LOG_LEVEL":       "loud",
	}
	for key, value := range tests {
		_, err := load(lookupFrom(map[string]string{key: value}))
		if err == nil {
			t.Fatalf("%s=%s: expected an error", key, value)
		}
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not name %s", err, key)
		}
	}
}

func TestGameOptionsApplyTickInterval(t *testing.T) {
	cfg := Default()
	cfg.TickInterval = 40 * time.Millisecond

	var armed time.Duration
	var ticker game.Ticker
	opts := append(cfg.GameOptions(), game.WithTickerFactory(func(interval time.Duration) game.Ticker {
		armed = interval
		ticker = game.NewTimeTicker(interval)
		return ticker
	}))
	gm := game.NewGameManager(opts...)
	gm.Start()
	defer ticker.Stop()

	if armed != 40*time.Millisecond {
		t.Fatalf("armed %s, want 40ms", armed)
	}
}
