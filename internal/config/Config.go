package config

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/input"
	"github.com/charmbracelet/log"
)

const envPrefix = "GRIDSNAKE_"

type Config struct {
	Host             string
	SSHPort          string
	HTTPPort         string
	PrivateKeyPath   string
	TickInterval     time.Duration
	TouchMode        input.Mode
	FoodPolicy       game.FoodPolicy
	MaxConnectionsIP int
	LogLevel         log.Level
	AutopilotScript  string
}

func Default() Config {
	return Config{
		Host:             "0.0.0.0",
		SSHPort:          "6996",
		HTTPPort:         "8080",
		PrivateKeyPath:   ".ssh/gridsnake_ed25519",
		TickInterval:     game.DefaultTickInterval,
		TouchMode:        input.ModeHeadTracking,
		FoodPolicy:       game.FoodAnywhere,
		MaxConnectionsIP: 2,
		LogLevel:         log.InfoLevel,
	}
}

// Load reads GRIDSNAKE_* variables on top of Default.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(envPrefix + "HOST"); ok && v != "" {
		cfg.Host = v
	}
	if v, ok := lookup(envPrefix + "SSH_PORT"); ok && v != "" {
		cfg.SSHPort = v
	}
	if v, ok := lookup(envPrefix + "HTTP_PORT"); ok && v != "" {
		cfg.HTTPPort = v
	}
	if v, ok := lookup(envPrefix + "PRIVATE_KEY_PATH"); ok && v != "" {
		cfg.PrivateKeyPath = v
	}
	if v, ok := lookup(envPrefix + "AUTOPILOT"); ok {
		cfg.AutopilotScript = v
	}

	if v, ok := lookup(envPrefix + "TICK"); ok && v != "" {
		interval, err := ParseTick(v)
		if err != nil {
			return cfg, fmt.Errorf("%sTICK: %w", envPrefix, err)
		}
		cfg.TickInterval = interval
	}
	if v, ok := lookup(envPrefix + "TOUCH_MODE"); ok {
		mode, err := input.ParseMode(v)
		if err != nil {
			return cfg, fmt.Errorf("%sTOUCH_MODE: %w", envPrefix, err)
		}
		cfg.TouchMode = mode
	}
	if v, ok := lookup(envPrefix + "FOOD_POLICY"); ok {
		policy, err := game.ParseFoodPolicy(v)
		if err != nil {
			return cfg, fmt.Errorf("%sFOOD_POLICY: %w", envPrefix, err)
		}
		cfg.FoodPolicy = policy
	}
	if v, ok := lookup(envPrefix + "MAX_CONN_PER_IP"); ok && v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return cfg, fmt.Errorf("%sMAX_CONN_PER_IP: want a positive integer, got %q", envPrefix, v)
		}
		cfg.MaxConnectionsIP = limit
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok && v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%sLOG_LEVEL: %w", envPrefix, err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// ParseTick parses a positive tick interval such as "150ms".
func ParseTick(value string) (time.Duration, error) {
	interval, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid tick interval: %w", err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("tick interval must be positive, got %s", interval)
	}
	return interval, nil
}

func (c Config) SSHAddress() string {
	return c.Host + ":" + c.SSHPort
}

func (c Config) HTTPAddress() string {
	return c.Host + ":" + c.HTTPPort
}

// GameOptions builds the per-game manager settings. Every call gets its own
// food source so concurrent sessions never share a rand.Rand.
func (c Config) GameOptions() []game.Option {
	placer := game.NewFoodPlacer(rand.New(rand.NewSource(time.Now().UnixNano())), c.FoodPolicy, game.GridSize)
	return []game.Option{
		game.WithTickInterval(c.TickInterval),
		game.WithFood(placer),
	}
}
