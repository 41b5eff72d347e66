package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/minaorangina/coopdeck/deck"
	"github.com/minaorangina/coopdeck/game"
	"go.uber.org/zap"
)

// Settings is read from COOPDECK_* environment variables.
// List values are separated by semicolons.
type Settings struct {
	PlayerCount      int           `env:"COOPDECK_PLAYERS,default=2"`
	MaxPlayers       int           `env:"COOPDECK_MAX_PLAYERS,default=4"`
	PlayerNames      []string      `env:"COOPDECK_PLAYER_NAMES"`
	VictoryPoints    int           `env:"COOPDECK_VICTORY_POINTS,default=100"`
	TurnTimerEnabled bool          `env:"COOPDECK_TURN_TIMER,default=false"`
	TurnTimeLimit    time.Duration `env:"COOPDECK_TURN_TIME_LIMIT,default=30s"`
	SetupDelay       time.Duration `env:"COOPDECK_SETUP_DELAY,default=500ms"`
	TickInterval     time.Duration `env:"COOPDECK_TICK_INTERVAL,default=100ms"`
	ListenAddr       string        `env:"COOPDECK_ADDR,default=:8000"`
	CatalogPath      string        `env:"COOPDECK_CATALOG"`
	StartingDeck     string        `env:"COOPDECK_DECK,default=starter"`
	Seed             int64         `env:"COOPDECK_SEED"`
	LogDev           bool          `env:"COOPDECK_LOG_DEV,default=false"`
}

// Load decodes Settings from the environment
func Load() (Settings, error) {
	var s Settings
	if err := envdecode.Decode(&s); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Settings{}, fmt.Errorf("reading environment: %w", err)
	}
	if s.TickInterval <= 0 {
		return Settings{}, fmt.Errorf("tick interval must be positive, got %s", s.TickInterval)
	}
	return s, nil
}

// Logger builds the process logger
func (s Settings) Logger() (*zap.Logger, error) {
	if s.LogDev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Options builds session options from the settings and the configured deck
// of the catalog.
func (s Settings) Options(c *Catalog, effects deck.EffectResolver, log *zap.Logger) (game.Options, error) {
	config, defs, err := c.Deck(s.StartingDeck)
	if err != nil {
		return game.Options{}, err
	}

	return game.Options{
		PlayerCount:           s.PlayerCount,
		MaxPlayers:            s.MaxPlayers,
		PlayerNames:           s.PlayerNames,
		VictoryPointsRequired: s.VictoryPoints,
		TurnTimerEnabled:      s.TurnTimerEnabled,
		TurnTimeLimit:         s.TurnTimeLimit,
		SetupDelay:            s.SetupDelay,
		Deck:                  config,
		StartingDeck:          defs,
		Seed:                  s.Seed,
		Effects:               effects,
		Logger:                log,
	}, nil
}
