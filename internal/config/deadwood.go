package config

import (
	"strings"

	"github.com/appengine-ltd/deadwood/internal/game"
)

// Deadwood is the CLI configuration. Flags in cmd/deadwood override these.
type Deadwood struct {
	Players      int      `env:"DEADWOOD_PLAYERS" envDefault:"2"`
	Names        []string `env:"DEADWOOD_NAMES" envSeparator:","`
	Seed         int64    `env:"DEADWOOD_SEED"`
	DayEndsAt    int      `env:"DEADWOOD_DAY_ENDS_AT" envDefault:"1"`
	RankBonus    int      `env:"DEADWOOD_RANK_BONUS"`
	ContentDir   string   `env:"DEADWOOD_CONTENT_DIR"`
	PolicyScript string   `env:"DEADWOOD_POLICY_SCRIPT"`
	LedgerPath   string   `env:"DEADWOOD_LEDGER_PATH"`
}

// Load reads .env (if present) and then the environment.
func Load(dotenv ...string) (Deadwood, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	if err := LoadDotEnv(dotenv...); err != nil {
		return Deadwood{}, err
	}
	var cfg Deadwood
	if err := ParseEnv(&cfg); err != nil {
		return Deadwood{}, err
	}
	return cfg, nil
}

// GameConfig converts to the engine's config and validates it.
func (d Deadwood) GameConfig() (game.Config, error) {
	cfg := game.DefaultConfig(d.Players)
	cfg.Seed = d.Seed
	cfg.DayEndsAt = d.DayEndsAt
	for _, name := range d.Names {
		if name = strings.TrimSpace(name); name != "" {
			cfg.Names = append(cfg.Names, name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}
