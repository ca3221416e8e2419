package game

import (
	"fmt"
	"strings"
)

const (
	MinPlayers = 2
	MaxPlayers = 8
)

type Config struct {
	Players int
	Names   []string
	Seed    int64
	// DayEndsAt is the number of scenes still shooting that ends the day.
	// 1 is the printed rule; 0 waits for every scene to wrap.
	DayEndsAt int
}

func DefaultConfig(players int) Config {
	return Config{Players: players, DayEndsAt: 1}
}

func (c Config) Validate() error {
	if c.Players < MinPlayers || c.Players > MaxPlayers {
		return fmt.Errorf("player count must be between %d and %d, got %d", MinPlayers, MaxPlayers, c.Players)
	}

	if len(c.Names) > c.Players {
		return fmt.Errorf("%d names given for %d players", len(c.Names), c.Players)
	}

	seen := make(map[string]bool, len(c.Names))
	for _, name := range c.Names {
		key := nameKey(name)
		if key == "" {
			continue
		}
		if seen[key] {
			return fmt.Errorf("duplicate player name: %s", strings.TrimSpace(name))
		}
		seen[key] = true
	}

	if c.DayEndsAt != 0 && c.DayEndsAt != 1 {
		return fmt.Errorf("day must end at 0 or 1 remaining scenes, got %d", c.DayEndsAt)
	}

	return nil
}

// MaxDays is 3 for games of up to three players and 4 otherwise.
func (c Config) MaxDays() int {
	if c.Players > 3 {
		return 4
	}
	return 3
}

func (c Config) playerName(seat int) string {
	if seat < len(c.Names) {
		if name := strings.TrimSpace(c.Names[seat]); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Player %d", seat+1)
}
