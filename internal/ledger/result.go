package ledger

import (
	"time"

	"github.com/appengine-ltd/deadwood/internal/game"
)

type PlayerResult struct {
	Seat    int
	Name    string
	Rank    int
	Dollars int
	Credits int
	Score   int
	Winner  bool
}

type Result struct {
	GameID     string
	FinishedAt time.Time
	DaysPlayed int
	Players    []PlayerResult
}

type Leader struct {
	GameID     string
	Name       string
	Score      int
	Winner     bool
	FinishedAt time.Time
}

// FromBoard captures a finished board. winners is what Board.EndGame
// returned.
func FromBoard(b *game.Board, winners []*game.Player, at time.Time) Result {
	won := make(map[*game.Player]bool, len(winners))
	for _, w := range winners {
		won[w] = true
	}
	r := Result{
		GameID:     b.ID(),
		FinishedAt: at,
		DaysPlayed: min(b.Day(), b.MaxDays()),
	}
	for _, p := range b.Players() {
		r.Players = append(r.Players, PlayerResult{
			Seat:    p.Seat,
			Name:    p.Name,
			Rank:    p.Rank(),
			Dollars: p.Dollars(),
			Credits: p.Credits(),
			Score:   p.Score(),
			Winner:  won[p],
		})
	}
	return r
}
