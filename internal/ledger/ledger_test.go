package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/appengine-ltd/deadwood/internal/game"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func sampleResult(id string, scores ...int) Result {
	r := Result{
		GameID:     id,
		FinishedAt: time.Date(2026, 1, 23, 10, 0, 0, 0, time.UTC),
		DaysPlayed: 3,
	}
	best := 0
	for _, s := range scores {
		best = max(best, s)
	}
	for i, s := range scores {
		r.Players = append(r.Players, PlayerResult{
			Seat:    i,
			Name:    "Player " + string(rune('A'+i)),
			Rank:    2,
			Dollars: s - 10,
			Credits: 0,
			Score:   s,
			Winner:  s == best,
		})
	}
	return r
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRecordAndGame(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	in := sampleResult("game-1", 30, 42)
	id, err := store.Record(ctx, in)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if id != "game-1" {
		t.Fatalf("expected id game-1, got %q", id)
	}

	got, err := store.Game(ctx, id)
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if !got.FinishedAt.Equal(in.FinishedAt) || got.DaysPlayed != 3 {
		t.Fatalf("unexpected game header: %+v", got)
	}
	if len(got.Players) != 2 || got.Players[1].Score != 42 || !got.Players[1].Winner || got.Players[0].Winner {
		t.Fatalf("unexpected players: %+v", got.Players)
	}
}

func TestRecordRejectsDuplicates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, sampleResult("dup", 10, 20)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := store.Record(ctx, sampleResult("dup", 10, 20)); !errors.Is(err, ErrAlreadyRecorded) {
		t.Fatalf("expected ErrAlreadyRecorded, got %v", err)
	}
}

func TestRecordGeneratesID(t *testing.T) {
	store := openTestStore(t)
	id, err := store.Record(context.Background(), sampleResult("", 12, 11))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("expected uuid, got %q", id)
	}
}

func TestGameNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Game(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeadersOrderedByScore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.Record(ctx, sampleResult("a", 25, 31)); err != nil {
		t.Fatalf("record a: %v", err)
	}
	if _, err := store.Record(ctx, sampleResult("b", 40, 12, 18)); err != nil {
		t.Fatalf("record b: %v", err)
	}

	leaders, err := store.Leaders(ctx, 3)
	if err != nil {
		t.Fatalf("leaders: %v", err)
	}
	want := []int{40, 31, 25}
	if len(leaders) != len(want) {
		t.Fatalf("expected %d leaders, got %d", len(want), len(leaders))
	}
	for i, l := range leaders {
		if l.Score != want[i] {
			t.Fatalf("leader %d score %d, want %d", i, l.Score, want[i])
		}
	}
	if leaders[0].GameID != "b" || !leaders[0].Winner {
		t.Fatalf("unexpected top leader %+v", leaders[0])
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()
	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Record(ctx, sampleResult("keep", 9, 8)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	if _, err := store.Game(ctx, "keep"); err != nil {
		t.Fatalf("expected game after reopen: %v", err)
	}
}

func TestFromBoard(t *testing.T) {
	lot, err := game.NewLot(game.LotDef{
		Start: "Trailers",
		Rooms: []game.RoomDef{
			{Name: "Trailers", Adjacent: []string{"Set"}},
			{Name: "Set", Scene: true, Adjacent: []string{"Trailers"}},
			{Name: "Back Lot", Scene: true},
		},
	})
	if err != nil {
		t.Fatalf("lot: %v", err)
	}
	scenes := []*game.Scene{
		game.NewScene("One", 2, 1, nil),
		game.NewScene("Two", 2, 1, nil),
	}
	cfg := game.DefaultConfig(2)
	cfg.Seed = 1
	b, err := game.NewBoard(cfg, lot, scenes, nil, game.WithID("board-1"))
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if err := b.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	winners := b.EndGame()

	r := FromBoard(b, winners, time.Unix(0, 0))
	if r.GameID != "board-1" || r.DaysPlayed != 1 || len(r.Players) != 2 {
		t.Fatalf("unexpected result %+v", r)
	}
	for _, p := range r.Players {
		if !p.Winner || p.Score != 5 {
			t.Fatalf("expected tied winners on 5 points, got %+v", p)
		}
	}
}
