package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/appengine-ltd/deadwood/internal/game"
)

func TestDefaultContent(t *testing.T) {
	set, err := Default()
	if err != nil {
		t.Fatalf("default content: %v", err)
	}
	lot, err := set.LoadLot()
	if err != nil {
		t.Fatalf("default lot: %v", err)
	}
	if got := len(lot.Rooms()); got != 12 {
		t.Fatalf("expected 12 rooms, got %d", got)
	}
	if got := len(lot.SceneRooms()); got != 10 {
		t.Fatalf("expected 10 scene rooms, got %d", got)
	}
	if got := len(set.Scenes); got != 40 {
		t.Fatalf("expected 40 cards, got %d", got)
	}
	if len(set.Extras) == 0 {
		t.Fatalf("expected extras")
	}
	if lot.Start().Name() != "Trailers" || lot.Office().Name() != "Casting Office" {
		t.Fatalf("unexpected start/office %s/%s", lot.Start(), lot.Office())
	}
	for _, s := range set.Scenes {
		for _, r := range s.Roles {
			if !r.OnCard || r.Scene() != s {
				t.Fatalf("role %s not bound to %s", r.Name, s.Name)
			}
		}
	}
}

func TestDefaultContentStartsAGame(t *testing.T) {
	set, err := Default()
	if err != nil {
		t.Fatalf("default content: %v", err)
	}
	lot, err := set.LoadLot()
	if err != nil {
		t.Fatalf("default lot: %v", err)
	}
	cfg := game.DefaultConfig(8)
	cfg.Seed = 5
	b, err := game.NewBoard(cfg, lot, set.Scenes, set.Extras)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	if err := b.StartGame(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if b.ScenesActive() != 10 || b.DeckRemaining() != 30 {
		t.Fatalf("expected 10 scenes dealt from 40, got %d active and %d left", b.ScenesActive(), b.DeckRemaining())
	}
}

const validBoard = `{"format_version": 1, "start": "Trailers", "office": "Office", "rooms": [
  {"name": "Trailers", "adjacent": ["Set"]},
  {"name": "Office", "adjacent": ["Set"]},
  {"name": "Set", "scene": true, "adjacent": ["Trailers", "Office"]}
]}`

func TestLoadRejectsBadCards(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		want  error
	}{
		{
			name:  "duplicate role across card and extras",
			cards: `{"format_version": 1, "cards": [{"name": "A", "budget": 2, "shots": 1, "roles": [{"name": "Cowpoke", "rank": 1}]}], "extras": [{"name": "COWPOKE", "rank": 1}]}`,
			want:  ErrDuplicateRole,
		},
		{
			name:  "budget too high",
			cards: `{"format_version": 1, "cards": [{"name": "A", "budget": 7, "shots": 1, "roles": []}]}`,
			want:  ErrBadBudget,
		},
		{
			name:  "no shots",
			cards: `{"format_version": 1, "cards": [{"name": "A", "budget": 2, "shots": 0, "roles": []}]}`,
			want:  ErrBadShots,
		},
		{
			name:  "role rank",
			cards: `{"format_version": 1, "cards": [{"name": "A", "budget": 2, "shots": 1, "roles": [{"name": "X", "rank": 9}]}]}`,
			want:  ErrBadRoleRank,
		},
		{
			name:  "empty deck",
			cards: `{"format_version": 1, "cards": []}`,
			want:  ErrNoCards,
		},
		{
			name:  "format version",
			cards: `{"format_version": 2, "cards": []}`,
			want:  ErrFormatVersion,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				BoardFile: {Data: []byte(validBoard)},
				CardsFile: {Data: []byte(tc.cards)},
			}
			if _, err := Load(fsys); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadDirAndPayoutOverride(t *testing.T) {
	dir := t.TempDir()
	cards := `{"format_version": 1, "cards": [{"name": "Big Payday", "number": 7, "budget": 3, "shots": 2,
  "roles": [{"name": "Lead", "rank": 1}],
  "payouts": {"on_card_success": {"dollars": 1, "credits": 3}}}]}`
	if err := os.WriteFile(filepath.Join(dir, BoardFile), []byte(validBoard), 0o600); err != nil {
		t.Fatalf("write board: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, CardsFile), []byte(cards), 0o600); err != nil {
		t.Fatalf("write cards: %v", err)
	}

	set, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	scene := set.Scenes[0]
	if scene.Number != 7 || scene.Shots != 2 {
		t.Fatalf("unexpected scene %+v", scene)
	}
	if got := scene.Payouts.OnCardSuccess; got != (game.Amount{Dollars: 1, Credits: 3}) {
		t.Fatalf("expected override, got %+v", got)
	}
	if got := scene.Payouts.ExtraFailure; got != (game.Amount{Dollars: 1}) {
		t.Fatalf("expected default extra failure pay, got %+v", got)
	}
	if _, err := set.LoadLot(); err != nil {
		t.Fatalf("lot: %v", err)
	}
}

func TestLoadDirMissingFiles(t *testing.T) {
	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}
