package script

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/appengine-ltd/deadwood/internal/game"
)

func attempt(rank, roll int, onCard bool) game.ActAttempt {
	return game.ActAttempt{
		Rank:     rank,
		RoleRank: 1,
		Budget:   4,
		OnCard:   onCard,
		Roll:     roll,
		Schedule: game.DefaultPayouts(),
	}
}

func TestBundledPolicyMatchesDiceRule(t *testing.T) {
	p, err := Load(filepath.Join("..", "..", "policies", "rank_bonus.lua"), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer p.Close()

	dice := game.DicePolicy{RankBonus: 1}
	for rank := 1; rank <= game.MaxRank; rank++ {
		for roll := 1; roll <= 6; roll++ {
			for _, onCard := range []bool{true, false} {
				a := attempt(rank, roll, onCard)
				got, want := p.Resolve(a), dice.Resolve(a)
				if got != want {
					t.Fatalf("rank %d roll %d onCard %v: script %v/%v, dice %v/%v",
						rank, roll, onCard, got.Success(), got.Amount(), want.Success(), want.Amount())
				}
			}
		}
	}
}

func TestScriptAmountsOverrideSchedule(t *testing.T) {
	p, err := New(`function act(a) return true, 3, 0 end`, "flat", nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer p.Close()

	got := p.Resolve(attempt(1, 1, true))
	if !got.Success() || got.Amount() != (game.Amount{Dollars: 3}) {
		t.Fatalf("expected $3 success, got %v/%v", got.Success(), got.Amount())
	}
}

func TestScriptErrorFailsWithoutPay(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(`function act(a) error("boom") end`, "broken", log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer p.Close()

	got := p.Resolve(attempt(6, 6, false))
	if got.Success() || !got.Amount().IsZero() {
		t.Fatalf("expected failed unpaid attempt, got %v/%v", got.Success(), got.Amount())
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected script error to be logged, got %q", buf.String())
	}
}

func TestNewRequiresActFunction(t *testing.T) {
	if _, err := New(`x = 1`, "empty", nil); !errors.Is(err, ErrNoActFunction) {
		t.Fatalf("expected ErrNoActFunction, got %v", err)
	}
	if _, err := New(`function act(`, "syntax", nil); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestScriptCannotReachOS(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "os and io", expr: "os ~= nil or io ~= nil"},
		{name: "file loaders", expr: "dofile ~= nil or loadfile ~= nil"},
		{name: "modules", expr: "require ~= nil or package ~= nil"},
		{name: "read file", expr: `pcall(dofile, "/etc/passwd")`},
	}
	for _, tc := range tests {
		p, err := New("function act(a) return "+tc.expr+" end", "sandbox", nil)
		if err != nil {
			t.Fatalf("%s: new: %v", tc.name, err)
		}
		if p.Resolve(attempt(1, 1, true)).Success() {
			t.Fatalf("%s: expected sandbox to hide it", tc.name)
		}
		p.Close()
	}
}

func TestScriptHasNoUnseededRandom(t *testing.T) {
	p, err := New(`function act(a) return math.random ~= nil or math.randomseed ~= nil or math.floor == nil end`, "random", nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer p.Close()
	if p.Resolve(attempt(1, 1, true)).Success() {
		t.Fatalf("expected math.random removed and the rest of math kept")
	}
}

func TestLoadRejectsNonMonotonePolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veterans.lua")
	src := `function act(a) return a.rank == a.role_rank end`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path, nil); !errors.Is(err, game.ErrNotMonotone) {
		t.Fatalf("expected ErrNotMonotone, got %v", err)
	}
}

func TestClosedPolicyFails(t *testing.T) {
	p, err := New(`function act(a) return true end`, "closed", nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	p.Close()
	if p.Resolve(attempt(1, 6, true)).Success() {
		t.Fatalf("expected closed policy to fail attempts")
	}
}
