package game

import (
	"fmt"
	"testing"
)

// Trailers and Casting Office are plain rooms; Main Street, Saloon and Hotel
// host scenes. Casting Office does not connect to Saloon.
func testLotDef() LotDef {
	return LotDef{
		Start:  "Trailers",
		Office: "Casting Office",
		Rooms: []RoomDef{
			{Name: "Trailers", Adjacent: []string{"Main Street", "Saloon", "Casting Office"}},
			{Name: "Casting Office", Adjacent: []string{"Trailers", "Hotel"}},
			{Name: "Main Street", Scene: true, Adjacent: []string{"Trailers", "Saloon"}},
			{Name: "Saloon", Scene: true, Adjacent: []string{"Trailers", "Main Street"}},
			{Name: "Hotel", Scene: true, Adjacent: []string{"Casting Office"}},
		},
	}
}

func newTestLot(t *testing.T) *Lot {
	t.Helper()
	lot, err := NewLot(testLotDef())
	if err != nil {
		t.Fatalf("new lot: %v", err)
	}
	return lot
}

// testScenes builds n cards named "Scene k", each with a rank 1 "Lead k"
// and a rank 3 "Support k".
func testScenes(n, budget, shots int) []*Scene {
	scenes := make([]*Scene, 0, n)
	for i := 1; i <= n; i++ {
		scenes = append(scenes, NewScene(fmt.Sprintf("Scene %d", i), budget, shots, []*Role{
			{Name: fmt.Sprintf("Lead %d", i), Line: "Action!", Rank: 1},
			{Name: fmt.Sprintf("Support %d", i), Line: "Cut!", Rank: 3},
		}))
	}
	return scenes
}

func testExtras() []*Role {
	return []*Role{
		NewExtra("Crusty Prospector", "Aww, peaches!", 1),
		NewExtra("Town Drunk", "Hic!", 2),
	}
}

// seqDice replays rolls in order and keeps shuffles stable so deal order is
// the order cards were given in.
type seqDice struct {
	rolls []int
	next  int
}

func constDice(v int) *seqDice {
	return &seqDice{rolls: []int{v}}
}

func (d *seqDice) Roll(int) int {
	v := d.rolls[d.next%len(d.rolls)]
	d.next++
	return v
}

func (d *seqDice) Shuffle(int, func(i, j int)) {}

type boardFixture struct {
	board  *Board
	events []Event
}

func (f *boardFixture) messages() []string {
	var out []string
	for _, e := range f.events {
		out = append(out, e.Message)
	}
	return out
}

func (f *boardFixture) count(kind EventKind) int {
	n := 0
	for _, e := range f.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (f *boardFixture) reset() {
	f.events = nil
}

func newFixture(t *testing.T, cfg Config, scenes []*Scene, dice Dice) *boardFixture {
	t.Helper()
	b, err := NewBoard(cfg, newTestLot(t), scenes, testExtras(), WithDice(dice), WithID("test-game"))
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	f := &boardFixture{board: b}
	b.Subscribe(func(e Event) { f.events = append(f.events, e) })
	if err := b.StartGame(); err != nil {
		t.Fatalf("start game: %v", err)
	}
	return f
}

func mustProcess(t *testing.T, b *Board, cmds ...string) {
	t.Helper()
	for _, cmd := range cmds {
		if err := b.Process(cmd); err != nil {
			t.Fatalf("process %q: %v", cmd, err)
		}
	}
}
