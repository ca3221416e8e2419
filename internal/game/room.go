package game

import (
	"sort"
	"strconv"
	"strings"
)

type RoomKind int

const (
	RoomPlain RoomKind = iota
	RoomScene
)

func (k RoomKind) String() string {
	switch k {
	case RoomPlain:
		return "plain"
	case RoomScene:
		return "scene"
	default:
		return "unknown"
	}
}

// Room is a location on the lot. Scene rooms carry a *Set; plain rooms
// (Trailers, Casting Office) never do.
type Room struct {
	name     string
	kind     RoomKind
	adjacent []*Room
	set      *Set
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) Kind() RoomKind {
	return r.kind
}

// Set returns the shooting state for scene rooms and nil for plain rooms.
func (r *Room) Set() *Set {
	return r.set
}

// Scene returns the active scene card, or nil for plain rooms and wrapped sets.
func (r *Room) Scene() *Scene {
	switch r.kind {
	case RoomScene:
		return r.set.scene
	case RoomPlain:
		return nil
	default:
		return nil
	}
}

func (r *Room) Adjacent() []*Room {
	return append([]*Room(nil), r.adjacent...)
}

func (r *Room) AdjacentNames() []string {
	names := make([]string, 0, len(r.adjacent))
	for _, n := range r.adjacent {
		names = append(names, n.name)
	}
	return names
}

func (r *Room) IsAdjacent(other *Room) bool {
	for _, n := range r.adjacent {
		if n.Is(other) {
			return true
		}
	}
	return false
}

// Is reports room equality; rooms are equal iff their names match.
func (r *Room) Is(other *Room) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.name == other.name
}

func (r *Room) String() string {
	if r == nil {
		return "nowhere"
	}
	return r.name
}

// Describe renders the where line for a room.
func (r *Room) Describe() string {
	var b strings.Builder
	b.WriteString(r.name)
	switch r.kind {
	case RoomScene:
		if scene := r.set.scene; scene == nil {
			b.WriteString(", scene wrapped")
		} else {
			b.WriteString(", shooting ")
			b.WriteString(scene.String())
			b.WriteString(", ")
			b.WriteString(shotsLabel(r.set.shots))
		}
	case RoomPlain:
	}
	b.WriteString(" (connects to ")
	b.WriteString(strings.Join(r.AdjacentNames(), ", "))
	b.WriteString(")")
	return b.String()
}

// Set is the mutable half of a scene room: the card being shot and how many
// shots remain. Shots are only meaningful while a scene is assigned.
type Set struct {
	scene *Scene
	shots int
}

func (s *Set) Scene() *Scene {
	return s.scene
}

func (s *Set) Shots() int {
	if s.scene == nil {
		return 0
	}
	return s.shots
}

func (s *Set) Active() bool {
	return s.scene != nil && s.shots > 0
}

func (s *Set) Assign(scene *Scene) {
	s.scene = scene
	s.shots = 0
	if scene != nil {
		s.shots = scene.Shots
	}
}

// DecrementShots records one successful shot and reports whether the scene
// has run out of shots.
func (s *Set) DecrementShots() bool {
	if s.scene == nil || s.shots <= 0 {
		return false
	}
	s.shots--
	return s.shots == 0
}

func (s *Set) clear() {
	s.scene = nil
	s.shots = 0
}

// Wrap pays the wrap bonus to the players still working on this set, releases
// them from their roles and clears the scene. Bonus dice (one per budget
// million) are dealt highest first round the card's roles ordered by rank;
// a die landing on an unheld role is lost. Extras receive their role rank in
// dollars. Nobody is paid when no on-card role is held. Reports whether any
// bonus was paid.
func (r *Room) Wrap(players []*Player, dice Dice) bool {
	if r.kind != RoomScene || r.set.scene == nil {
		return false
	}
	scene := r.set.scene

	holders := make(map[*Role]*Player)
	var extras []*Player
	for _, p := range players {
		if !p.room.Is(r) || p.role == nil {
			continue
		}
		switch {
		case p.role.OnCard && p.role.scene == scene:
			holders[p.role] = p
		case !p.role.OnCard:
			extras = append(extras, p)
		}
	}

	paid := false
	if len(holders) > 0 && len(scene.Roles) > 0 {
		rolls := make([]int, scene.Budget)
		for i := range rolls {
			rolls[i] = dice.Roll(6)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(rolls)))
		tiers := append([]*Role(nil), scene.Roles...)
		sort.SliceStable(tiers, func(i, j int) bool {
			return tiers[i].Rank > tiers[j].Rank
		})
		for i, roll := range rolls {
			if p, ok := holders[tiers[i%len(tiers)]]; ok {
				p.pay(Amount{Dollars: roll})
			}
		}
		for _, p := range extras {
			p.pay(Amount{Dollars: p.role.Rank})
		}
		paid = true
	}

	for _, p := range holders {
		p.clearRole()
	}
	for _, p := range extras {
		p.clearRole()
	}
	r.set.clear()
	return paid
}

func shotsLabel(n int) string {
	if n == 1 {
		return "1 shot left"
	}
	return strconv.Itoa(n) + " shots left"
}
