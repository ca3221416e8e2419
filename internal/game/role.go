package game

import "fmt"

const MaxRank = 6

// Role is a part a player can hold. On-card roles belong to one scene card
// and are only workable on the set currently shooting that card; extras
// belong to no card and can be worked on any set with an active scene.
type Role struct {
	Name   string
	Line   string
	Rank   int
	OnCard bool

	scene *Scene
}

func NewExtra(name, line string, rank int) *Role {
	return &Role{Name: name, Line: line, Rank: rank}
}

func (r *Role) Scene() *Scene {
	if r == nil {
		return nil
	}
	return r.scene
}

func (r *Role) String() string {
	if r == nil {
		return "nothing"
	}
	return fmt.Sprintf("%s (rank %d)", r.Name, r.Rank)
}
