package game

import (
	"fmt"
	"strings"
)

type Amount struct {
	Dollars int
	Credits int
}

func (a Amount) IsZero() bool {
	return a.Dollars == 0 && a.Credits == 0
}

func (a Amount) String() string {
	parts := make([]string, 0, 2)
	if a.Dollars > 0 {
		parts = append(parts, fmt.Sprintf("$%d", a.Dollars))
	}
	if a.Credits == 1 {
		parts = append(parts, "1 credit")
	} else if a.Credits > 0 {
		parts = append(parts, fmt.Sprintf("%d credits", a.Credits))
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, " and ")
}

// PayoutSchedule is what an act attempt pays, keyed by role type and outcome.
type PayoutSchedule struct {
	OnCardSuccess Amount
	OnCardFailure Amount
	ExtraSuccess  Amount
	ExtraFailure  Amount
}

func DefaultPayouts() PayoutSchedule {
	return PayoutSchedule{
		OnCardSuccess: Amount{Credits: 2},
		ExtraSuccess:  Amount{Dollars: 1, Credits: 1},
		ExtraFailure:  Amount{Dollars: 1},
	}
}

func (s PayoutSchedule) For(onCard, success bool) Amount {
	switch {
	case onCard && success:
		return s.OnCardSuccess
	case onCard:
		return s.OnCardFailure
	case success:
		return s.ExtraSuccess
	default:
		return s.ExtraFailure
	}
}

// Scene is a scene card. Budget doubles as the act difficulty and the number
// of bonus dice rolled when the scene wraps.
type Scene struct {
	Name        string
	Number      int
	Description string
	Budget      int
	Shots       int
	Roles       []*Role
	Payouts     PayoutSchedule
}

// NewScene builds a card and claims the given roles as its on-card roles.
func NewScene(name string, budget, shots int, roles []*Role) *Scene {
	s := &Scene{
		Name:    name,
		Budget:  budget,
		Shots:   shots,
		Payouts: DefaultPayouts(),
	}
	for _, r := range roles {
		if r == nil {
			continue
		}
		r.OnCard = true
		r.scene = s
		s.Roles = append(s.Roles, r)
	}
	return s
}

func (s *Scene) String() string {
	if s == nil {
		return "nothing"
	}
	return fmt.Sprintf("%s ($%dM budget)", s.Name, s.Budget)
}
