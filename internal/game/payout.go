package game

import (
	"errors"
	"fmt"
)

// Payout is the immutable result of one act attempt.
type Payout struct {
	success bool
	amount  Amount
}

func NewPayout(success bool, amount Amount) Payout {
	return Payout{success: success, amount: amount}
}

func (p Payout) Success() bool { return p.success }
func (p Payout) Amount() Amount { return p.amount }

func (p Payout) String() string {
	return p.amount.String()
}

// ActAttempt is everything a policy may look at. Roll is a d6 already thrown
// by the board so outcomes follow the game's seeded dice.
type ActAttempt struct {
	Rank       int
	RoleRank   int
	Rehearsals int
	Budget     int
	OnCard     bool
	Roll       int
	Schedule   PayoutSchedule
}

// ActPolicy decides act outcomes. Implementations must be monotone: raising
// Rank or Rehearsals with everything else fixed never turns a success into a
// failure.
type ActPolicy interface {
	Resolve(ActAttempt) Payout
}

// DicePolicy is the board game rule: the roll plus rehearsals (plus
// RankBonus per rank above the role's requirement) must meet the budget.
type DicePolicy struct {
	RankBonus int
}

func (d DicePolicy) Resolve(a ActAttempt) Payout {
	bonus := max(0, d.RankBonus) * max(0, a.Rank-a.RoleRank)
	success := a.Roll+a.Rehearsals+bonus >= a.Budget
	return NewPayout(success, a.Schedule.For(a.OnCard, success))
}

var ErrNotMonotone = errors.New("act policy is not monotone")

// CheckMonotone sweeps the rank and rehearsal space of a policy and reports
// the first attempt where improving either one loses a success.
func CheckMonotone(policy ActPolicy) error {
	schedule := DefaultPayouts()
	for budget := 1; budget <= 6; budget++ {
		for roleRank := 1; roleRank <= MaxRank; roleRank++ {
			for roll := 1; roll <= 6; roll++ {
				for _, onCard := range []bool{true, false} {
					for rank := roleRank; rank <= MaxRank; rank++ {
						for reh := 0; reh < budget; reh++ {
							base := ActAttempt{Rank: rank, RoleRank: roleRank, Rehearsals: reh, Budget: budget, OnCard: onCard, Roll: roll, Schedule: schedule}
							if !policy.Resolve(base).Success() {
								continue
							}
							if rank < MaxRank {
								up := base
								up.Rank++
								if !policy.Resolve(up).Success() {
									return fmt.Errorf("%w: rank %d->%d lost success (%+v)", ErrNotMonotone, rank, rank+1, base)
								}
							}
							more := base
							more.Rehearsals++
							if !policy.Resolve(more).Success() {
								return fmt.Errorf("%w: rehearsals %d->%d lost success (%+v)", ErrNotMonotone, reh, reh+1, base)
							}
						}
					}
				}
			}
		}
	}
	return nil
}
