package game

import (
	"fmt"
	"strings"
)

type Currency string

const (
	Dollars Currency = "dollars"
	Credits Currency = "credits"
)

func ParseCurrency(token string) (Currency, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "dollars", "dollar", "$", "cash", "money":
		return Dollars, true
	case "credits", "credit", "cr", "fame":
		return Credits, true
	default:
		return "", false
	}
}

// upgradeCosts is the casting office price list, indexed by target rank.
var upgradeCosts = map[Currency][MaxRank + 1]int{
	Dollars: {0, 0, 4, 10, 18, 28, 40},
	Credits: {0, 0, 5, 10, 15, 20, 25},
}

func UpgradeCost(currency Currency, rank int) (int, bool) {
	table, ok := upgradeCosts[currency]
	if !ok || rank < 2 || rank > MaxRank {
		return 0, false
	}
	return table[rank], true
}

var seatColours = []string{"b", "c", "g", "o", "p", "r", "v", "y"}

type Player struct {
	Name string
	Seat int

	room       *Room
	role       *Role
	rank       int
	dollars    int
	credits    int
	rehearsals int

	moved     bool
	worked    bool
	performed bool
	turns     int
}

func newPlayer(name string, seat int, start *Room) *Player {
	return &Player{
		Name: name,
		Seat: seat,
		room: start,
		rank: 1,
	}
}

func (p *Player) Room() *Room { return p.room }
func (p *Player) Role() *Role { return p.role }
func (p *Player) Rank() int { return p.rank }
func (p *Player) Dollars() int { return p.dollars }
func (p *Player) Credits() int { return p.credits }
func (p *Player) Rehearsals() int { return p.rehearsals }
func (p *Player) Turns() int { return p.turns }

func (p *Player) Balance(c Currency) int {
	switch c {
	case Dollars:
		return p.dollars
	case Credits:
		return p.credits
	default:
		return 0
	}
}

func (p *Player) Score() int {
	return p.dollars + p.credits + 5*p.rank
}

// Image names the player's token art: seat colour plus rank, e.g. "b3".
func (p *Player) Image() string {
	return fmt.Sprintf("%s%d", seatColours[p.Seat%len(seatColours)], p.rank)
}

// StartTurn clears the per-turn action allowances.
func (p *Player) StartTurn() {
	p.moved = false
	p.worked = false
	p.performed = false
	p.turns++
}

func (p *Player) move(to *Room) {
	p.room = to
	p.moved = true
}

func (p *Player) takeRole(r *Role) {
	if p.role != r {
		p.rehearsals = 0
	}
	p.role = r
	p.worked = true
}

func (p *Player) clearRole() {
	p.role = nil
	p.rehearsals = 0
}

func (p *Player) rehearse() {
	p.rehearsals++
	p.performed = true
}

func (p *Player) upgrade(rank int, currency Currency, cost int) {
	switch currency {
	case Dollars:
		p.dollars -= cost
	case Credits:
		p.credits -= cost
	}
	if rank > p.rank {
		p.rank = rank
	}
}

func (p *Player) pay(a Amount) {
	p.dollars += a.Dollars
	p.credits += a.Credits
}

func (p *Player) String() string {
	return p.Name
}

// Describe renders the who line.
func (p *Player) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (rank %d, $%d, %d credits, score %d) in %s", p.Name, p.rank, p.dollars, p.credits, p.Score(), p.room)
	if p.role != nil {
		fmt.Fprintf(&b, ", working %s", p.role)
		if p.role.OnCard {
			fmt.Fprintf(&b, " with %d rehearsal", p.rehearsals)
			if p.rehearsals != 1 {
				b.WriteString("s")
			}
		}
	}
	return b.String()
}
