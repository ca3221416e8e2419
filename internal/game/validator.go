package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/appengine-ltd/deadwood/internal/parser"
)

const (
	VerbWho      = "who"
	VerbWhere    = "where"
	VerbMove     = "move"
	VerbRehearse = "rehearse"
	VerbAct      = "act"
	VerbUpgrade  = "upgrade"
	VerbWork     = "work"
	VerbEnd      = "end"
)

var (
	ErrNotStarted        = errors.New("the game has not started")
	ErrGameOver          = errors.New("the game is over")
	ErrEmptyCommand      = errors.New("enter a command")
	ErrUnknownVerb       = errors.New("unknown command")
	ErrMissingArgument   = errors.New("missing argument")
	ErrUnknownRoom       = errors.New("no such room")
	ErrNotAdjacent       = errors.New("room is not adjacent")
	ErrAlreadyMoved      = errors.New("already moved this turn")
	ErrAlreadyPerformed  = errors.New("already acted or rehearsed this turn")
	ErrWorking           = errors.New("cannot leave while working a role")
	ErrNoRole            = errors.New("not working a role")
	ErrExtraRehearsal    = errors.New("extras do not rehearse")
	ErrRehearsalMaxed    = errors.New("already guaranteed to succeed")
	ErrJustCast          = errors.New("role was taken this turn")
	ErrNoActiveScene     = errors.New("no scene is shooting here")
	ErrUnknownCurrency   = errors.New("unknown currency")
	ErrBadRank           = errors.New("invalid rank")
	ErrRankNotHigher     = errors.New("rank must be higher than current rank")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotInOffice       = errors.New("upgrades are only sold at the casting office")
	ErrUnknownRole       = errors.New("no such role")
	ErrAlreadyWorking    = errors.New("already working a role")
	ErrAlreadyWorked     = errors.New("already took a role this turn")
	ErrRoleTaken         = errors.New("role is taken")
	ErrRankTooLow        = errors.New("rank too low for role")
	ErrNotOnSet          = errors.New("role is not part of the scene shooting here")
)

// View is the read-only board state the validator inspects.
type View interface {
	Lot() *Lot
	Players() []*Player
	Role(name string) (*Role, bool)
	RoleNames() []string
	Over() bool
}

// Validator checks a raw command against the current state. It holds no
// state of its own and never mutates what it inspects; a nil error means the
// command may be executed.
type Validator struct{}

func (Validator) Validate(v View, p *Player, raw string) error {
	if v.Over() {
		return ErrGameOver
	}
	if p == nil {
		return ErrNotStarted
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ErrEmptyCommand
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case VerbWho, VerbWhere, VerbEnd:
		return nil
	case VerbMove:
		return checkMove(v, p, args)
	case VerbRehearse:
		return checkRehearse(p)
	case VerbAct:
		return checkAct(p)
	case VerbUpgrade:
		return checkUpgrade(v, p, args)
	case VerbWork:
		return checkWork(v, p, args)
	default:
		return fmt.Errorf("%w: %q (try who, where, move, work, rehearse, act, upgrade, end)", ErrUnknownVerb, fields[0])
	}
}

func checkMove(v View, p *Player, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: move where? (connects to %s)", ErrMissingArgument, strings.Join(p.room.AdjacentNames(), ", "))
	}
	if p.role != nil {
		return fmt.Errorf("%w: %s", ErrWorking, p.role.Name)
	}
	if p.moved {
		return ErrAlreadyMoved
	}
	if p.performed {
		return ErrAlreadyPerformed
	}
	name := strings.Join(args, " ")
	target, ok := v.Lot().Room(name)
	if !ok {
		return withHint(fmt.Errorf("%w: %q", ErrUnknownRoom, name), name, v.Lot().Names())
	}
	if !p.room.IsAdjacent(target) {
		return fmt.Errorf("%w: %s does not connect to %s (connects to %s)", ErrNotAdjacent, p.room, target, strings.Join(p.room.AdjacentNames(), ", "))
	}
	return nil
}

func checkRehearse(p *Player) error {
	if p.role == nil {
		return ErrNoRole
	}
	if !p.role.OnCard {
		return fmt.Errorf("%w: %s", ErrExtraRehearsal, p.role.Name)
	}
	if p.worked {
		return ErrJustCast
	}
	if p.performed {
		return ErrAlreadyPerformed
	}
	scene := p.room.Scene()
	if scene == nil || scene != p.role.scene {
		return ErrNoActiveScene
	}
	if p.rehearsals >= scene.Budget-1 {
		return fmt.Errorf("%w: %d rehearsals on a $%dM budget", ErrRehearsalMaxed, p.rehearsals, scene.Budget)
	}
	return nil
}

func checkAct(p *Player) error {
	if p.role == nil {
		return ErrNoRole
	}
	switch p.room.Kind() {
	case RoomPlain:
		return ErrNoActiveScene
	case RoomScene:
		set := p.room.Set()
		if !set.Active() {
			return ErrNoActiveScene
		}
		if p.role.OnCard && p.role.scene != set.Scene() {
			return fmt.Errorf("%w: %s", ErrNotOnSet, p.role.Name)
		}
	}
	if p.worked {
		return ErrJustCast
	}
	if p.performed {
		return ErrAlreadyPerformed
	}
	return nil
}

func checkUpgrade(v View, p *Player, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: upgrade <dollars|credits> <rank>", ErrMissingArgument)
	}
	currency, ok := ParseCurrency(args[0])
	if !ok {
		return fmt.Errorf("%w: %q (dollars or credits)", ErrUnknownCurrency, args[0])
	}
	rank, err := strconv.Atoi(args[1])
	if err != nil || rank < 1 || rank > MaxRank {
		return fmt.Errorf("%w: %q (1-%d)", ErrBadRank, args[1], MaxRank)
	}
	if office := v.Lot().Office(); office != nil && !p.room.Is(office) {
		return ErrNotInOffice
	}
	if rank <= p.rank {
		return fmt.Errorf("%w: already rank %d", ErrRankNotHigher, p.rank)
	}
	cost, _ := UpgradeCost(currency, rank)
	if have := p.Balance(currency); have < cost {
		return fmt.Errorf("%w: rank %d costs %d %s, you have %d", ErrInsufficientFunds, rank, cost, currency, have)
	}
	return nil
}

func checkWork(v View, p *Player, args []string) error {
	set := p.room.Set()
	if len(args) == 0 {
		if set == nil || !set.Active() {
			return ErrNoActiveScene
		}
		return nil
	}
	if p.role != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyWorking, p.role.Name)
	}
	if p.worked {
		return ErrAlreadyWorked
	}
	if p.performed {
		return ErrAlreadyPerformed
	}
	name := strings.Join(args, " ")
	role, ok := v.Role(name)
	if !ok {
		return withHint(fmt.Errorf("%w: %q", ErrUnknownRole, name), name, v.RoleNames())
	}
	if holder := holderOf(v.Players(), role); holder != nil && holder != p {
		return fmt.Errorf("%w: %s is played by %s", ErrRoleTaken, role.Name, holder)
	}
	if role.Rank > p.rank {
		return fmt.Errorf("%w: %s needs rank %d", ErrRankTooLow, role.Name, role.Rank)
	}
	if set == nil || !set.Active() {
		return ErrNoActiveScene
	}
	if role.OnCard && role.scene != set.Scene() {
		return fmt.Errorf("%w: %s", ErrNotOnSet, role.Name)
	}
	return nil
}

func holderOf(players []*Player, role *Role) *Player {
	for _, p := range players {
		if p.role == role {
			return p
		}
	}
	return nil
}

func withHint(err error, input string, candidates []string) error {
	if hint := parser.Suggest(input, candidates); hint != "" {
		return fmt.Errorf("%w, did you mean %s?", err, hint)
	}
	return err
}
