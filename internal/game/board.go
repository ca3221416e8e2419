package game

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyStarted = errors.New("game already started")
	ErrDeckExhausted  = errors.New("scene deck exhausted")
	ErrDuplicateRole  = errors.New("duplicate role name")
	ErrThreshold      = errors.New("day end threshold leaves no scene to wrap")
)

type Option func(*Board)

func WithDice(d Dice) Option {
	return func(b *Board) {
		if d != nil {
			b.dice = d
		}
	}
}

func WithPolicy(p ActPolicy) Option {
	return func(b *Board) {
		if p != nil {
			b.policy = p
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithID(id string) Option {
	return func(b *Board) {
		if strings.TrimSpace(id) != "" {
			b.id = id
		}
	}
}

// Board owns one game: seats, turn order, the scene deck and the day cycle.
// It is single-threaded; Process runs one command to completion and events
// are delivered synchronously before it returns.
type Board struct {
	id     string
	cfg    Config
	lot    *Lot
	deck   *Deck
	extras []*Role
	roles  map[string]*Role
	names  []string

	players []*Player
	queue   []*Player
	active  *Player

	day          int
	scenesActive int
	started      bool
	over         bool

	dice      Dice
	policy    ActPolicy
	validator Validator
	logger    *log.Logger

	subs   []subscription
	nextID int
}

func NewBoard(cfg Config, lot *Lot, scenes []*Scene, extras []*Role, opts ...Option) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("lot is required")
	}
	if cfg.DayEndsAt >= len(lot.SceneRooms()) {
		return nil, fmt.Errorf("%w: %d scene rooms, day ends at %d", ErrThreshold, len(lot.SceneRooms()), cfg.DayEndsAt)
	}

	b := &Board{
		id:     uuid.NewString(),
		cfg:    cfg,
		lot:    lot,
		extras: append([]*Role(nil), extras...),
		roles:  make(map[string]*Role),
		policy: DicePolicy{},
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.dice == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		b.dice = NewDice(seed)
	}

	for _, s := range scenes {
		if s == nil {
			continue
		}
		for _, r := range s.Roles {
			if err := b.addRole(r); err != nil {
				return nil, err
			}
		}
	}
	for _, r := range b.extras {
		if err := b.addRole(r); err != nil {
			return nil, err
		}
	}

	b.deck = NewDeck(scenes, b.dice)

	for seat := 0; seat < cfg.Players; seat++ {
		p := newPlayer(cfg.playerName(seat), seat, lot.Start())
		b.players = append(b.players, p)
		b.queue = append(b.queue, p)
	}
	return b, nil
}

func (b *Board) addRole(r *Role) error {
	key := nameKey(r.Name)
	if _, dup := b.roles[key]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateRole, r.Name)
	}
	b.roles[key] = r
	b.names = append(b.names, r.Name)
	return nil
}

// Subscribe attaches a listener and returns a func that detaches it.
func (b *Board) Subscribe(l Listener) func() {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: l})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Board) emit(e Event) {
	e.Day = b.day
	for _, s := range b.subs {
		s.fn(e)
	}
}

func (b *Board) output(format string, args ...any) {
	b.emit(Event{Kind: EventMessage, Message: fmt.Sprintf(format, args...)})
}

func (b *Board) stateChanged() {
	b.emit(Event{Kind: EventStateChanged, Active: b.active, Message: fmt.Sprintf("%s is up", b.active)})
}

// StartGame deals the first day and hands the first seat the turn.
func (b *Board) StartGame() error {
	if b.started {
		return ErrAlreadyStarted
	}
	b.started = true
	b.logger.Printf("game %s: starting with %d players, %d cards", b.id, len(b.players), b.deck.Remaining())

	b.newDay()
	b.promote()
	b.stateChanged()
	return nil
}

// Process validates and executes one raw command. A rejected command leaves
// every piece of state untouched; the rejection is both emitted and returned.
func (b *Board) Process(raw string) error {
	if err := b.validator.Validate(b, b.active, raw); err != nil {
		b.emit(Event{Kind: EventRejected, Message: err.Error(), Err: err})
		return err
	}

	fields := strings.Fields(raw)
	verb, args := strings.ToLower(fields[0]), fields[1:]
	b.logger.Printf("game %s day %d: %s> %s", b.id, b.day, b.active, strings.Join(fields, " "))

	p := b.active
	switch verb {
	case VerbWho:
		b.output("%s", p.Describe())
	case VerbWhere:
		b.output("%s", p.room.Describe())
	case VerbMove:
		target, _ := b.lot.Room(strings.Join(args, " "))
		p.move(target)
		b.output("%s moves to %s", p, target)
	case VerbRehearse:
		p.rehearse()
		b.output("%s rehearses for %s (%d/%d)", p, p.role.Name, p.rehearsals, p.role.scene.Budget-1)
	case VerbAct:
		b.act(p)
	case VerbUpgrade:
		currency, _ := ParseCurrency(args[0])
		rank, _ := strconv.Atoi(args[1])
		cost, _ := UpgradeCost(currency, rank)
		p.upgrade(rank, currency, cost)
		b.output("%s upgrades to rank %d for %d %s", p, rank, cost, currency)
	case VerbWork:
		if len(args) == 0 {
			b.output("%s", b.describeRoles(p.room))
			break
		}
		role, _ := b.Role(strings.Join(args, " "))
		p.takeRole(role)
		b.output("%s starts working as %s", p, role)
	case VerbEnd:
		b.output("%s ends their turn", p)
		b.queue = append(b.queue, p)
		b.promote()
	}

	b.stateChanged()
	return nil
}

func (b *Board) act(p *Player) {
	room := p.room
	scene := room.Scene()
	payout := b.policy.Resolve(ActAttempt{
		Rank:       p.rank,
		RoleRank:   p.role.Rank,
		Rehearsals: p.rehearsals,
		Budget:     scene.Budget,
		OnCard:     p.role.OnCard,
		Roll:       b.dice.Roll(6),
		Schedule:   scene.Payouts,
	})
	p.performed = true
	p.pay(payout.Amount())

	b.output("%s attempts to perform...", p)
	if !payout.Success() {
		b.output("Failure. Paid %s.", payout)
		return
	}
	b.output("Success! Paid %s.", payout)

	if !room.Set().DecrementShots() {
		b.output("%s: %s", room, shotsLabel(room.Set().Shots()))
		return
	}

	if room.Wrap(b.players, b.dice) {
		b.output("Scene wrapped, bonus payouts distributed")
	} else {
		b.output("Scene wrapped, but no bonuses given")
	}
	b.scenesActive--
	b.logger.Printf("game %s day %d: %s wrapped, %d scenes left", b.id, b.day, scene.Name, b.scenesActive)

	if b.scenesActive == b.cfg.DayEndsAt {
		b.queue = append(b.queue, p)
		b.newDay()
		b.promote()
	}
}

func (b *Board) promote() {
	b.active = b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	b.active.StartTurn()
}

func (b *Board) newDay() {
	if b.day > 0 {
		b.emit(Event{Kind: EventDayEnded, Message: fmt.Sprintf("Day %d ends, starting new day...", b.day)})
	}
	next := b.day + 1
	if next > b.MaxDays() {
		b.day = next
		b.over = true
		b.logger.Printf("game %s: out of days", b.id)
		b.emit(Event{Kind: EventGameOver, Message: "No more days! The shoot is over."})
		return
	}

	// A day that cannot be dealt is never counted as played.
	rooms := b.lot.SceneRooms()
	if b.deck.Remaining() < len(rooms) {
		b.over = true
		err := fmt.Errorf("%w: day %d needs %d cards, %d left", ErrDeckExhausted, next, len(rooms), b.deck.Remaining())
		b.logger.Printf("game %s: %v", b.id, err)
		b.emit(Event{Kind: EventFatal, Message: err.Error(), Err: err})
		return
	}
	b.day = next

	start := b.lot.Start()
	for _, p := range b.players {
		p.room = start
		p.clearRole()
	}

	b.scenesActive = 0
	for _, r := range rooms {
		scene, _ := b.deck.Draw()
		r.Set().Assign(scene)
		b.scenesActive++
	}
	b.output("Day %d of %d: %d scenes shooting", b.day, b.MaxDays(), b.scenesActive)
}

// EndGame announces the winners: every player sharing the highest score.
func (b *Board) EndGame() []*Player {
	var winners []*Player
	for _, p := range b.players {
		switch {
		case len(winners) == 0 || p.Score() > winners[0].Score():
			winners = []*Player{p}
		case p.Score() == winners[0].Score():
			winners = append(winners, p)
		}
	}
	names := make([]string, 0, len(winners))
	for _, w := range winners {
		names = append(names, w.Name)
	}
	b.emit(Event{Kind: EventGameOver, Message: fmt.Sprintf("Game Over! %s wins!", strings.Join(names, ", "))})
	return winners
}

func (b *Board) describeRoles(room *Room) string {
	var parts []string
	add := func(r *Role) {
		if holderOf(b.players, r) != nil {
			return
		}
		parts = append(parts, r.String())
	}
	if scene := room.Scene(); scene != nil {
		for _, r := range scene.Roles {
			add(r)
		}
	}
	for _, r := range b.extras {
		add(r)
	}
	if len(parts) == 0 {
		return "No roles available here"
	}
	return "Roles here: " + strings.Join(parts, ", ")
}

// AvailableRoles lists the roles the player could take in their room right
// now, ignoring per-turn limits.
func (b *Board) AvailableRoles(p *Player) []*Role {
	set := p.room.Set()
	if set == nil || !set.Active() {
		return nil
	}
	var out []*Role
	for _, r := range append(append([]*Role(nil), set.Scene().Roles...), b.extras...) {
		if holderOf(b.players, r) == nil && r.Rank <= p.rank {
			out = append(out, r)
		}
	}
	return out
}

func (b *Board) ID() string { return b.id }
func (b *Board) Lot() *Lot { return b.lot }
func (b *Board) Active() *Player { return b.active }
func (b *Board) Day() int { return b.day }
func (b *Board) MaxDays() int { return b.cfg.MaxDays() }
func (b *Board) ScenesActive() int { return b.scenesActive }
func (b *Board) DeckRemaining() int { return b.deck.Remaining() }
func (b *Board) Over() bool { return b.over }
func (b *Board) Started() bool { return b.started }
func (b *Board) Extras() []*Role { return append([]*Role(nil), b.extras...) }
func (b *Board) RoleNames() []string { return append([]string(nil), b.names...) }

func (b *Board) Players() []*Player {
	return append([]*Player(nil), b.players...)
}

func (b *Board) Queue() []*Player {
	return append([]*Player(nil), b.queue...)
}

func (b *Board) Role(name string) (*Role, bool) {
	r, ok := b.roles[nameKey(name)]
	return r, ok
}

// PlayerImages returns every seat's token art in seat order.
func (b *Board) PlayerImages() []string {
	imgs := make([]string, 0, len(b.players))
	for _, p := range b.players {
		imgs = append(imgs, p.Image())
	}
	return imgs
}
