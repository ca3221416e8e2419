// Package console runs a board as a line-oriented terminal game.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/appengine-ltd/deadwood/internal/game"
	"github.com/appengine-ltd/deadwood/internal/ledger"
	"github.com/appengine-ltd/deadwood/internal/parser"
)

// Recorder stores finished games; *ledger.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, r ledger.Result) (string, error)
}

type Options struct {
	Out       io.Writer
	Ledger    Recorder
	Logger    *log.Logger
	QueueSize int
	Now       func() time.Time
}

type Console struct {
	board  *game.Board
	parser *parser.Parser
	out    io.Writer
	ledger Recorder
	logger *log.Logger
	now    func() time.Time
	size   int

	events  <-chan game.Event
	pending []parser.Intent
	last    string
	done    bool
}

func New(b *game.Board, opts Options) *Console {
	c := &Console{
		board:  b,
		parser: parser.New(),
		out:    opts.Out,
		ledger: opts.Ledger,
		logger: opts.Logger,
		now:    opts.Now,
		size:   opts.QueueSize,
	}
	if c.out == nil {
		c.out = io.Discard
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Run starts the game if needed and plays commands read from in until the
// game ends, the input runs out, quit is entered or ctx is cancelled.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, stop := Events(c.board, 256)
	defer stop()
	c.events = events

	if !c.board.Started() {
		if err := c.board.StartGame(); err != nil {
			return err
		}
	}
	c.drain()

	queue := newLineQueue(c.size)
	go func() {
		defer queue.close()
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if !queue.Enqueue(ctx, scanner.Text()) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			c.logger.Printf("console: read input: %v", err)
		}
	}()

	for !c.done {
		if c.board.Over() {
			return c.finish(ctx)
		}
		c.prompt()
		line, ok := queue.Dequeue(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return nil
		}
		c.handle(ctx, line)
	}
	return nil
}

func (c *Console) prompt() {
	if p := c.board.Active(); p != nil {
		fmt.Fprintf(c.out, "%s> ", p.Name)
	}
}

func (c *Console) handle(ctx context.Context, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	intent, ok := c.pick(line)
	if !ok {
		intent = c.parser.Parse(c.parseContext(), line)
	}
	if intent.Clarify != nil {
		c.clarify(intent.Clarify)
		return
	}
	c.pending = nil

	switch intent.Kind {
	case parser.Meta:
		c.meta(intent.Verb)
		return
	case parser.Unknown:
		fmt.Fprintln(c.out, "Unknown command. Type help for a list.")
		return
	}

	cmd := parser.IntentToCommandString(intent)
	c.logger.Printf("console: %q -> %q", line, cmd)
	if err := c.board.Process(cmd); err == nil && len(intent.Args) > 0 {
		switch intent.Verb {
		case game.VerbMove, game.VerbWork:
			c.last = intent.Args[0]
		}
	}
	c.drain()
}

// pick resolves a numeric reply to the last clarify question.
func (c *Console) pick(line string) (parser.Intent, bool) {
	if len(c.pending) == 0 {
		return parser.Intent{}, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(c.pending) {
		return parser.Intent{}, false
	}
	return c.pending[n-1], true
}

func (c *Console) clarify(q *parser.ClarifyQuestion) {
	fmt.Fprintln(c.out, q.Prompt)
	c.pending = q.Options
	for i, opt := range q.Options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, parser.IntentToCommandString(opt))
	}
}

func (c *Console) parseContext() parser.ParseContext {
	ctx := parser.ParseContext{
		Rooms:      c.board.Lot().Names(),
		Roles:      c.board.RoleNames(),
		LastEntity: c.last,
	}
	if p := c.board.Active(); p != nil {
		ctx.Adjacent = p.Room().AdjacentNames()
		for _, r := range c.board.AvailableRoles(p) {
			ctx.Available = append(ctx.Available, r.Name)
		}
	}
	return ctx
}

func (c *Console) meta(verb string) {
	switch verb {
	case "help":
		for _, def := range c.parser.Commands() {
			fmt.Fprintf(c.out, "  %s\n", def.Usage)
		}
	case "quit":
		fmt.Fprintln(c.out, "Leaving the lot. That's a wrap.")
		c.done = true
	case "score":
		c.standings()
	case "players":
		order := append([]*game.Player{c.board.Active()}, c.board.Queue()...)
		names := make([]string, 0, len(order))
		for _, p := range order {
			names = append(names, p.Name)
		}
		fmt.Fprintf(c.out, "Day %d of %d. Turn order: %s\n", c.board.Day(), c.board.MaxDays(), strings.Join(names, ", "))
	case "roles":
		roles := c.board.AvailableRoles(c.board.Active())
		if len(roles) == 0 {
			fmt.Fprintln(c.out, "No roles you can take here.")
			return
		}
		for _, r := range roles {
			kind := "extra"
			if r.OnCard {
				kind = "on card"
			}
			fmt.Fprintf(c.out, "  %s, %s: %q\n", r, kind, r.Line)
		}
	}
}

func (c *Console) standings() {
	players := c.board.Players()
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score() > players[j].Score()
	})
	for _, p := range players {
		fmt.Fprintf(c.out, "  %-12s score %3d (rank %d, $%d, %d credits)\n", p.Name, p.Score(), p.Rank(), p.Dollars(), p.Credits())
	}
}

func (c *Console) finish(ctx context.Context) error {
	winners := c.board.EndGame()
	c.drain()
	c.standings()
	c.done = true
	if c.ledger == nil {
		return nil
	}
	id, err := c.ledger.Record(ctx, ledger.FromBoard(c.board, winners, c.now()))
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	fmt.Fprintf(c.out, "Result recorded as %s\n", id)
	return nil
}

func (c *Console) drain() {
	for {
		select {
		case e := <-c.events:
			c.print(e)
		default:
			return
		}
	}
}

func (c *Console) print(e game.Event) {
	switch e.Kind {
	case game.EventMessage:
		fmt.Fprintln(c.out, e.Message)
	case game.EventRejected:
		fmt.Fprintf(c.out, "Can't do that: %s\n", e.Message)
	case game.EventStateChanged:
		fmt.Fprintf(c.out, "-- %s --\n", e.Message)
	case game.EventDayEnded, game.EventGameOver:
		fmt.Fprintf(c.out, "*** %s ***\n", e.Message)
	case game.EventFatal:
		fmt.Fprintf(c.out, "FATAL: %s\n", e.Message)
		c.logger.Printf("console: fatal board event: %v", e.Err)
	}
}
