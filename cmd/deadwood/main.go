package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/appengine-ltd/deadwood/internal/config"
	"github.com/appengine-ltd/deadwood/internal/console"
	"github.com/appengine-ltd/deadwood/internal/content"
	"github.com/appengine-ltd/deadwood/internal/game"
	"github.com/appengine-ltd/deadwood/internal/ledger"
	"github.com/appengine-ltd/deadwood/internal/script"
	"github.com/appengine-ltd/deadwood/internal/update"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("deadwood: %v", err)
	}

	var (
		showVersion bool
		checkUpdate bool
		record      bool
		verbose     bool
		leaders     int
		names       string
	)

	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&checkUpdate, "check-update", false, "ask GitHub for a newer release and exit")
	flag.BoolVar(&record, "record", false, "keep finished games in the default results database")
	flag.BoolVar(&verbose, "v", false, "log engine activity to stderr")
	flag.IntVar(&leaders, "leaders", 0, "print the top N recorded scores and exit")
	flag.IntVar(&cfg.Players, "players", cfg.Players, "number of players (2-8)")
	flag.StringVar(&names, "names", strings.Join(cfg.Names, ","), "comma-separated player names")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "dice seed (0 picks one from the clock)")
	flag.IntVar(&cfg.DayEndsAt, "day-ends-at", cfg.DayEndsAt, "scenes left shooting when the day ends (0 or 1)")
	flag.IntVar(&cfg.RankBonus, "rank-bonus", cfg.RankBonus, "act roll bonus per rank above the role")
	flag.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "directory holding board.json and cards.json")
	flag.StringVar(&cfg.PolicyScript, "policy", cfg.PolicyScript, "Lua act policy script")
	flag.StringVar(&cfg.LedgerPath, "ledger", cfg.LedgerPath, "SQLite file for finished game results")
	flag.Parse()

	if showVersion {
		fmt.Printf("Deadwood %s (%s) %s\n", version, commit, date)
		return
	}
	cfg.Names = strings.Split(names, ",")

	if checkUpdate {
		msg, err := update.Checker{}.Check(context.Background(), version)
		if err != nil {
			config.Exitf("deadwood: check update: %v", err)
		}
		fmt.Println(msg)
		return
	}

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "[DEADWOOD] ", log.LstdFlags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, record, leaders, logger); err != nil {
		stop()
		config.Exitf("deadwood: %v", err)
	}
}

func run(ctx context.Context, cfg config.Deadwood, record bool, leaders int, logger *log.Logger) error {
	path, err := cfg.ResolveLedgerPath(record || leaders > 0)
	if err != nil {
		return err
	}
	var store *ledger.Store
	if path != "" {
		s, err := ledger.Open(ctx, path)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	if leaders > 0 {
		return printLeaders(ctx, store, leaders)
	}

	gameCfg, err := cfg.GameConfig()
	if err != nil {
		return err
	}

	set, err := loadContent(cfg.ContentDir)
	if err != nil {
		return err
	}
	lot, err := set.LoadLot()
	if err != nil {
		return err
	}

	var policy game.ActPolicy = game.DicePolicy{RankBonus: cfg.RankBonus}
	if cfg.PolicyScript != "" {
		p, err := script.Load(cfg.PolicyScript, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		policy = p
	}

	board, err := game.NewBoard(gameCfg, lot, set.Scenes, set.Extras,
		game.WithPolicy(policy),
		game.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	logger.Printf("game %s: %d players, policy %T", board.ID(), gameCfg.Players, policy)

	opts := console.Options{Out: os.Stdout, Logger: logger}
	if store != nil {
		opts.Ledger = store
	}
	return console.New(board, opts).Run(ctx, os.Stdin)
}

func loadContent(dir string) (content.Set, error) {
	if dir == "" {
		return content.Default()
	}
	return content.LoadDir(dir)
}

func printLeaders(ctx context.Context, store *ledger.Store, limit int) error {
	rows, err := store.Leaders(ctx, limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No finished games recorded yet.")
		return nil
	}
	for i, row := range rows {
		mark := ""
		if row.Winner {
			mark = " (won)"
		}
		fmt.Printf("%2d. %-16s %4d%s  %s\n", i+1, row.Name, row.Score, mark, row.FinishedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
