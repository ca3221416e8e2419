// Package ledger keeps a SQLite history of finished games.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/appengine-ltd/deadwood/internal/ledger/migrations"
)

var (
	ErrNotFound        = errors.New("game not found")
	ErrAlreadyRecorded = errors.New("game already recorded")
)

// Store persists finished game results in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite ledger and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record stores one finished game and returns its ID, generating one when
// the result has none.
func (s *Store) Record(ctx context.Context, r Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	if len(r.Players) == 0 {
		return "", fmt.Errorf("result has no players")
	}
	id := strings.TrimSpace(r.GameID)
	if id == "" {
		id = uuid.NewString()
	}
	finished := r.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin record: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO games (game_id, finished_at, days_played, player_count) VALUES (?, ?, ?, ?)`,
		id, toMillis(finished), r.DaysPlayed, len(r.Players),
	); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %s", ErrAlreadyRecorded, id)
		}
		return "", fmt.Errorf("insert game: %w", err)
	}
	for _, p := range r.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO game_players (game_id, seat, name, rank, dollars, credits, score, winner)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.Seat, p.Name, p.Rank, p.Dollars, p.Credits, p.Score, p.Winner,
		); err != nil {
			return "", fmt.Errorf("insert player %s: %w", p.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit record: %w", err)
	}
	return id, nil
}

// Game returns one recorded game with its players in seat order.
func (s *Store) Game(ctx context.Context, id string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Result{}, fmt.Errorf("storage is not configured")
	}

	r := Result{GameID: strings.TrimSpace(id)}
	var finished int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT finished_at, days_played FROM games WHERE game_id = ?`, r.GameID,
	).Scan(&finished, &r.DaysPlayed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, fmt.Errorf("%w: %s", ErrNotFound, r.GameID)
		}
		return Result{}, fmt.Errorf("get game: %w", err)
	}
	r.FinishedAt = fromMillis(finished)

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seat, name, rank, dollars, credits, score, winner
		   FROM game_players
		  WHERE game_id = ?
		  ORDER BY seat`, r.GameID)
	if err != nil {
		return Result{}, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p PlayerResult
		if err := rows.Scan(&p.Seat, &p.Name, &p.Rank, &p.Dollars, &p.Credits, &p.Score, &p.Winner); err != nil {
			return Result{}, fmt.Errorf("scan player: %w", err)
		}
		r.Players = append(r.Players, p)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("list players: %w", err)
	}
	return r, nil
}

// Leaders returns the best individual scores across all recorded games.
func (s *Store) Leaders(ctx context.Context, limit int) ([]Leader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT p.game_id, p.name, p.score, p.winner, g.finished_at
		   FROM game_players p
		   JOIN games g ON g.game_id = p.game_id
		  ORDER BY p.score DESC, g.finished_at ASC, p.seat ASC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list leaders: %w", err)
	}
	defer rows.Close()

	var out []Leader
	for rows.Next() {
		var l Leader
		var finished int64
		if err := rows.Scan(&l.GameID, &l.Name, &l.Score, &l.Winner, &finished); err != nil {
			return nil, fmt.Errorf("scan leader: %w", err)
		}
		l.FinishedAt = fromMillis(finished)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leaders: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
