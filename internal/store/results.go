// Package store persists finished-game results in SQLite.
//
// The store is optional: the server only opens it when HANGMAN_RESULTS_DB
// is set, and a write failure never affects a running session. It records
// outcome history, not session state — reconnecting always starts a fresh
// game.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome values written to the results table.
const (
	OutcomeWon       = "won"
	OutcomeLost      = "lost"
	OutcomeAbandoned = "abandoned"
)

// ErrClosed is returned for operations on a closed store.
var ErrClosed = errors.New("results store is closed")

// Result is one finished (or abandoned) game.
type Result struct {
	Word       string
	Outcome    string
	Incorrect  int
	FinishedAt time.Time
}

// Totals aggregates the results table for the stats endpoint.
type Totals struct {
	Played    int64 `json:"played"`
	Won       int64 `json:"won"`
	Lost      int64 `json:"lost"`
	Abandoned int64 `json:"abandoned"`
}

// Store wraps the SQLite handle. Safe for concurrent use; database/sql
// serializes access to the single connection sqlite allows for writes.
type Store struct {
	db *sql.DB
}

// Open creates or opens the results database at path, enables WAL mode and
// a busy timeout, and applies the schema idempotently.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS results (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		word        TEXT NOT NULL,
		outcome     TEXT NOT NULL,
		incorrect   INTEGER NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts one finished game.
func (s *Store) Record(ctx context.Context, r Result) error {
	if s.db == nil {
		return ErrClosed
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (word, outcome, incorrect, finished_at) VALUES (?, ?, ?, ?)`,
		r.Word, r.Outcome, r.Incorrect, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// TotalsFor aggregates all recorded results.
func (s *Store) TotalsFor(ctx context.Context) (Totals, error) {
	if s.db == nil {
		return Totals{}, ErrClosed
	}
	var t Totals
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(outcome = ?), 0),
		       COALESCE(SUM(outcome = ?), 0),
		       COALESCE(SUM(outcome = ?), 0)
		FROM results`,
		OutcomeWon, OutcomeLost, OutcomeAbandoned)
	if err := row.Scan(&t.Played, &t.Won, &t.Lost, &t.Abandoned); err != nil {
		return Totals{}, fmt.Errorf("aggregate results: %w", err)
	}
	return t, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
