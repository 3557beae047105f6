// Package history persists executed toggle actions in a local SQLite
// database so past behavior can be inspected from the CLI and the TUI.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eraxe/kayland/internal/engine"
)

// Store is the action log. All writes go through a single connection.
type Store struct {
	db    *sql.DB
	limit int
}

// Entry is one recorded toggle outcome.
type Entry struct {
	ID       int64
	When     time.Time
	Alias    string
	Action   string
	WindowID string
	Command  string
	OK       bool
	Detail   string
}

// Open creates or opens the database at path and applies pending
// migrations. A limit above zero caps the number of retained entries.
func Open(ctx context.Context, path string, limit int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		db.Close()
		return nil, fmt.Errorf("chmod history db: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, limit: limit}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record implements engine.Recorder.
func (s *Store) Record(o engine.Outcome) error {
	return s.Append(context.Background(), o)
}

// Append inserts one outcome and prunes entries beyond the retention limit.
func (s *Store) Append(ctx context.Context, o engine.Outcome) error {
	when := o.When
	if when.IsZero() {
		when = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO actions(ts, alias, action, window_id, command, ok, detail)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, ts(when), o.Alias, string(o.Action.Kind), o.Action.WindowID, o.Action.Command, boolToInt(o.OK), o.Detail)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return s.Prune(ctx)
}

// Prune drops the oldest entries beyond the retention limit. It also runs
// after every append, so a periodic call only matters when another process
// wrote entries in between.
func (s *Store) Prune(ctx context.Context) error {
	if s.limit <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
DELETE FROM actions
WHERE id NOT IN (SELECT id FROM actions ORDER BY id DESC LIMIT ?)
`, s.limit)
	if err != nil {
		return fmt.Errorf("prune actions: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, ts, alias, action, window_id, command, ok, detail
FROM actions
ORDER BY id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			stamp string
			ok    int
		)
		if err := rows.Scan(&e.ID, &stamp, &e.Alias, &e.Action, &e.WindowID, &e.Command, &ok, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		when, err := parseTS(stamp)
		if err != nil {
			return nil, fmt.Errorf("parse action timestamp: %w", err)
		}
		e.When = when
		e.OK = ok != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return entries, nil
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ engine.Recorder = (*Store)(nil)
