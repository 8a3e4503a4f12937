// Package history keeps a local audit log of every change an operator attempted
// through the console.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const (
	ActionSaveForwardNumber = "save-forward-number"
	ActionSetForwardStatus  = "set-forward-status"
	ActionRelayMessage      = "relay-message"
)

type Entry struct {
	ID           int64
	At           time.Time
	Action       string
	MobileNumber string
	Detail       string
	OK           bool
	Message      string
}

// Recorder is what workflows need to log an attempt.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	at            TEXT    NOT NULL,
	action        TEXT    NOT NULL,
	mobile_number TEXT    NOT NULL,
	detail        TEXT    NOT NULL DEFAULT '',
	ok            INTEGER NOT NULL,
	message       TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS entries_mobile ON entries (mobile_number);
`

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=2000")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	ok := 0
	if e.OK {
		ok = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (at, action, mobile_number, detail, ok, message) VALUES (?, ?, ?, ?, ?, ?)`,
		e.At.UTC().Format(time.RFC3339Nano), e.Action, e.MobileNumber, e.Detail, ok, e.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx,
		`SELECT id, at, action, mobile_number, detail, ok, message FROM entries ORDER BY id DESC LIMIT ?`, limit)
}

// ForMobile returns up to limit entries about one user, newest first.
func (s *Store) ForMobile(ctx context.Context, mobile string, limit int) ([]Entry, error) {
	return s.query(ctx,
		`SELECT id, at, action, mobile_number, detail, ok, message FROM entries
		 WHERE mobile_number = ? ORDER BY id DESC LIMIT ?`, mobile, limit)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			at string
			ok int
		)
		if err := rows.Scan(&e.ID, &at, &e.Action, &e.MobileNumber, &e.Detail, &ok, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		e.OK = ok == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
