package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/pidgix/internal/translation"
)

// MaxEntries is the number of results kept; older ones are evicted
const MaxEntries = 50

// toneKey is the settings key holding the persisted tone
const toneKey = "pidgix-tone"

const schema = `
CREATE TABLE IF NOT EXISTS results (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	original   TEXT NOT NULL,
	translated TEXT NOT NULL,
	tone       TEXT NOT NULL,
	direction  TEXT NOT NULL DEFAULT '',
	created_ms INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store is the local history of translations
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the database location under the user's state directory
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "pidgix", "history.db")
}

// Open opens or creates the history database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite allows one writer; a single connection keeps append+prune atomic
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores r as the newest entry and evicts everything beyond MaxEntries
func (s *Store) Append(ctx context.Context, r Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (id, original, translated, tone, direction, created_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Original, r.Translated, string(r.Tone), string(r.Direction), r.Timestamp.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM results WHERE seq NOT IN (SELECT seq FROM results ORDER BY seq DESC LIMIT ?)`,
		MaxEntries)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	return tx.Commit()
}

// LoadAll returns every stored result, newest first
func (s *Store) LoadAll(ctx context.Context) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, original, translated, tone, direction, created_ms FROM results ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r         Result
			tone      string
			direction string
			createdMs int64
		)
		if err := rows.Scan(&r.ID, &r.Original, &r.Translated, &tone, &direction, &createdMs); err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		r.Tone = translation.Tone(tone)
		r.Direction = translation.Direction(direction)
		r.Timestamp = time.UnixMilli(createdMs)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Get returns the result with the given ID
func (s *Store) Get(ctx context.Context, id string) (Result, error) {
	var (
		r         Result
		tone      string
		direction string
		createdMs int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, original, translated, tone, direction, created_ms FROM results WHERE id = ?`, id).
		Scan(&r.ID, &r.Original, &r.Translated, &tone, &direction, &createdMs)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, fmt.Errorf("no history entry with id %s", id)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read history entry: %w", err)
	}
	r.Tone = translation.Tone(tone)
	r.Direction = translation.Direction(direction)
	r.Timestamp = time.UnixMilli(createdMs)
	return r, nil
}

// Clear removes every stored result. The tone setting is kept.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Tone returns the persisted tone, or the default when none is stored
func (s *Store) Tone(ctx context.Context) (translation.Tone, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, toneKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return translation.DefaultTone, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read tone: %w", err)
	}

	tone, err := translation.ParseTone(value)
	if err != nil {
		return translation.DefaultTone, nil
	}
	return tone, nil
}

// SetTone persists tone for later sessions
func (s *Store) SetTone(ctx context.Context, tone translation.Tone) error {
	if !tone.Valid() {
		return fmt.Errorf("unknown tone %q", tone)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		toneKey, string(tone))
	if err != nil {
		return fmt.Errorf("failed to save tone: %w", err)
	}
	return nil
}
