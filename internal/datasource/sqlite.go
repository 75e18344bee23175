// Package datasource is the local podcast library: subscriptions, episodes,
// playback progress and saved filters in a single SQLite database.
package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/foxcasts/pkg/debug"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const schemaVersion = 1

var schema = []string{
	`CREATE TABLE IF NOT EXISTS podcasts (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		author        TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		feed_url      TEXT NOT NULL,
		artwork_url   TEXT NOT NULL DEFAULT '',
		categories    TEXT NOT NULL DEFAULT '[]',
		subscribed_at INTEGER NOT NULL,
		refreshed_at  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS episodes (
		id           TEXT PRIMARY KEY,
		podcast_id   TEXT NOT NULL REFERENCES podcasts(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		audio_url    TEXT NOT NULL DEFAULT '',
		duration_ms  INTEGER NOT NULL DEFAULT 0,
		published_at INTEGER NOT NULL DEFAULT 0,
		chapters     TEXT NOT NULL DEFAULT '[]',
		progress_ms  INTEGER NOT NULL DEFAULT 0,
		played       INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS episodes_by_podcast ON episodes(podcast_id, published_at DESC)`,
	`CREATE TABLE IF NOT EXISTS filters (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		definition TEXT NOT NULL
	)`,
}

// Store is the SQLite-backed library.
type Store struct {
	db   *sql.DB
	path string
	log  debug.Logger
}

// Open opens (creating if needed) the library at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	// One writer keeps modernc's per-connection pragmas consistent.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, log: debug.With("component", "store")}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	start := time.Now()
	defer func() { debug.LogTiming("store migrate", time.Since(start)) }()

	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("writing schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	s.log.Info("schema applied", "version", schemaVersion)
	return nil
}

// Times are stored as unix milliseconds; zero means unset.
func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}

func decodeJSON(s string, v any) {
	if s == "" || s == "null" {
		return
	}
	// Malformed JSON columns load as empty rather than failing the row.
	_ = json.Unmarshal([]byte(s), v)
}
