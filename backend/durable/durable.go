package durable

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/keeperkv/keeper/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS keeper_records (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// Store is the SQLite-backed durable tier. A Store is safe for concurrent
// use; database/sql serializes access to the underlying connection pool.
type Store struct {
	mu    sync.RWMutex
	sqlDB *sql.DB
	clock core.Clock
}

// Option customizes a Store during Open.
type Option func(*Store)

// WithClock overrides the time source used for the updated_at column.
func WithClock(clk core.Clock) Option {
	return func(s *Store) { s.clock = clk }
}

// Open opens (creating if necessary) a durable store at path and ensures the
// schema exists.
func Open(path string, optFns ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("durable store path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	s := &Store{sqlDB: sqlDB, clock: core.SystemClock{}}
	for _, fn := range optFns {
		fn(s)
	}
	return s, nil
}

// Name identifies the tier in logs.
func (s *Store) Name() string { return "durable" }

// Available reports whether the store holds an open database handle.
func (s *Store) Available() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sqlDB != nil
}

// Get retrieves the raw value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	db, err := s.handle()
	if err != nil {
		return "", false, err
	}
	var value string
	row := db.QueryRow(`SELECT value FROM keeper_records WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get record: %w", err)
	}
	return value, true, nil
}

// Set upserts the raw value under key.
func (s *Store) Set(key, value string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	_, err = db.Exec(`
INSERT INTO keeper_records (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.clock.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("set record: %w", err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM keeper_records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Close releases the underlying SQLite connection. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sqlDB == nil {
		return nil
	}
	db := s.sqlDB
	s.sqlDB = nil
	return db.Close()
}

func (s *Store) handle() (*sql.DB, error) {
	if s == nil {
		return nil, core.ErrUnavailable
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sqlDB == nil {
		return nil, core.ErrUnavailable
	}
	return s.sqlDB, nil
}
