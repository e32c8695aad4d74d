// Package store implements the SQLite row database holding the dataset.
// The file layout is the ASE SQLite format: a systems table with one row
// per configuration plus species/keys side tables for searching. The
// format is external; this package reads and writes it but does not extend
// it.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"lifdb/internal/logging"
)

// Store is a connection to one dataset file. Safe for concurrent use; all
// writes are serialized.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Connect opens or creates the database at path and brings the schema up
// to date.
func Connect(path string) (*Store, error) {
	logging.Store("connecting to %s", path)

	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("set journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("set synchronous=NORMAL: %v", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.StoreDebug("schema ready at version %d", FormatVersion)
	return s, nil
}

// ConnectMemory opens a fresh in-memory database, used by tests and dry
// runs.
func ConnectMemory() (*Store, error) {
	return Connect(":memory:")
}

func (s *Store) initialize() error {
	for _, stmt := range []string{systemsTable, sideTables} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	if err := RunMigrations(s.db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var current string
	err := s.db.QueryRow("SELECT value FROM information WHERE name = 'version'").Scan(&current)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(
			"INSERT INTO information (name, value) VALUES ('version', ?)",
			fmt.Sprint(FormatVersion),
		)
	}
	if err != nil {
		return fmt.Errorf("record format version: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// DB exposes the underlying connection for read-only tooling.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database connection.
func (s *Store) Close() error {
	logging.StoreDebug("closing %s", s.path)
	return s.db.Close()
}

// Count returns the number of stored rows.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM systems").Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// Stats returns per-table row counts.
func (s *Store) Stats() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int64)
	for _, table := range []string{"systems", "species", "keys", "text_key_values", "number_key_values"} {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			logging.StoreDebug("count of %s failed: %v", table, err)
			continue
		}
		stats[table] = count
	}
	return stats, nil
}
