// ABOUTME: SQLite storage implementation for slot documents
// ABOUTME: Provides local-only persistence using pure Go SQLite driver and versioned migrations

package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteBackend implements Backend with a local SQLite database.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// Compile-time check that SQLiteBackend implements Backend.
var _ Backend = (*SQLiteBackend)(nil)

// NewSQLiteBackend opens (or creates) the database at path and applies migrations.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	if err := runMigrations(path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &SQLiteBackend{db: db, path: path}, nil
}

// runMigrations uses a separate connection so migrate can close it when done.
func runMigrations(path string) error {
	migrateDB, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer func() { _ = migrateDB.Close() }()

	driver, err := migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteBackend) Path() string {
	return s.path
}

// Get returns the stored document for slot.
func (s *SQLiteBackend) Get(slot string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM slots WHERE key = ?", slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query slot %s: %w", slot, err)
	}
	return value, nil
}

// Set upserts the document for slot.
func (s *SQLiteBackend) Set(slot string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		slot, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", slot, err)
	}
	return nil
}

// Delete removes the slot row.
func (s *SQLiteBackend) Delete(slot string) error {
	if _, err := s.db.Exec("DELETE FROM slots WHERE key = ?", slot); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

// Slots lists stored slot names sorted by key.
func (s *SQLiteBackend) Slots() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM slots ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
