// Package db is the local SQLite store for todo records
package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

//go:embed schema.sql
var schema string

// SchemaVersion is recorded in PRAGMA user_version after migrating
const SchemaVersion = 1

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// ErrNotFound is returned when an update targets an id with no row
var ErrNotFound = errors.New("todo not found")

// PathProvider supplies a writable database file path
type PathProvider func() (string, error)

// DB wraps the database connection and the live query subscribers
type DB struct {
	*sql.DB

	mu       sync.Mutex
	watchers map[uuid.UUID]*watcher
	done     chan struct{}
	closed   bool
}

// New opens the database at the path returned by provider
func New(ctx context.Context, provider PathProvider) (*DB, error) {
	path, err := provider()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	return Open(ctx, path)
}

// Open creates a new database connection and initializes the schema
func Open(ctx context.Context, path string) (*DB, error) {
	conn, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps ":memory:" databases alive and serialises writers
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			closeQuietly(conn)
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if err := migrate(ctx, conn); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("database opened", "path", path, "driver", driverName)

	return &DB{
		DB:       conn,
		watchers: make(map[uuid.UUID]*watcher),
		done:     make(chan struct{}),
	}, nil
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		slog.Error("error closing db", "error", err)
	}
}

// migrate creates the schema and stamps the schema version
func migrate(ctx context.Context, conn *sql.DB) error {
	var version int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, SchemaVersion)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return err
	}

	if version < SchemaVersion {
		// PRAGMA does not accept bound parameters
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return err
		}
	}
	return nil
}

// Close stops every live query and closes the connection
func (db *DB) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return nil
	}
	db.closed = true
	close(db.done)
	db.mu.Unlock()

	return db.DB.Close()
}

// DefaultPath returns the path to the database file
func DefaultPath() (string, error) {
	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "todo")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, "todo.db"), nil
}

// StaticPath returns a PathProvider for a fixed path, creating its directory
func StaticPath(path string) PathProvider {
	return func() (string, error) {
		if path == MemoryPath {
			return path, nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", err
		}
		return path, nil
	}
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
