// Package sqlite implements the text repository on an embedded SQLite
// database.
//
// SQLite is the default backend: a single file, no server to run, and WAL
// mode gives the concurrent-read behavior a web service needs. The driver is
// modernc.org/sqlite — a pure Go translation of SQLite, so the binary
// cross-compiles without a C toolchain.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements
// repository.TextRepository.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests for a throwaway database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Surface bad paths/permissions now instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight. The HTTP API and
	// the realtime broker hit the same rows concurrently, so this matters.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the texts table. CREATE TABLE IF NOT EXISTS keeps this
// safe to run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS texts (
			id            TEXT PRIMARY KEY,
			text          TEXT NOT NULL,
			syntax        TEXT NOT NULL DEFAULT 'plain',
			created_at    DATETIME NOT NULL,
			last_activity DATETIME NOT NULL,
			expires_at    DATETIME,
			is_protected  INTEGER NOT NULL DEFAULT 0,
			password_hash TEXT NOT NULL DEFAULT '',
			password_salt TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_texts_expires_at ON texts(expires_at);
	`)
	if err != nil {
		return fmt.Errorf("creating texts table: %w", err)
	}
	return nil
}
