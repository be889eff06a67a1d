// Package store provides the client-side Local Store: durable storage for
// cached trips, places, and emergency numbers on an embedded SQLite
// database. The store never touches the network; its only failure mode is
// the storage medium itself, reported as domain.ErrStorage.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

// DB wraps the SQLite database holding all locally cached entities.
type DB struct {
	db *sql.DB
}

// Open opens or creates the companion database at path and bootstraps the
// schema. Pass ":memory:" for an ephemeral store in tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}

	// Enable WAL mode so reads during a sync cycle never block on writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store.Open: enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store.Open: create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the three logical tables and their indices.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		destination TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		user_id TEXT NOT NULL DEFAULT '',
		sync_state TEXT NOT NULL,
		last_modified INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trips_sync_state ON trips(sync_state);
	CREATE INDEX IF NOT EXISTS idx_trips_last_modified ON trips(last_modified);

	CREATE TABLE IF NOT EXISTS places (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		rating REAL NOT NULL DEFAULT 0,
		favorite INTEGER NOT NULL DEFAULT 0,
		fetched_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_places_category ON places(category, latitude, longitude);
	CREATE INDEX IF NOT EXISTS idx_places_fetched_at ON places(fetched_at);

	CREATE TABLE IF NOT EXISTS emergency_numbers (
		country TEXT PRIMARY KEY,
		police TEXT NOT NULL,
		ambulance TEXT NOT NULL,
		fire TEXT NOT NULL,
		cached_at INTEGER NOT NULL
	);
	`

	_, err := db.Exec(schema)
	return err
}

// storageErr wraps a database failure so callers can branch on
// domain.ErrStorage while keeping the operation name and root cause.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}
