package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Database wraps the SQL database connection
type Database struct {
	*sql.DB
}

// NewSQLiteDB opens (creating if needed) the SQLite database at dbPath and
// applies the migrations. ":memory:" gives a private in-memory database.
func NewSQLiteDB(dbPath string) (*Database, error) {
	if dbPath != ":memory:" && !strings.HasPrefix(dbPath, "file:") {
		// Create the directory if it doesn't exist
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection also keeps ":memory:"
	// databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Database{db}, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TIMESTAMP NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		attendees INTEGER NOT NULL DEFAULT 0,
		is_ai_generated BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS event_registrations (
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		registered_at TIMESTAMP NOT NULL,
		PRIMARY KEY (event_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_event_registrations_user ON event_registrations(user_id)`,
}

// runMigrations creates the schema inside a single transaction.
func runMigrations(db *sql.DB) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure we rollback in case of error
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for i, migration := range migrations {
		if _, err = tx.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration #%d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}
	return nil
}
