package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Store is the SQLite-backed implementation of the tech card repo and the
// materialization store.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id     TEXT PRIMARY KEY,
		name   TEXT NOT NULL,
		phone  TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS objects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		manager_id  TEXT REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS rooms (
		id         TEXT PRIMARY KEY,
		object_id  TEXT NOT NULL REFERENCES objects(id),
		name       TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tech_cards (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		work_type    TEXT NOT NULL DEFAULT '',
		frequency    TEXT NOT NULL DEFAULT 'ежедневно',
		object_id    TEXT NOT NULL REFERENCES objects(id),
		room_id      TEXT REFERENCES rooms(id)
	);

	CREATE TABLE IF NOT EXISTS task_records (
		id                 TEXT PRIMARY KEY,
		tech_card_id       TEXT NOT NULL,
		scheduled_date     TEXT NOT NULL,
		description        TEXT NOT NULL,
		status             TEXT NOT NULL,
		object_id          TEXT NOT NULL DEFAULT '',
		object_name        TEXT NOT NULL DEFAULT '',
		manager_id         TEXT NOT NULL DEFAULT '',
		manager_name       TEXT NOT NULL DEFAULT '',
		room_id            TEXT NOT NULL DEFAULT '',
		room_name          TEXT NOT NULL DEFAULT '',
		frequency          TEXT NOT NULL DEFAULT '',
		completed_at       TEXT NOT NULL DEFAULT '',
		completed_by_id    TEXT NOT NULL DEFAULT '',
		completed_by_name  TEXT NOT NULL DEFAULT '',
		comment            TEXT NOT NULL DEFAULT '',
		photos             TEXT NOT NULL DEFAULT '[]',
		created_at         TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		UNIQUE(tech_card_id, scheduled_date)
	);

	CREATE INDEX IF NOT EXISTS idx_records_date   ON task_records(scheduled_date);
	CREATE INDEX IF NOT EXISTS idx_records_object ON task_records(object_id);
	CREATE INDEX IF NOT EXISTS idx_cards_object   ON tech_cards(object_id);
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("apply schema v1: %w", err)
	}
	return nil
}
