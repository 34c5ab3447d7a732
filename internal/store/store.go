package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store is the durable, queryable mirror of the explored universe: a
// single SQLite file holding every table listed in §6.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path. If an existing
// file has an incompatible schema, it is deleted and recreated — the
// store has no migration story, matching the teacher's own recovery
// behaviour for its sqlc-generated cache.
func Open(path string) (*Store, error) {
	s, err := openDB(path)
	if err != nil {
		if isSchemaMismatch(err) {
			if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, fmt.Errorf("io_error: remove incompatible store: %w", removeErr)
			}
			os.Remove(path + "-wal")
			os.Remove(path + "-shm")
			return openDB(path)
		}
		return nil, err
	}
	return s, nil
}

func isSchemaMismatch(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "SQL logic error")
}

func openDB(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("io_error: create store directory: %w", err)
	}

	escaped := strings.ReplaceAll(path, " ", "%20")
	db, err := sql.Open("sqlite", "file:"+escaped+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("io_error: open store: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("io_error: enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("io_error: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("bad_message: initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying connection for operations not covered by
// a Store method (integration tests mostly).
func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateTables runs the reflection-derived CREATE TABLE statement for
// every entity row type, in addition to the embedded schema.sql used
// at Open. The statements use IF NOT EXISTS, so on a store opened from
// schema.sql they leave the existing tables as they are; store_test.go
// checks only that repeated calls succeed, not that the reflection
// mapper's DDL matches schema.sql.
func (s *Store) CreateTables() error {
	tables := []struct {
		name string
		v    any
	}{
		{"star_system", starSystemRow{}},
		{"bary_centre", baryCentreRow{}},
		{"body", bodyRow{}},
		{"star_details", starDetailsRow{}},
		{"planet_details", planetDetailsRow{}},
		{"atmosphere_element", atmosphereElementRow{}},
		{"signal", signalRow{}},
		{"genus", genusRow{}},
		{"ring", ringRow{}},
		{"faction_info", factionRow{}},
		{"mission", missionRow{}},
	}
	for _, t := range tables {
		if err := CreateTable(s.db, t.name, t.v); err != nil {
			return err
		}
	}
	return nil
}
