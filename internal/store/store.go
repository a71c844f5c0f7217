// Package store keeps past sessions and user preferences in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const DefaultPath = "slidenotes.db"

var ErrNotFound = errors.New("not found")

type Store struct {
	db   *sql.DB
	path string
	// theme reported until one is stored
	defaultTheme Theme
}

// Open opens or creates the database at path; ":memory:" is allowed.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite has a single writer, and an in-memory database
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, path: path, defaultTheme: ThemeLight}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
