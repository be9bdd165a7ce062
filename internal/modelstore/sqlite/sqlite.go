// Package sqlite stores model blobs in a SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"studypal/internal/modelstore"
)

const schema = `CREATE TABLE IF NOT EXISTS models (
  name TEXT PRIMARY KEY,
  blob BLOB NOT NULL,
  updated_at TEXT NOT NULL
)`

var _ modelstore.Storage = (*Storage)(nil)

// Storage keeps one row per blob. Put runs in a single transaction.
type Storage struct {
	db *sql.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)
	return &Storage{db: db}, nil
}

func (s *Storage) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating models table: %w", err)
	}
	return nil
}

func (s *Storage) Put(ctx context.Context, blobs ...modelstore.Blob) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, b := range blobs {
		if b.Name == "" {
			return errors.New("blob name is empty")
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO models (name, blob, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
			b.Name, b.Data, now)
		if err != nil {
			return fmt.Errorf("writing %s: %w", b.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM models WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, modelstore.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (s *Storage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM models`); err != nil {
		return fmt.Errorf("clearing models: %w", err)
	}
	return nil
}

func (s *Storage) Close() error { return s.db.Close() }
