// Package sqlite implements store.Store on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/dataprocess/internal/store"
)

// SQLite has no timestamp type. created_at is stored as fixed-width UTC text
// so lexical order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
	id         TEXT PRIMARY KEY,
	file_name  TEXT NOT NULL,
	created_at TEXT NOT NULL,
	payload    TEXT NOT NULL
)`

// Store is a SQLite-backed dataset store.
type Store struct {
	db *sql.DB
}

func init() {
	store.Register("sqlite", func(ctx context.Context, cfg store.Config) (store.Store, error) {
		return Open(ctx, cfg.DSN)
	})
}

// Open connects to dsn and creates the schema. A single connection is used,
// which also keeps ":memory:" databases alive and shared.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create datasets table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Save(ctx context.Context, ds *store.Dataset) error {
	body, err := store.EncodeTable(ds.Table)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO datasets (id, file_name, created_at, payload) VALUES (?, ?, ?, ?)`,
		ds.ID.String(), ds.FileName, ds.CreatedAt.UTC().Format(timeLayout), string(body),
	)
	if err != nil {
		return fmt.Errorf("save dataset %s: %w", ds.ID, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id uuid.UUID) (*store.Dataset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, created_at, payload FROM datasets WHERE id = ?`, id.String())
	return scanDataset(row)
}

func (s *Store) Latest(ctx context.Context) (*store.Dataset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, created_at, payload FROM datasets ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return scanDataset(row)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func scanDataset(row *sql.Row) (*store.Dataset, error) {
	var (
		id, fileName, createdAt, body string
	)
	if err := row.Scan(&id, &fileName, &createdAt, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("dataset id %q: %w", id, err)
	}
	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("dataset %s created_at: %w", id, err)
	}
	table, err := store.DecodeTable([]byte(body))
	if err != nil {
		return nil, err
	}
	return &store.Dataset{ID: parsedID, FileName: fileName, CreatedAt: created, Table: table}, nil
}
