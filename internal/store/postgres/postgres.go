// Package postgres implements store.Store on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/dataprocess/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
	id         UUID PRIMARY KEY,
	file_name  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	payload    JSONB NOT NULL
)`

// Store is a Postgres-backed dataset store.
type Store struct {
	pool *pgxpool.Pool
}

func init() {
	store.Register("postgres", func(ctx context.Context, cfg store.Config) (store.Store, error) {
		return Open(ctx, cfg.DSN, cfg.MaxConns)
	})
}

// Open creates a pool for dsn, verifies connectivity and creates the schema.
// maxConns <= 0 keeps the pgx default.
func Open(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create datasets table: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Save(ctx context.Context, ds *store.Dataset) error {
	body, err := store.EncodeTable(ds.Table)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO datasets (id, file_name, created_at, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET file_name = EXCLUDED.file_name, created_at = EXCLUDED.created_at, payload = EXCLUDED.payload`,
		ds.ID, ds.FileName, ds.CreatedAt, string(body),
	)
	if err != nil {
		return fmt.Errorf("save dataset %s: %w", ds.ID, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id uuid.UUID) (*store.Dataset, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, file_name, created_at, payload::text FROM datasets WHERE id = $1`, id)
	return scanDataset(row)
}

func (s *Store) Latest(ctx context.Context) (*store.Dataset, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, file_name, created_at, payload::text FROM datasets ORDER BY created_at DESC LIMIT 1`)
	return scanDataset(row)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func scanDataset(row pgx.Row) (*store.Dataset, error) {
	var (
		ds   store.Dataset
		body string
	)
	if err := row.Scan(&ds.ID, &ds.FileName, &ds.CreatedAt, &body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	table, err := store.DecodeTable([]byte(body))
	if err != nil {
		return nil, err
	}
	ds.Table = table
	return &ds, nil
}
