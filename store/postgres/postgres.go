package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smallnest/kwilsquid/store"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Hooks keeps the checkpoint as one row of a status table.
type Hooks struct {
	pool      DBPool
	tableName string
	id        string
}

var _ store.Hooks = (*Hooks)(nil)

// Options configures the Postgres connection.
type Options struct {
	ConnString string
	TableName  string // Default "squid_status"
	ID         string // Row key, default "default"; lets processors share a table
}

// New connects a pool and returns hooks on it. Call InitSchema before use
// on a fresh database.
func New(ctx context.Context, opts Options) (*Hooks, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewWithPool(pool, opts.TableName, opts.ID), nil
}

// NewWithPool creates hooks with an existing pool
// Useful for testing with mocks
func NewWithPool(pool DBPool, tableName, id string) *Hooks {
	if tableName == "" {
		tableName = "squid_status"
	}
	if id == "" {
		id = "default"
	}
	return &Hooks{
		pool:      pool,
		tableName: tableName,
		id:        id,
	}
}

// InitSchema creates the status table if it doesn't exist
func (h *Hooks) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			height BIGINT NOT NULL,
			hash TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, h.tableName)

	if _, err := h.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (h *Hooks) Close() {
	h.pool.Close()
}

func (h *Hooks) Read(ctx context.Context) (*store.HashAndHeight, error) {
	query := fmt.Sprintf(`SELECT height, hash FROM %s WHERE id = $1`, h.tableName)

	var state store.HashAndHeight
	err := h.pool.QueryRow(ctx, query, h.id).Scan(&state.Height, &state.Hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, store.StorageError("load status", err)
	}

	if state.Hash == "" {
		state.Hash = store.EmptyHash
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return &state, nil
}

// Update upserts the row in one statement.
func (h *Hooks) Update(ctx context.Context, next store.HashAndHeight, _ *store.HashAndHeight) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, height, hash, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			height = EXCLUDED.height,
			hash = EXCLUDED.hash,
			updated_at = EXCLUDED.updated_at
	`, h.tableName)

	if _, err := h.pool.Exec(ctx, query, h.id, next.Height, next.Hash); err != nil {
		return store.StorageError("save status", err)
	}
	return nil
}

func (h *Hooks) Reset(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", h.tableName)
	if _, err := h.pool.Exec(ctx, query, h.id); err != nil {
		return store.StorageError("delete status", err)
	}
	return nil
}
