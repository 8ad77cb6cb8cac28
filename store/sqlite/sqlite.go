package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/smallnest/kwilsquid/store"
)

// Hooks keeps the checkpoint as one row of a SQLite table.
type Hooks struct {
	db        *sql.DB
	tableName string
	id        string
}

var _ store.Hooks = (*Hooks)(nil)

// Options configuration for SQLite connection
type Options struct {
	Path      string
	TableName string // Default "squid_status"
	ID        string // Row key, default "default"
}

// New opens the database and creates the table if needed.
func New(opts Options) (*Hooks, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "squid_status"
	}
	id := opts.ID
	if id == "" {
		id = "default"
	}

	h := &Hooks{
		db:        db,
		tableName: tableName,
		id:        id,
	}

	if err := h.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return h, nil
}

// InitSchema creates the status table if it doesn't exist
func (h *Hooks) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			height INTEGER NOT NULL,
			hash TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`, h.tableName)

	if _, err := h.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (h *Hooks) Close() error {
	return h.db.Close()
}

func (h *Hooks) Read(ctx context.Context) (*store.HashAndHeight, error) {
	query := fmt.Sprintf(`SELECT height, hash FROM %s WHERE id = ?`, h.tableName)

	var state store.HashAndHeight
	err := h.db.QueryRowContext(ctx, query, h.id).Scan(&state.Height, &state.Hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

func (h *Hooks) Update(ctx context.Context, next store.HashAndHeight, _ *store.HashAndHeight) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, height, hash, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			height = excluded.height,
			hash = excluded.hash,
			updated_at = excluded.updated_at
	`, h.tableName)

	if _, err := h.db.ExecContext(ctx, query, h.id, next.Height, next.Hash); err != nil {
		return store.StorageError("save status", err)
	}
	return nil
}

func (h *Hooks) Reset(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", h.tableName)
	if _, err := h.db.ExecContext(ctx, query, h.id); err != nil {
		return store.StorageError("delete status", err)
	}
	return nil
}
