package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smallnest/kwilsquid/dest"
	"github.com/smallnest/kwilsquid/store"
	"github.com/smallnest/kwilsquid/store/file"
	"github.com/smallnest/kwilsquid/store/memory"
	"github.com/smallnest/kwilsquid/store/postgres"
	"github.com/smallnest/kwilsquid/store/redis"
	"github.com/smallnest/kwilsquid/store/sqlite"
)

// OpenHooks opens the configured checkpoint backend. The returned close
// function releases its connections and is never nil.
func OpenHooks(ctx context.Context, cfg StatusConfig) (store.Hooks, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case BackendFile, "":
		return file.New(dest.NewLocal(cfg.Dir)), noop, nil

	case BackendMemory:
		return memory.New(), noop, nil

	case BackendRedis:
		h := redis.New(redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		return h, h.Close, nil

	case BackendPostgres:
		h, err := postgres.New(ctx, postgres.Options{
			ConnString: cfg.Postgres.ConnString,
			TableName:  cfg.Postgres.Table,
			ID:         cfg.Postgres.ID,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := h.InitSchema(ctx); err != nil {
			h.Close()
			return nil, nil, err
		}
		return h, func() error { h.Close(); return nil }, nil

	case BackendSQLite:
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		h, err := sqlite.New(sqlite.Options{
			Path:      cfg.SQLite.Path,
			TableName: cfg.SQLite.Table,
			ID:        cfg.SQLite.ID,
		})
		if err != nil {
			return nil, nil, err
		}
		return h, h.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
