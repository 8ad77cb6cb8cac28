package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/kwilsquid/action"
	"github.com/smallnest/kwilsquid/store"
)

const testPrivateKey = "b369ac5c4b7a4d5ecf2e1f2a0d1e7b5a8de1a2b3c4d5e6f708192a3b4c5d6e7f"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PRIVATE_KEY", testPrivateKey)

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, DefaultProvider, cfg.Kwil.Provider)
	assert.Equal(t, testPrivateKey, cfg.Kwil.PrivateKey)
	assert.Equal(t, DefaultDatabase, cfg.Kwil.Database)
	assert.Equal(t, DefaultAction, cfg.Kwil.Action)
	assert.Equal(t, DefaultRequestTimeout, cfg.Kwil.Timeout)
	assert.Equal(t, BackendFile, cfg.Status.Backend)
	assert.Equal(t, DefaultStatusDir, cfg.Status.Dir)
	assert.Equal(t, DefaultBatchSize, cfg.Batch.Size)
	assert.Equal(t, DefaultPollInterval, cfg.Poll.Interval)
	assert.Equal(t, DefaultMaxTransientFailures, cfg.Poll.MaxTransientFailures)
	assert.Zero(t, cfg.Poll.PendingTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KWILSQUID_KWIL_PRIVATE_KEY", testPrivateKey)
	t.Setenv("KWILSQUID_KWIL_PROVIDER", "http://kwil:8484")
	t.Setenv("KWILSQUID_STATUS_BACKEND", "memory")
	t.Setenv("KWILSQUID_BATCH_SIZE", "250")
	t.Setenv("KWILSQUID_POLL_INTERVAL", "1s")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "http://kwil:8484", cfg.Kwil.Provider)
	assert.Equal(t, BackendMemory, cfg.Status.Backend)
	assert.Equal(t, 250, cfg.Batch.Size)
	assert.Equal(t, time.Second, cfg.Poll.Interval)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kwilsquid.yaml")
	content := `kwil:
  provider: http://10.0.0.2:8080
  private_key: ` + testPrivateKey + `
  chain_id: kwil-testnet
status:
  backend: sqlite
  sqlite:
    path: ` + filepath.Join(dir, "status.db") + `
poll:
  pending_timeout: 2m
metrics:
  addr: ":9102"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.2:8080", cfg.Kwil.Provider)
	assert.Equal(t, "kwil-testnet", cfg.Kwil.ChainID)
	assert.Equal(t, BackendSQLite, cfg.Status.Backend)
	assert.Equal(t, DefaultTable, cfg.Status.SQLite.Table)
	assert.Equal(t, 2*time.Minute, cfg.Poll.PendingTimeout)
	assert.Equal(t, ":9102", cfg.Metrics.Addr)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kwil: [unterminated"), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	t.Parallel()

	cfg := &Config{Status: StatusConfig{Backend: "etcd"}, Poll: PollConfig{Interval: -time.Second}}
	err := cfg.Validate()
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrMissingProvider)
	assert.NotErrorIs(t, err, ErrMissingPrivateKey)
	assert.ErrorIs(t, err, ErrMissingDatabase)
	assert.ErrorIs(t, err, ErrMissingAction)
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
	assert.ErrorIs(t, err, ErrInvalidPoll)
}

func TestValidateSigner(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Kwil:   KwilConfig{Provider: DefaultProvider, Database: "d", Action: "a"},
		Status: StatusConfig{Backend: BackendMemory},
		Batch:  BatchConfig{Size: 1},
	}
	require.NoError(t, cfg.Validate())
	assert.ErrorIs(t, cfg.ValidateSigner(), ErrMissingPrivateKey)

	cfg.Kwil.PrivateKey = testPrivateKey
	assert.NoError(t, cfg.ValidateSigner())
}

func TestPollConfig_ActionMaxTransientFailures(t *testing.T) {
	t.Parallel()

	assert.Equal(t, action.NoTransientRetries, PollConfig{}.ActionMaxTransientFailures())
	assert.Equal(t, 4, PollConfig{MaxTransientFailures: 4}.ActionMaxTransientFailures())
	assert.Equal(t, 1, PollConfig{MaxTransientFailures: 1}.ActionMaxTransientFailures())
}

func TestLoad_ZeroTransientFailuresIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll:\n  max_transient_failures: 0\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Poll.MaxTransientFailures)
	assert.Equal(t, action.NoTransientRetries, cfg.Poll.ActionMaxTransientFailures())
}

func TestValidate_PostgresNeedsConnString(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Kwil:   KwilConfig{Provider: DefaultProvider, PrivateKey: testPrivateKey, Database: "d", Action: "a"},
		Status: StatusConfig{Backend: BackendPostgres},
		Batch:  BatchConfig{Size: 1},
	}
	assert.ErrorContains(t, cfg.Validate(), "conn_string")

	cfg.Status.Postgres.ConnString = "postgres://localhost/squid"
	assert.NoError(t, cfg.Validate())
}

func TestOpenHooks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  StatusConfig
	}{
		{name: "file", cfg: StatusConfig{Backend: BackendFile, Dir: t.TempDir()}},
		{name: "memory", cfg: StatusConfig{Backend: BackendMemory}},
		{name: "redis", cfg: StatusConfig{Backend: BackendRedis, Redis: RedisConfig{Addr: mr.Addr(), Prefix: DefaultRedisPrefix}}},
		{name: "sqlite", cfg: StatusConfig{Backend: BackendSQLite, SQLite: SQLiteConfig{
			Path: filepath.Join(t.TempDir(), "nested", "status.db"), Table: DefaultTable, ID: DefaultRowID,
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks, closeFn, err := OpenHooks(ctx, tt.cfg)
			require.NoError(t, err)
			defer func() { assert.NoError(t, closeFn()) }()

			state, err := hooks.Read(ctx)
			require.NoError(t, err)
			assert.Nil(t, state)

			next := store.HashAndHeight{Height: 12, Hash: "0xabc"}
			require.NoError(t, hooks.Update(ctx, next, nil))

			state, err = hooks.Read(ctx)
			require.NoError(t, err)
			require.NotNil(t, state)
			assert.Equal(t, next, *state)
		})
	}
}

func TestOpenHooks_Unknown(t *testing.T) {
	t.Parallel()

	_, _, err := OpenHooks(context.Background(), StatusConfig{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
