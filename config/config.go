// Package config loads processor settings from a file, the environment
// and defaults through viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/smallnest/kwilsquid/action"
)

// Status backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Defaults.
const (
	DefaultProvider             = "http://localhost:8080"
	DefaultDatabase             = "test_subsquid"
	DefaultAction               = "add_records"
	DefaultStatusBackend        = BackendFile
	DefaultStatusDir            = "./status"
	DefaultRedisAddr            = "localhost:6379"
	DefaultRedisPrefix          = "kwilsquid:"
	DefaultTable                = "squid_status"
	DefaultRowID                = "default"
	DefaultSQLitePath           = "./status/status.db"
	DefaultBatchSize            = 1000
	DefaultPollInterval         = 500 * time.Millisecond
	DefaultMaxTransientFailures = 4
	DefaultRequestTimeout       = 30 * time.Second
	DefaultLogLevel             = "info"
)

var (
	ErrMissingProvider   = errors.New("kwil.provider is required")
	ErrMissingPrivateKey = errors.New("kwil.private_key is required")
	ErrMissingDatabase   = errors.New("kwil.database is required")
	ErrMissingAction     = errors.New("kwil.action is required")
	ErrUnknownBackend    = errors.New("unknown status backend")
	ErrInvalidBatchSize  = errors.New("batch.size must be positive")
	ErrInvalidPoll       = errors.New("poll settings must not be negative")
)

// Config is the top-level configuration. Field tags use mapstructure for
// viper unmarshalling.
type Config struct {
	Kwil    KwilConfig    `mapstructure:"kwil"`
	Status  StatusConfig  `mapstructure:"status"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Poll    PollConfig    `mapstructure:"poll"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

// KwilConfig locates the remote database and the signing key.
type KwilConfig struct {
	Provider   string        `mapstructure:"provider"`
	ChainID    string        `mapstructure:"chain_id"`
	PrivateKey string        `mapstructure:"private_key"`
	Database   string        `mapstructure:"database"`
	Action     string        `mapstructure:"action"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StatusConfig selects where the checkpoint lives.
type StatusConfig struct {
	Backend  string         `mapstructure:"backend"`
	Dir      string         `mapstructure:"dir"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type PostgresConfig struct {
	ConnString string `mapstructure:"conn_string"`
	Table      string `mapstructure:"table"`
	ID         string `mapstructure:"id"`
}

type SQLiteConfig struct {
	Path  string `mapstructure:"path"`
	Table string `mapstructure:"table"`
	ID    string `mapstructure:"id"`
}

// BatchConfig bounds the rows per transaction.
type BatchConfig struct {
	Size int `mapstructure:"size"`
}

// PollConfig tunes transaction confirmation. MaxTransientFailures is taken
// literally, so 0 fails on the first query error; the default of 4 only
// applies when the key is unset.
type PollConfig struct {
	Interval             time.Duration `mapstructure:"interval"`
	MaxTransientFailures int           `mapstructure:"max_transient_failures"`
	PendingTimeout       time.Duration `mapstructure:"pending_timeout"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Validate reports every problem at once. The signing key is checked
// separately by ValidateSigner, since read-only commands do not need it.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Kwil.Provider == "" {
		result = multierror.Append(result, ErrMissingProvider)
	}
	if c.Kwil.Database == "" {
		result = multierror.Append(result, ErrMissingDatabase)
	}
	if c.Kwil.Action == "" {
		result = multierror.Append(result, ErrMissingAction)
	}

	switch c.Status.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendPostgres, BackendSQLite:
	default:
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Status.Backend))
	}
	if c.Status.Backend == BackendPostgres && c.Status.Postgres.ConnString == "" {
		result = multierror.Append(result, errors.New("status.postgres.conn_string is required"))
	}

	if c.Batch.Size <= 0 {
		result = multierror.Append(result, ErrInvalidBatchSize)
	}
	if c.Poll.Interval < 0 || c.Poll.MaxTransientFailures < 0 || c.Poll.PendingTimeout < 0 {
		result = multierror.Append(result, ErrInvalidPoll)
	}

	return result.ErrorOrNil()
}

// ValidateSigner reports whether a signing key is configured.
func (c *Config) ValidateSigner() error {
	if c.Kwil.PrivateKey == "" {
		return ErrMissingPrivateKey
	}
	return nil
}

// ActionMaxTransientFailures converts MaxTransientFailures to the value
// action.Config expects, where 0 selects the action default.
func (p PollConfig) ActionMaxTransientFailures() int {
	if p.MaxTransientFailures == 0 {
		return action.NoTransientRetries
	}
	return p.MaxTransientFailures
}
