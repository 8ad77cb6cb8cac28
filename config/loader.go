package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix, e.g. KWILSQUID_KWIL_PROVIDER.
const envPrefix = "KWILSQUID"

// NewViper returns a viper instance with defaults and environment binding
// applied. If configPath is non-empty the file is read; a missing file at
// an explicit path is an error.
func NewViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PRIVATE_KEY is what existing deployments export.
	if err := v.BindEnv("kwil.private_key", envPrefix+"_KWIL_PRIVATE_KEY", "PRIVATE_KEY"); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadFile is NewViper followed by Load.
func LoadFile(configPath string) (*Config, error) {
	v, err := NewViper(configPath)
	if err != nil {
		return nil, err
	}
	return Load(v)
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("kwil.provider", DefaultProvider)
	v.SetDefault("kwil.chain_id", "")
	v.SetDefault("kwil.private_key", "")
	v.SetDefault("kwil.database", DefaultDatabase)
	v.SetDefault("kwil.action", DefaultAction)
	v.SetDefault("kwil.timeout", DefaultRequestTimeout)

	v.SetDefault("status.backend", DefaultStatusBackend)
	v.SetDefault("status.dir", DefaultStatusDir)
	v.SetDefault("status.redis.addr", DefaultRedisAddr)
	v.SetDefault("status.redis.password", "")
	v.SetDefault("status.redis.db", 0)
	v.SetDefault("status.redis.prefix", DefaultRedisPrefix)
	v.SetDefault("status.postgres.conn_string", "")
	v.SetDefault("status.postgres.table", DefaultTable)
	v.SetDefault("status.postgres.id", DefaultRowID)
	v.SetDefault("status.sqlite.path", DefaultSQLitePath)
	v.SetDefault("status.sqlite.table", DefaultTable)
	v.SetDefault("status.sqlite.id", DefaultRowID)

	v.SetDefault("batch.size", DefaultBatchSize)

	v.SetDefault("poll.interval", DefaultPollInterval)
	v.SetDefault("poll.max_transient_failures", DefaultMaxTransientFailures)
	v.SetDefault("poll.pending_timeout", 0)

	v.SetDefault("metrics.addr", "")
	v.SetDefault("log.level", DefaultLogLevel)
}
