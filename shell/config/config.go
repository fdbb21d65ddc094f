package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Engine names accepted in EVENTSTORE_ENGINE.
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"
)

// Postgres adapter names accepted in POSTGRES_ADAPTER.
const (
	AdapterPGX  = "pgx"
	AdapterSQL  = "sql"
	AdapterSQLX = "sqlx"
)

var (
	// ErrUnknownEngine is returned for an EVENTSTORE_ENGINE that is not one of the Engine constants.
	ErrUnknownEngine = errors.New("unknown stream engine")

	// ErrUnknownAdapter is returned for a POSTGRES_ADAPTER that is not one of the Adapter constants.
	ErrUnknownAdapter = errors.New("unknown postgres adapter")

	// ErrMissingPostgresDSN is returned when the postgres engine is selected without POSTGRES_DSN.
	ErrMissingPostgresDSN = errors.New("POSTGRES_DSN is required for the postgres engine")

	// ErrMissingRedisAddr is returned when the redis engine is selected without REDIS_ADDR.
	ErrMissingRedisAddr = errors.New("REDIS_ADDR is required for the redis engine")
)

// Config is the environment configuration of an application built on the kernel.
type Config struct {
	Engine             string     `env:"EVENTSTORE_ENGINE" envDefault:"memory"`
	PostgresDSN        string     `env:"POSTGRES_DSN"`
	PostgresReplicaDSN string     `env:"POSTGRES_REPLICA_DSN"`
	PostgresAdapter    string     `env:"POSTGRES_ADAPTER" envDefault:"pgx"`
	PostgresTableName  string     `env:"POSTGRES_TABLE_NAME" envDefault:"events"`
	RedisAddr          string     `env:"REDIS_ADDR"`
	RedisKeyPrefix     string     `env:"REDIS_KEY_PREFIX" envDefault:"eventstore:stream:"`
	LogLevel           slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	TraceStdout        bool       `env:"TRACE_STDOUT" envDefault:"false"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses the given variables instead of the process environment when environment is not nil.
func LoadFrom(environment map[string]string) (Config, error) {
	var cfg Config

	options := env.Options{}
	if environment != nil {
		options.Environment = environment
	}

	if err := env.ParseWithOptions(&cfg, options); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the selected engine has what it needs.
func (c Config) Validate() error {
	switch c.Engine {
	case EngineMemory:
		return nil

	case EnginePostgres:
		if c.PostgresDSN == "" {
			return ErrMissingPostgresDSN
		}

		switch c.PostgresAdapter {
		case AdapterPGX, AdapterSQL, AdapterSQLX:
			return nil
		default:
			return fmt.Errorf("%w: %q", ErrUnknownAdapter, c.PostgresAdapter)
		}

	case EngineRedis:
		if c.RedisAddr == "" {
			return ErrMissingRedisAddr
		}

		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEngine, c.Engine)
	}
}
