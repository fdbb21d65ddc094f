package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/redisengine"
)

// Observability holds the optional collectors handed to the engine. Nil fields are skipped.
type Observability struct {
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// CloseFunc releases the connections of an engine.
type CloseFunc func() error

// OpenEngine connects the engine selected by cfg. The postgres engine ensures its table exists.
func OpenEngine(ctx context.Context, cfg Config, obs Observability) (eventstore.Engine, CloseFunc, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Engine {
	case EnginePostgres:
		return openPostgres(ctx, cfg, obs)
	case EngineRedis:
		return openRedis(ctx, cfg, obs)
	default:
		engine, err := memoryengine.NewEventStore(memoryOptions(obs)...)
		if err != nil {
			return nil, nil, err
		}

		return engine, func() error { return nil }, nil
	}
}

func memoryOptions(obs Observability) []memoryengine.Option {
	options := make([]memoryengine.Option, 0, 4)
	if obs.Logger != nil {
		options = append(options, memoryengine.WithLogger(obs.Logger))
	}
	if obs.ContextualLogger != nil {
		options = append(options, memoryengine.WithContextualLogger(obs.ContextualLogger))
	}
	if obs.Metrics != nil {
		options = append(options, memoryengine.WithMetrics(obs.Metrics))
	}
	if obs.Tracing != nil {
		options = append(options, memoryengine.WithTracing(obs.Tracing))
	}

	return options
}

func postgresOptions(cfg Config, obs Observability) []postgresengine.Option {
	options := []postgresengine.Option{postgresengine.WithTableName(cfg.PostgresTableName)}
	if obs.Logger != nil {
		options = append(options, postgresengine.WithLogger(obs.Logger))
	}
	if obs.ContextualLogger != nil {
		options = append(options, postgresengine.WithContextualLogger(obs.ContextualLogger))
	}
	if obs.Metrics != nil {
		options = append(options, postgresengine.WithMetrics(obs.Metrics))
	}
	if obs.Tracing != nil {
		options = append(options, postgresengine.WithTracing(obs.Tracing))
	}

	return options
}

func redisOptions(cfg Config, obs Observability) []redisengine.Option {
	options := []redisengine.Option{redisengine.WithKeyPrefix(cfg.RedisKeyPrefix)}
	if obs.Logger != nil {
		options = append(options, redisengine.WithLogger(obs.Logger))
	}
	if obs.ContextualLogger != nil {
		options = append(options, redisengine.WithContextualLogger(obs.ContextualLogger))
	}
	if obs.Metrics != nil {
		options = append(options, redisengine.WithMetrics(obs.Metrics))
	}
	if obs.Tracing != nil {
		options = append(options, redisengine.WithTracing(obs.Tracing))
	}

	return options
}

func openPostgres(ctx context.Context, cfg Config, obs Observability) (eventstore.Engine, CloseFunc, error) {
	var (
		engine  *postgresengine.EventStore
		closers []func() error
		err     error
	)

	closeAll := func() error {
		var errs []error
		for _, closeFn := range closers {
			errs = append(errs, closeFn())
		}
		return errors.Join(errs...)
	}

	fail := func(err error) (eventstore.Engine, CloseFunc, error) {
		_ = closeAll()
		return nil, nil, fmt.Errorf("open postgres engine: %w", err)
	}

	options := postgresOptions(cfg, obs)
	withReplica := cfg.PostgresReplicaDSN != ""

	switch cfg.PostgresAdapter {
	case AdapterSQL:
		primary, openErr := OpenSQLDB(ctx, cfg.PostgresDSN)
		if openErr != nil {
			return fail(openErr)
		}
		closers = append(closers, primary.Close)

		if !withReplica {
			engine, err = postgresengine.NewEventStoreFromSQLDB(primary, options...)
			break
		}

		replica, openErr := OpenSQLDB(ctx, cfg.PostgresReplicaDSN)
		if openErr != nil {
			return fail(openErr)
		}
		closers = append(closers, replica.Close)
		engine, err = postgresengine.NewEventStoreFromSQLDBAndReplica(primary, replica, options...)

	case AdapterSQLX:
		primary, openErr := OpenSQLX(ctx, cfg.PostgresDSN)
		if openErr != nil {
			return fail(openErr)
		}
		closers = append(closers, primary.Close)

		if !withReplica {
			engine, err = postgresengine.NewEventStoreFromSQLX(primary, options...)
			break
		}

		replica, openErr := OpenSQLX(ctx, cfg.PostgresReplicaDSN)
		if openErr != nil {
			return fail(openErr)
		}
		closers = append(closers, replica.Close)
		engine, err = postgresengine.NewEventStoreFromSQLXAndReplica(primary, replica, options...)

	default:
		primary, openErr := OpenPGXPool(ctx, cfg.PostgresDSN)
		if openErr != nil {
			return fail(openErr)
		}
		closers = append(closers, func() error { primary.Close(); return nil })

		if !withReplica {
			engine, err = postgresengine.NewEventStoreFromPGXPool(primary, options...)
			break
		}

		replica, openErr := OpenPGXPool(ctx, cfg.PostgresReplicaDSN)
		if openErr != nil {
			return fail(openErr)
		}
		closers = append(closers, func() error { replica.Close(); return nil })
		engine, err = postgresengine.NewEventStoreFromPGXPoolAndReplica(primary, replica, options...)
	}

	if err != nil {
		return fail(err)
	}

	if err = engine.EnsureSchema(ctx); err != nil {
		return fail(err)
	}

	return engine, closeAll, nil
}

func openRedis(ctx context.Context, cfg Config, obs Observability) (eventstore.Engine, CloseFunc, error) {
	client, err := OpenRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("open redis engine: %w", err)
	}

	engine, err := redisengine.NewEventStore(client, redisOptions(cfg, obs)...)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("open redis engine: %w", err)
	}

	return engine, client.Close, nil
}
