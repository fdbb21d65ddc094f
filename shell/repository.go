package shell

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// Repository loads and saves whole aggregates of one type and routes what was saved.
//
// An aggregate's state lives in several streams: one for the root and one per owned entity.
// Load replays the root stream first, which recreates the owned entities with their identities,
// then replays each owned entity's own stream. Entities recreated by that replay are replayed in turn.
type Repository[T domain.Aggregate] struct {
	store        *EventStore
	factory      func() T
	router       EventRouter
	retryOptions []RetryOption
	observer     observer
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*repositoryConfig) error

type repositoryConfig struct {
	router       EventRouter
	retryOptions []RetryOption
	observer     observer
}

// WithRouter routes every event committed by Save. Without it, nothing is routed.
func WithRouter(router EventRouter) RepositoryOption {
	return func(c *repositoryConfig) error {
		if router == nil {
			return ErrNilRouter
		}

		c.router = router

		return nil
	}
}

// WithRetryOptions configures the retries of Update.
func WithRetryOptions(options ...RetryOption) RepositoryOption {
	return func(c *repositoryConfig) error {
		c.retryOptions = append(c.retryOptions, options...)
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) RepositoryOption {
	return func(c *repositoryConfig) error {
		c.observer.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger ContextualLogger) RepositoryOption {
	return func(c *repositoryConfig) error {
		c.observer.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector MetricsCollector) RepositoryOption {
	return func(c *repositoryConfig) error {
		c.observer.metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector TracingCollector) RepositoryOption {
	return func(c *repositoryConfig) error {
		c.observer.tracing = collector
		return nil
	}
}

// NewRepository creates a Repository. factory must return a new, blank aggregate on every call.
func NewRepository[T domain.Aggregate](store *EventStore, factory func() T, options ...RepositoryOption) (*Repository[T], error) {
	if store == nil {
		return nil, ErrNilEventStore
	}

	if factory == nil {
		return nil, ErrNilFactory
	}

	config := &repositoryConfig{}
	for _, option := range options {
		if err := option(config); err != nil {
			return nil, err
		}
	}

	return &Repository[T]{
		store:        store,
		factory:      factory,
		router:       config.router,
		retryOptions: config.retryOptions,
		observer:     config.observer,
	}, nil
}

// Load rebuilds the aggregate with the given identity. The result has no staged events.
func (r *Repository[T]) Load(ctx context.Context, id uuid.UUID) (T, error) {
	obs, ctx := r.observer.start(ctx, OperationLoad, id)

	aggregate, eventCount, err := r.load(ctx, id)
	obs.finish(err, eventCount)

	return aggregate, err
}

func (r *Repository[T]) load(ctx context.Context, id uuid.UUID) (T, int, error) {
	var none T

	rootEvents, err := r.store.GetAllEvents(ctx, id)
	if err != nil {
		return none, 0, err
	}

	if len(rootEvents) == 0 {
		return none, 0, fmt.Errorf("%w: %s", ErrAggregateNotFound, id)
	}

	aggregate := r.factory()
	if err = replay(aggregate.AsEntity(), rootEvents); err != nil {
		return none, 0, err
	}

	if !aggregate.AsEntity().HasIdentity() {
		if err = aggregate.AsEntity().AssignIdentity(id); err != nil {
			return none, 0, err
		}
	}

	eventCount := len(rootEvents)
	replayed := map[uuid.UUID]bool{id: true}

	for {
		pending := make([]*domain.Entity, 0)
		for entity := range aggregate.AllOwnedEntities() {
			if !replayed[entity.ID()] {
				pending = append(pending, entity)
			}
		}

		if len(pending) == 0 {
			break
		}

		for _, entity := range pending {
			replayed[entity.ID()] = true

			events, readErr := r.store.GetAllEvents(ctx, entity.ID())
			if readErr != nil {
				return none, 0, readErr
			}

			if err = replay(entity, events); err != nil {
				return none, 0, err
			}

			eventCount += len(events)
		}
	}

	aggregate.AsEntity().ClearAllStaged()

	return aggregate, eventCount, nil
}

func replay(entity *domain.Entity, events domain.Events) error {
	for _, event := range events {
		if err := entity.Apply(event); err != nil {
			return fmt.Errorf("replaying %s on %s: %w", event.EventType(), entity.ID(), err)
		}
	}

	return nil
}

// Save stores the aggregate's staged events, then routes each committed event in append order.
//
// A routing failure is reported wrapped in ErrRoutingFailed. The events are stored at that point.
func (r *Repository[T]) Save(ctx context.Context, aggregate T) error {
	if isNilAggregate(aggregate) {
		return ErrNilAggregate
	}

	obs, ctx := r.observer.start(ctx, OperationSave, aggregate.ID())

	committed, err := r.store.save(ctx, aggregate)
	if len(committed) > 0 {
		err = errors.Join(err, r.route(ctx, committed))
	}

	obs.finish(err, len(committed))

	return err
}

func (r *Repository[T]) route(ctx context.Context, committed domain.Events) error {
	if r.router == nil {
		return nil
	}

	var errs []error
	for _, event := range committed {
		if err := r.router.Route(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(ErrRoutingFailed, errors.Join(errs...))
	}

	return nil
}

// Update loads the aggregate, runs fn on it and saves the result.
// On a concurrency conflict the whole cycle is repeated on a fresh load, as configured with WithRetryOptions.
// An error from fn ends Update without saving. ErrPartiallySaved ends Update after routing the committed events.
func (r *Repository[T]) Update(ctx context.Context, id uuid.UUID, fn func(aggregate T) error) (T, error) {
	var updated T

	obs, ctx := r.observer.start(ctx, OperationUpdate, id)

	committedCount := 0
	result, err := RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		aggregate, _, loadErr := r.load(ctx, id)
		if loadErr != nil {
			return loadErr
		}

		if fnErr := fn(aggregate); fnErr != nil {
			return fnErr
		}

		committed, saveErr := r.store.save(ctx, aggregate)
		committedCount = len(committed)

		if saveErr != nil {
			if len(committed) > 0 {
				return errors.Join(saveErr, r.route(ctx, committed))
			}

			return saveErr
		}

		updated = aggregate

		return r.route(ctx, committed)
	}, r.retryOptions...)

	if result.Attempts > 1 {
		r.observer.logDebug(ctx, logMsgUpdateRetried,
			LogAttrOperation, OperationUpdate,
			LogAttrAttemptNumber, result.Attempts,
			LogAttrErrorType, result.LastErrorType,
		)
	}

	obs.finish(err, committedCount)

	return updated, err
}
