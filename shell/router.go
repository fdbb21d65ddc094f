package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
)

// EventRouter publishes committed events to whoever is interested in them.
type EventRouter interface {
	Route(ctx context.Context, event domain.Event) error
}

// RouterFunc adapts a function to EventRouter.
type RouterFunc func(ctx context.Context, event domain.Event) error

func (f RouterFunc) Route(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// StdOutRouter writes one line per routed event: "[x] Routed event <EventType>".
type StdOutRouter struct {
	out io.Writer
}

// NewStdOutRouter creates a StdOutRouter that writes to os.Stdout.
func NewStdOutRouter() *StdOutRouter {
	return NewWriterRouter(os.Stdout)
}

// NewWriterRouter creates a StdOutRouter that writes to out instead of os.Stdout.
func NewWriterRouter(out io.Writer) *StdOutRouter {
	return &StdOutRouter{out: out}
}

func (r *StdOutRouter) Route(_ context.Context, event domain.Event) error {
	_, err := fmt.Fprintf(r.out, "[x] Routed event %s\n", event.EventType())
	return err
}

// LoggingRouter logs every routed event at info level.
type LoggingRouter struct {
	logger Logger
}

// NewLoggingRouter creates a LoggingRouter.
func NewLoggingRouter(logger Logger) *LoggingRouter {
	return &LoggingRouter{logger: logger}
}

func (r *LoggingRouter) Route(_ context.Context, event domain.Event) error {
	r.logger.Info(logMsgRouted,
		LogAttrEventType, event.EventType(),
		LogAttrEntityID, event.TargetID().String(),
	)

	return nil
}

// MultiRouter routes every event to all of its routers in order.
// It keeps going after a failure and returns all failures joined.
type MultiRouter struct {
	routers []EventRouter
}

// NewMultiRouter creates a MultiRouter. Nil routers are rejected.
func NewMultiRouter(routers ...EventRouter) (*MultiRouter, error) {
	for _, router := range routers {
		if router == nil {
			return nil, ErrNilRouter
		}
	}

	return &MultiRouter{routers: routers}, nil
}

func (r *MultiRouter) Route(ctx context.Context, event domain.Event) error {
	var errs []error

	for _, router := range r.routers {
		if err := router.Route(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
