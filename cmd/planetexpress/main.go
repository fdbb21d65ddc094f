package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/entity-eventstore-go/example/company"
	"github.com/AntonStoeckl/entity-eventstore-go/shell"
	"github.com/AntonStoeckl/entity-eventstore-go/shell/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "planetexpress: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err = run(ctx, cfg, logger, os.Stdout, os.Stderr); err != nil {
		logger.Error("planetexpress failed", "error", err)
		os.Exit(1)
	}
}

// run wires the telemetry, the engine and a company repository, then plays the scenario.
// The roster and routed events go to out, spans to traceOut.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger, out io.Writer, traceOut io.Writer) (err error) {
	tel, err := newTelemetry(cfg, logger, traceOut)
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := tel.shutdown(context.WithoutCancel(ctx)); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}()

	engine, closeEngine, err := config.OpenEngine(ctx, cfg, tel.observability)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeEngine(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	logger.Info("stream engine ready", "engine", cfg.Engine)

	registry := shell.NewEventRegistry()
	company.RegisterEvents(registry)

	store, err := shell.NewEventStore(engine, registry, shell.WithStoreLogger(logger))
	if err != nil {
		return err
	}

	router, err := shell.NewMultiRouter(shell.NewWriterRouter(out), shell.NewLoggingRouter(logger))
	if err != nil {
		return err
	}

	repository, err := shell.NewRepository(store, company.New,
		shell.WithRouter(router),
		shell.WithContextualLogger(tel.contextualLogger),
		shell.WithMetrics(tel.observability.Metrics),
		shell.WithTracing(tel.observability.Tracing),
	)
	if err != nil {
		return err
	}

	companyID, err := foundPlanetExpress(shell.WithCausation(ctx, uuid.New(), uuid.New()), repository)
	if err != nil {
		return err
	}

	loaded, err := repository.Load(ctx, companyID)
	if err != nil {
		return err
	}

	return printRoster(out, loaded)
}

func foundPlanetExpress(ctx context.Context, repository *shell.Repository[*company.Company]) (uuid.UUID, error) {
	found, err := company.BuildFoundCompany("Planet Express")
	if err != nil {
		return uuid.Nil, err
	}

	c := company.New()
	if err = c.Found(found); err != nil {
		return uuid.Nil, err
	}

	if _, err = hire(c, "Turanga Leela", "Captain"); err != nil {
		return uuid.Nil, err
	}

	fryID, err := hire(c, "Philip Fry", "Delivery Boy")
	if err != nil {
		return uuid.Nil, err
	}

	fry, err := c.Employee(fryID)
	if err != nil {
		return uuid.Nil, err
	}

	promote, err := company.BuildPromoteEmployee("Narwhal Trainer")
	if err != nil {
		return uuid.Nil, err
	}

	if err = fry.Promote(promote); err != nil {
		return uuid.Nil, err
	}

	if err = repository.Save(ctx, c); err != nil {
		return uuid.Nil, err
	}

	return c.ID(), nil
}

func hire(c *company.Company, name string, title string) (uuid.UUID, error) {
	command, err := company.BuildHireEmployee(name, title)
	if err != nil {
		return uuid.Nil, err
	}

	return c.HireEmployee(command)
}

func printRoster(out io.Writer, c *company.Company) error {
	if _, err := fmt.Fprintln(out, c.Name); err != nil {
		return err
	}

	for employee := range c.Employees.All() {
		if _, err := fmt.Fprintf(out, " - %s, %s\n", employee.Name, employee.Title); err != nil {
			return err
		}
	}

	return nil
}
