package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AntonStoeckl/entity-eventstore-go/example/mailing"
	"github.com/AntonStoeckl/entity-eventstore-go/shell"
	"github.com/AntonStoeckl/entity-eventstore-go/shell/config"
)

const (
	defaultCount   = 1000
	defaultWorkers = 4
)

type flags struct {
	count   int
	workers int
	rate    int
}

func main() {
	f := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mailingtracker: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	engine, closeEngine, err := config.OpenEngine(ctx, cfg, config.Observability{Logger: logger})
	if err != nil {
		logger.Error("opening stream engine failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closeEngine() }()

	t, err := newTracker(engine, logger)
	if err != nil {
		logger.Error("building tracker failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Tracker Demo started at %s\n\n", time.Now().Format(time.RFC3339))

	runErr := t.run(ctx, f.count, f.workers, f.rate)

	fmt.Printf("\nTracker Demo stopped at %s\n\n", time.Now().Format(time.RFC3339))

	report, verifyErr := t.verify(ctx)
	report.print(os.Stdout)

	if runErr != nil || verifyErr != nil {
		logger.Error("tracker failed", "run_error", runErr, "verify_error", verifyErr)
		os.Exit(1)
	}
}

func parseFlags() flags {
	count := flag.Int("count", defaultCount, "number of random operations")
	workers := flag.Int("workers", defaultWorkers, "operations running at the same time")
	rate := flag.Int("rate", 0, "operations started per second, 0 for no limit")
	flag.Parse()

	return flags{count: *count, workers: *workers, rate: *rate}
}

func newRepository(store *shell.EventStore, router shell.EventRouter, logger *slog.Logger) (*shell.Repository[*mailing.Account], error) {
	return shell.NewRepository(store, mailing.NewAccount,
		shell.WithRouter(router),
		shell.WithLogger(logger),
		shell.WithRetryOptions(shell.WithMaxAttempts(10), shell.WithBaseDelay(2*time.Millisecond)),
	)
}
