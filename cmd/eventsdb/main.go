package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/ahmetcoskunkizilkaya/community-events/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-events/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-events/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}
	cmd, ok := lookupCommand(args[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return 1
	}

	// Sentry error tracking
	var extra []slog.Handler
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			extra = append(extra, logging.NewSentryHandler(sentry.CurrentHub()))
		}
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, extra...).
		With("run_id", uuid.NewString(), "command", cmd.name)
	slog.SetDefault(logger)

	clock := clockwork.NewRealClock()

	// Database
	store, err := database.Open(database.Options{
		Path:        cfg.DBPath,
		BusyTimeout: cfg.DBBusyTimeout,
		LogLevel:    database.ParseLogLevel(cfg.DBLogLevel),
		SeedDevData: cfg.SeedDevData,
		Clock:       clock,
		Location:    cfg.Location(),
	})
	if err != nil {
		slog.Error("database open failed", "error", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	if err := store.Initialize(ctx); err != nil {
		slog.Error("database initialization failed", "error", err)
		return 1
	}

	a := newApp(store, cfg, clock, stdout)
	if err := cmd.run(ctx, a, args[1:]); err != nil {
		slog.Error("command failed", "error", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: eventsdb <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.summary)
	}
}
