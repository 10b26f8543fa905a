// Command amoura-console is the operator CLI for the Amoura dating
// platform's admin backend: sign in, inspect the dashboard, and run the
// user moderation workflow.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/amoura-app/amoura-console/cmd/amoura-console/cli"
	"github.com/amoura-app/amoura-console/internal/api"
	"github.com/amoura-app/amoura-console/internal/app"
	"github.com/amoura-app/amoura-console/internal/auth"
	"github.com/amoura-app/amoura-console/internal/moderation"
	"github.com/amoura-app/amoura-console/internal/session"
	"github.com/amoura-app/amoura-console/internal/stats"
)

func main() {
	// Commands print their own failure copy; main only sets the exit code.
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "amoura-console: %v\n", err)
		return err
	}
	logger := app.NewLogger(cfg)

	store, err := newSessionStore(cfg)
	if err != nil {
		logger.Error("session store", slog.Any("error", err))
		return err
	}
	sessions := session.NewManager(store, logger)

	client := api.New(cfg.APIBaseURL, sessions,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger))

	authSvc := auth.NewService(client, sessions, logger)
	console := &cli.Console{
		Auth:     authSvc,
		Users:    moderation.NewService(client, authSvc, logger),
		Stats:    stats.NewService(client),
		Sessions: sessions,
		Logger:   logger,
		Out:      os.Stdout,
	}

	unsubscribe := sessions.SubscribeExpiry(func() {
		fmt.Fprintln(os.Stderr, "session expired — run `amoura-console login` to sign in again")
	})
	defer unsubscribe()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return console.Run(ctx, os.Args[1:])
}

func newSessionStore(cfg *app.Config) (session.Store, error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return session.NewRedisStore(client, cfg.RedisPrefix), nil
	}
	return session.NewFileStore(cfg.CredentialsFile)
}
