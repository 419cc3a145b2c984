// sweep deletes stale sessions and expired links once and exits. The same
// sweep runs from the admin cleanup endpoint and, when CLEANUP_CRON is
// set, on a schedule inside the server; this binary exists for cron jobs
// and one-off maintenance from a shell.
//
// Run: go run ./cmd/sweep [-days 30]
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/coinflipper/login-service/config"
	"github.com/coinflipper/login-service/internal/infrastructure/postgres"
	"github.com/coinflipper/login-service/internal/sweeper"
	"github.com/coinflipper/login-service/internal/usecase"
)

func main() {
	days := flag.Int("days", 30, "delete sessions idle longer than this many days")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	sessionRepo := postgres.NewSessionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	linkRepo := postgres.NewLinkRepository(pool)

	sessions := usecase.NewSessionUsecase(sessionRepo, userRepo, logger)

	sw := sweeper.New(sessions, linkRepo, time.Duration(*days)*24*time.Hour, logger)
	sw.Run(ctx)
}
