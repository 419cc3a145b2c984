package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coinflipper/login-service/config"
	"github.com/coinflipper/login-service/internal/email"
	"github.com/coinflipper/login-service/internal/health"
	"github.com/coinflipper/login-service/internal/infrastructure/postgres"
	ctxlog "github.com/coinflipper/login-service/internal/log"
	"github.com/coinflipper/login-service/internal/metrics"
	"github.com/coinflipper/login-service/internal/sweeper"
	httptransport "github.com/coinflipper/login-service/internal/transport/http"
	"github.com/coinflipper/login-service/internal/transport/http/handler"
	"github.com/coinflipper/login-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	userRepo := postgres.NewUserRepository(pool)
	linkRepo := postgres.NewLinkRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)

	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	authUsecase := usecase.NewAuthUsecase(userRepo, linkRepo, sessionRepo, sender, cfg.LoginURL())
	sessionUsecase := usecase.NewSessionUsecase(sessionRepo, userRepo, logger)
	pretendUsecase := usecase.NewPretendUsecase(sessionRepo, userRepo)
	userUsecase := usecase.NewUserUsecase(userRepo)

	cookies := handler.CookieConfig{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure()}
	staleThreshold := time.Duration(cfg.CleanupThresholdDays) * 24 * time.Hour

	authHandler := handler.NewAuthHandler(authUsecase, cookies, logger)
	sessionHandler := handler.NewSessionHandler(sessionUsecase, cookies, logger)
	userHandler := handler.NewUserHandler(userUsecase, logger)
	adminHandler := handler.NewAdminHandler(userUsecase, sessionUsecase, pretendUsecase, staleThreshold, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(
			logger,
			sessionUsecase,
			authHandler,
			sessionHandler,
			userHandler,
			adminHandler,
			cfg.AdminAPIKey,
		),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	if cfg.CleanupCron != "" {
		sw := sweeper.New(sessionUsecase, linkRepo, staleThreshold, logger)
		c, err := sw.Schedule(cfg.CleanupCron)
		if err != nil {
			stop()
			log.Fatalf("cleanup cron: %v", err)
		}
		defer c.Stop()
	}

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
