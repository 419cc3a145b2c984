// Package sweeper runs the retention sweep: stale sessions and expired
// magic links. The admin cleanup endpoint does the same thing on demand;
// this is the scheduled variant.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/coinflipper/login-service/internal/metrics"
	"github.com/coinflipper/login-service/internal/repository"
	"github.com/coinflipper/login-service/internal/usecase"
	"github.com/robfig/cron/v3"
)

type Sweeper struct {
	sessions  *usecase.SessionUsecase
	links     repository.LinkRepository
	threshold time.Duration
	logger    *slog.Logger
}

func New(sessions *usecase.SessionUsecase, links repository.LinkRepository, threshold time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		sessions:  sessions,
		links:     links,
		threshold: threshold,
		logger:    logger.With("component", "sweeper"),
	}
}

// Run executes one sweep. Errors are logged, not returned: a failed sweep
// just waits for the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	deleted, err := s.sessions.Cleanup(ctx, s.threshold)
	if err != nil {
		s.logger.Error("session sweep", "error", err)
	} else if deleted > 0 {
		metrics.SessionsDeletedTotal.WithLabelValues("cleanup").Add(float64(deleted))
		s.logger.Info("swept stale sessions", "deleted", deleted)
	}

	purged, err := s.links.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("link sweep", "error", err)
	} else if purged > 0 {
		s.logger.Info("purged expired links", "purged", purged)
	}
}

// Schedule starts a cron runner firing Run on spec (standard five-field
// syntax). The returned cron should be stopped on shutdown.
func (s *Sweeper) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		s.Run(context.Background())
	}); err != nil {
		return nil, err
	}
	c.Start()
	s.logger.Info("sweep scheduled", "cron", spec)
	return c, nil
}
