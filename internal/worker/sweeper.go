package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/observability"
)

// Sweeper periodically evicts expired cache entries so idle keys do not
// accumulate. The sweep period must be shorter than the shortest TTL in
// use; entries are also checked lazily on read, so a sweep is about
// memory, not correctness.
type Sweeper struct {
	cache    cache.Cache
	interval time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewSweeper creates the sweeper.
func NewSweeper(c cache.Cache, interval time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		cache:    c,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run blocks until ctx is canceled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("cache sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("cache sweeper stopped")
			return
		case <-ticker.C:
			before := s.cache.Size(ctx)
			s.cache.CleanUp(ctx)
			s.metrics.RecordWorkerRun("sweeper")
			s.logger.Debug("cache sweep complete",
				zap.Int("before", before),
				zap.Int("after", s.cache.Size(ctx)))
		}
	}
}
