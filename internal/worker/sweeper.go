package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AgedCleaner - то, что умеет удалять списки старше заданного возраста
type AgedCleaner interface {
	DeleteOlderThan(ctx context.Context, maxAge time.Duration) int
}

// Sweeper - страховка на случай протекших сессионных таймеров:
// периодически сносит списки, к которым давно не обращались
type Sweeper struct {
	store    AgedCleaner
	logger   *zap.Logger
	interval time.Duration
	maxAge   time.Duration
	wg       sync.WaitGroup
	stop     chan struct{}
}

func NewSweeper(store AgedCleaner, logger *zap.Logger, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		logger:   logger,
		interval: interval,
		maxAge:   maxAge,
		stop:     make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting retention sweeper",
		zap.Duration("interval", s.interval),
		zap.Duration("max_age", s.maxAge),
	)

	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	s.logger.Info("Stopping retention sweeper...")
	close(s.stop)
	s.wg.Wait()
	s.logger.Info("Retention sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	removed := s.store.DeleteOlderThan(ctx, s.maxAge)
	if removed > 0 {
		s.logger.Info("Swept stale task lists", zap.Int("removed", removed))
	}
}
