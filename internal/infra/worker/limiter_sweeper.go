package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultSweepInterval = 5 * time.Minute

type sweeper interface {
	Sweep(now time.Time) int
}

// LimiterSweeper periodically drops expired rate-limit windows so the
// in-memory limiter does not grow with every distinct client.
type LimiterSweeper struct {
	limiter      sweeper
	tickInterval time.Duration
	now          func() time.Time
	log          logrus.FieldLogger
}

func NewLimiterSweeper(limiter sweeper, interval time.Duration, log logrus.FieldLogger) *LimiterSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LimiterSweeper{
		limiter:      limiter,
		tickInterval: interval,
		now:          time.Now,
		log:          log,
	}
}

func (s *LimiterSweeper) Start(ctx context.Context) {
	s.log.WithField("interval", s.tickInterval.String()).Info("rate limit sweeper started")

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("rate limit sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *LimiterSweeper) sweep() int {
	removed := s.limiter.Sweep(s.now())
	if removed > 0 {
		s.log.WithField("removed", removed).Debug("expired rate limit windows removed")
	}
	return removed
}
