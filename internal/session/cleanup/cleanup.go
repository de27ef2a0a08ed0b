package cleanup

import (
	"context"
	"time"

	"github.com/hamworks/timesheet-system/internal/common/clock"
	"github.com/hamworks/timesheet-system/internal/common/logger"
	"github.com/hamworks/timesheet-system/internal/observability/metrics"
)

type SessionDeactivator interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically deactivates sessions whose expiry has passed. The
// sweep is a safety net on top of lazy expiry during validation, so a
// token that is never presented again still gets flipped inactive.
type Sweeper struct {
	sessions SessionDeactivator
	clock    clock.Clock
	interval time.Duration
	log      *logger.Logger
}

func NewSweeper(sessions SessionDeactivator, clk clock.Clock, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		clock:    clk,
		interval: interval,
		log:      log,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Infof("session cleanup started, interval %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session cleanup stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep immediately.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	count, err := s.sessions.DeactivateExpired(ctx, s.clock.Now())
	if err != nil {
		s.log.Errorf("session cleanup sweep failed: %v", err)
		return
	}
	if count > 0 {
		metrics.SessionsCleanupDeactivated.Add(float64(count))
		s.log.Infof("session cleanup deactivated %d expired sessions", count)
	}
}
