// Package sweeper periodically deletes expired sessions so the sessions
// table does not grow with abandoned sign-ins.
package sweeper

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Pruner deletes expired sessions and reports how many it removed.
type Pruner interface {
	PruneSessions(ctx context.Context) (int64, error)
}

// Sweeper runs a Pruner on a fixed interval.
type Sweeper struct {
	pruner   Pruner
	interval time.Duration
	logger   *zap.Logger
}

// New returns a sweeper. A non-positive interval disables it.
func New(pruner Pruner, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{pruner: pruner, interval: interval, logger: logger}
}

// Run prunes once per interval until ctx ends. Prune failures are logged
// and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	if s == nil || s.pruner == nil || s.interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	deleted, err := s.pruner.PruneSessions(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Warn("prune sessions", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("pruned sessions", zap.Int64("deleted", deleted))
	}
}
