package maintenance

import (
	"context"
	"time"

	"stockwatch-backend/pkg/logger"

	"github.com/jonboulle/clockwork"
)

const tickInterval = 24 * time.Hour

// Notifier is the broadcast entry point the scheduler fires after a pass.
type Notifier interface {
	BroadcastMaintenance()
}

// Store is the subset of the data layer the maintenance pass touches.
type Store interface {
	DeleteExpiredUserKeys(before time.Time) (int64, error)
}

// Scheduler runs one maintenance pass per day: expired refresh-token rows are
// pruned and subscribers are told that maintenance completed.
type Scheduler struct {
	store    Store
	notifier Notifier
	logger   *logger.Logger
	clock    clockwork.Clock
}

func NewScheduler(store Store, notifier Notifier, log *logger.Logger, clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		store:    store,
		notifier: notifier,
		logger:   log,
		clock:    clock,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(tickInterval)
	defer ticker.Stop()

	s.logger.PrintfInfo("Maintenance scheduler started, interval %s", tickInterval)

	for {
		select {
		case <-ctx.Done():
			s.logger.PrintfInfo("Maintenance scheduler stopped")
			return
		case <-ticker.Chan():
			s.RunOnce()
		}
	}
}

// RunOnce executes a single maintenance pass.
func (s *Scheduler) RunOnce() {
	deleted, err := s.store.DeleteExpiredUserKeys(s.clock.Now())
	if err != nil {
		s.logger.PrintfError("Failed to prune expired user keys: %s", err)
	} else {
		s.logger.PrintfInfo("Maintenance pass pruned %d expired user keys", deleted)
	}

	s.notifier.BroadcastMaintenance()
}
