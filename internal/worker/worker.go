package worker

import (
	"context"
	"errors"
	"time"

	"atelier-dashboard/internal/service"
	"atelier-dashboard/internal/util"

	"go.uber.org/zap"
)

// SyncWorker drives the periodic ingestion cycle: one sync at startup, then
// one per interval until the context is cancelled. Manual refreshes go
// straight through the service, whose single-flight guard collapses overlaps
// with the timer.
type SyncWorker struct {
	dashboard *service.Dashboard
	interval  time.Duration
	logger    *zap.Logger
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(dashboard *service.Dashboard, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		dashboard: dashboard,
		interval:  interval,
		logger:    util.GetLogger(),
	}
}

// Start runs the sync loop until ctx is cancelled.
func (w *SyncWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting sync worker", zap.Duration("interval", w.interval))

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Sync worker stopping")
			return ctx.Err()
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	err := w.dashboard.Sync(ctx)
	if err == nil || errors.Is(err, service.ErrSyncInFlight) {
		return
	}
	// already recorded on the snapshot; the next tick retries
	w.logger.Warn("Scheduled sync failed", zap.Error(err))
}
