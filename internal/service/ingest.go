package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"atelier-dashboard/internal/broker"
	"atelier-dashboard/internal/models"
	"atelier-dashboard/internal/redisclient"
	"atelier-dashboard/internal/sheet"
	"atelier-dashboard/internal/store"
	"atelier-dashboard/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSyncInFlight is returned when a sync is requested while another one is
// still running. The caller simply skips this cycle; the running sync's
// result will land shortly.
var ErrSyncInFlight = errors.New("sync already in progress")

// Dashboard owns the in-memory order set and orchestrates the ingestion
// pipeline: fetch CSV, parse, map, overlay status overrides, publish the
// snapshot, fall back to the last-known-good cache on failure.
type Dashboard struct {
	fetcher   *sheet.Fetcher
	store     *store.Store
	cache     *redisclient.Client // nil when Redis is disabled
	publisher broker.Publisher
	logger    *zap.Logger

	mu       sync.RWMutex
	snapshot models.Snapshot

	syncing atomic.Bool
}

// NewDashboard creates the dashboard service.
func NewDashboard(
	fetcher *sheet.Fetcher,
	st *store.Store,
	cache *redisclient.Client,
	publisher broker.Publisher,
) *Dashboard {
	return &Dashboard{
		fetcher:   fetcher,
		store:     st,
		cache:     cache,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Restore loads the last persisted snapshot so that orders are visible
// before the first sync completes. Called once at startup; missing caches
// are not an error.
func (d *Dashboard) Restore(ctx context.Context) error {
	snap, err := d.loadCached(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	d.mu.Lock()
	d.snapshot = *snap
	d.mu.Unlock()
	util.OrdersIngested.Set(float64(len(snap.Orders)))

	d.logger.Info("Restored cached snapshot",
		zap.Int("orders", len(snap.Orders)),
		zap.Time("synced_at", snap.SyncedAt))
	return nil
}

// Sync runs one ingestion cycle. Overlapping invocations are collapsed: the
// visible order set always reflects a single complete ingestion, never an
// interleaving of two.
func (d *Dashboard) Sync(ctx context.Context) error {
	if !d.syncing.CompareAndSwap(false, true) {
		return ErrSyncInFlight
	}
	defer d.syncing.Store(false)

	ctx, span := util.StartSpan(ctx, "Dashboard.Sync")
	defer span.End()

	start := time.Now()
	defer func() {
		util.SyncDuration.Observe(time.Since(start).Seconds())
	}()

	text, err := d.fetcher.Fetch(ctx)
	if err != nil {
		return d.fail(ctx, err)
	}

	rows := sheet.ParseRows(text)
	mapper, data := sheet.NewMapper(rows)

	// overrides are re-read here, at overlay time, so a status change made
	// during an in-flight fetch is not overwritten
	overrides, err := d.store.GetOverrides(ctx)
	if err != nil {
		return d.fail(ctx, fmt.Errorf("failed to read status overrides: %w", err))
	}

	orders := make([]models.Order, 0, len(data))
	seen := make(map[string]int, len(data))
	rejected := 0
	for _, row := range data {
		order, reject := mapper.MapRow(row, overrides)
		if reject != "" {
			rejected++
			util.RowsRejectedTotal.WithLabelValues(string(reject)).Inc()
			continue
		}
		if at, dup := seen[order.ID]; dup {
			// last occurrence wins; the displaced row counts as rejected
			orders[at] = order
			rejected++
			util.RowsRejectedTotal.WithLabelValues(string(sheet.RejectDuplicateID)).Inc()
			continue
		}
		seen[order.ID] = len(orders)
		orders = append(orders, order)
	}

	if len(orders) == 0 {
		return d.fail(ctx, fmt.Errorf("%w: no usable rows", sheet.ErrEmptyPayload))
	}

	// the sheet is chronological oldest-first; the dashboard wants newest-first
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}

	snap := models.Snapshot{
		Orders:       orders,
		SyncedAt:     time.Now(),
		RowsRejected: rejected,
	}

	d.mu.Lock()
	d.snapshot = snap
	d.mu.Unlock()

	if err := d.store.SaveSnapshot(ctx, &snap); err != nil {
		d.logger.Warn("Failed to persist snapshot", zap.Error(err))
	}
	if d.cache != nil {
		if err := d.cache.CacheSnapshot(ctx, &snap); err != nil {
			d.logger.Warn("Failed to cache snapshot in redis", zap.Error(err))
		}
	}

	util.SyncTotal.WithLabelValues("success").Inc()
	util.OrdersIngested.Set(float64(len(orders)))

	stats := d.Stats()
	event := &models.SyncCompletedEvent{
		BaseEvent:    newBaseEvent(models.EventTypeSyncCompleted),
		OrderCount:   len(orders),
		RowsRejected: rejected,
		TotalRevenue: stats.TotalRevenue,
	}
	if err := d.publisher.PublishSyncCompleted(ctx, event); err != nil {
		d.logger.Error("Failed to publish SyncCompleted event", zap.Error(err))
	}

	d.logger.Info("Sheet synchronized",
		zap.Int("orders", len(orders)),
		zap.Int("rows_rejected", rejected),
		zap.Duration("took", time.Since(start)))
	return nil
}

// fail records the error, serves the cached snapshot when nothing is visible
// yet, and never blanks out previously displayed orders.
func (d *Dashboard) fail(ctx context.Context, err error) error {
	util.SyncTotal.WithLabelValues("failure").Inc()
	d.logger.Warn("Sync failed", zap.Error(err))

	d.mu.Lock()
	d.snapshot.LastError = err.Error()
	empty := len(d.snapshot.Orders) == 0
	d.mu.Unlock()

	if empty {
		if snap, cacheErr := d.loadCached(ctx); cacheErr == nil && snap != nil {
			util.SnapshotFallbacksTotal.Inc()
			d.mu.Lock()
			d.snapshot.Orders = snap.Orders
			d.snapshot.SyncedAt = snap.SyncedAt
			d.snapshot.RowsRejected = snap.RowsRejected
			d.mu.Unlock()
			util.OrdersIngested.Set(float64(len(snap.Orders)))
			d.logger.Info("Serving stale snapshot after failed sync",
				zap.Int("orders", len(snap.Orders)),
				zap.Time("synced_at", snap.SyncedAt))
		}
	}

	event := &models.SyncFailedEvent{
		BaseEvent: newBaseEvent(models.EventTypeSyncFailed),
		Reason:    err.Error(),
	}
	if pubErr := d.publisher.PublishSyncFailed(ctx, event); pubErr != nil {
		d.logger.Error("Failed to publish SyncFailed event", zap.Error(pubErr))
	}

	return err
}

// loadCached prefers the Redis hot cache, then the SQLite snapshot.
func (d *Dashboard) loadCached(ctx context.Context) (*models.Snapshot, error) {
	if d.cache != nil {
		snap, err := d.cache.Snapshot(ctx)
		if err != nil {
			d.logger.Warn("Failed to read snapshot from redis", zap.Error(err))
		} else if snap != nil {
			return snap, nil
		}
	}
	return d.store.LoadSnapshot(ctx)
}

// LastSync reports the time of the last successful sync and the last
// recorded error, for the staleness banner.
func (d *Dashboard) LastSync() (time.Time, string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot.SyncedAt, d.snapshot.LastError
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
