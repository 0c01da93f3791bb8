package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_sync_total",
		Help: "Total number of sheet sync attempts by result",
	}, []string{"result"})

	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sheet_sync_duration_seconds",
		Help:    "Duration of sheet sync cycles",
		Buckets: prometheus.DefBuckets,
	})

	OrdersIngested = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orders_ingested",
		Help: "Number of orders in the current snapshot",
	})

	RowsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_rows_rejected_total",
		Help: "Total number of sheet rows dropped during mapping",
	}, []string{"reason"})

	StatusChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Total number of order status overrides recorded",
	})

	SnapshotFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_fallbacks_total",
		Help: "Total number of times the cached snapshot was served after a failed sync",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
