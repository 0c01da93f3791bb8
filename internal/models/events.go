package models

import "time"

// Event types
const (
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeSyncCompleted      = "SYNC_COMPLETED"
	EventTypeSyncFailed         = "SYNC_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent published when a status override is recorded
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	OldStatus Status `json:"old_status,omitempty"`
	NewStatus Status `json:"new_status"`
}

// SyncCompletedEvent published after a successful ingestion cycle
type SyncCompletedEvent struct {
	BaseEvent
	OrderCount   int     `json:"order_count"`
	RowsRejected int     `json:"rows_rejected"`
	TotalRevenue float64 `json:"total_revenue"`
}

// SyncFailedEvent published when an ingestion cycle aborts
type SyncFailedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}
