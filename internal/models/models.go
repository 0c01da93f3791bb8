package models

import (
	"strings"
	"time"
)

// Status is the canonical fulfillment stage of an order. The local status
// store is authoritative; the upstream sheet's own status column is only a
// hint and may carry the workshop's French labels.
type Status string

const (
	StatusPending      Status = "pending"
	StatusInProduction Status = "in_production"
	StatusQualityCheck Status = "quality_check"
	StatusReady        Status = "ready"
	StatusShipped      Status = "shipped"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

// AllStatuses lists every status in workflow order. Stats reporting iterates
// this so that empty stages still show up with a zero count.
var AllStatuses = []Status{
	StatusPending,
	StatusInProduction,
	StatusQualityCheck,
	StatusReady,
	StatusShipped,
	StatusCompleted,
	StatusCancelled,
}

// frenchLabels maps the labels used on the upstream sheet to canonical
// statuses. Quality check has no upstream equivalent; it only exists locally.
var frenchLabels = map[string]Status{
	"à préparer": StatusPending,
	"a préparer": StatusPending,
	"a preparer": StatusPending,
	"en cours":   StatusInProduction,
	"à emballer": StatusReady,
	"a emballer": StatusReady,
	"expédiée":   StatusShipped,
	"expediee":   StatusShipped,
	"livrée":     StatusCompleted,
	"livree":     StatusCompleted,
	"annulée":    StatusCancelled,
	"annulee":    StatusCancelled,
}

// ParseStatus resolves a raw status value, accepting both canonical ids and
// the upstream French labels. Returns false for unknown values.
func ParseStatus(raw string) (Status, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", false
	}
	for _, s := range AllStatuses {
		if v == string(s) {
			return s, true
		}
	}
	if s, ok := frenchLabels[v]; ok {
		return s, true
	}
	return "", false
}

// Defaults applied when a source column is blank.
const (
	DefaultProduct        = "Article 3D"
	DefaultMaterial       = "PLA"
	DefaultColor          = "N/A"
	DefaultPaymentMode    = "Non précisé"
	DefaultDeliveryMethod = "Standard"
	DefaultCustomerName   = "Inconnu"
	DefaultQuantity       = 1
)

// Order is one workshop order as published by the ingestion pipeline.
// Timestamp is kept as the raw upstream value; it is displayed, not computed on.
type Order struct {
	ID             string  `json:"id"`
	Timestamp      string  `json:"timestamp"`
	CustomerName   string  `json:"customer_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	Product        string  `json:"product"`
	Quantity       int     `json:"quantity"`
	Material       string  `json:"material"`
	Color          string  `json:"color"`
	Amount         float64 `json:"amount"`
	PaymentMode    string  `json:"payment_mode"`
	DeliveryMethod string  `json:"delivery_method"`
	Status         Status  `json:"status"`
	Urgent         bool    `json:"urgent"`
}

// Snapshot is the complete result of one ingestion cycle, replaced wholesale
// on success. On failure the previous orders stay visible and only LastError
// changes, so stale-but-valid data is never blanked out.
type Snapshot struct {
	Orders       []Order   `json:"orders"`
	SyncedAt     time.Time `json:"synced_at"`
	LastError    string    `json:"last_error,omitempty"`
	RowsRejected int       `json:"rows_rejected"`
}

// Stats summarizes the current order set.
type Stats struct {
	TotalOrders    int            `json:"total_orders"`
	CountsByStatus map[Status]int `json:"counts_by_status"`
	TotalRevenue   float64        `json:"total_revenue"`
	TotalProfit    float64        `json:"total_profit"`
}
