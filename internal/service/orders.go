package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"atelier-dashboard/internal/models"
	"atelier-dashboard/internal/sheet"
	"atelier-dashboard/internal/util"

	"go.uber.org/zap"
)

// Orders returns a copy of the current order set, newest-first.
func (d *Dashboard) Orders() []models.Order {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Order, len(d.snapshot.Orders))
	copy(out, d.snapshot.Orders)
	return out
}

// Order returns one order by id.
func (d *Dashboard) Order(id string) (models.Order, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, o := range d.snapshot.Orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// List filters the current order set by a case-insensitive search term
// (customer name, order id, product) and a status ("all" or empty keeps
// everything). Ordering is preserved.
func (d *Dashboard) List(term string, status string) []models.Order {
	term = strings.ToLower(strings.TrimSpace(term))
	all := status == "" || status == "all"

	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.Order, 0, len(d.snapshot.Orders))
	for _, o := range d.snapshot.Orders {
		if !all && string(o.Status) != status {
			continue
		}
		if term != "" && !matches(o, term) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Search returns orders matching the term.
func (d *Dashboard) Search(term string) []models.Order {
	return d.List(term, "all")
}

// FilterByStatus returns orders in the given status.
func (d *Dashboard) FilterByStatus(status models.Status) []models.Order {
	return d.List("", string(status))
}

func matches(o models.Order, term string) bool {
	return strings.Contains(strings.ToLower(o.CustomerName), term) ||
		strings.Contains(strings.ToLower(o.ID), term) ||
		strings.Contains(strings.ToLower(o.Product), term)
}

// UpdateStatus records a durable status override and applies it to the
// in-memory order set. The id does not have to match a known order: an
// override may be pre-seeded for an order not yet ingested.
func (d *Dashboard) UpdateStatus(ctx context.Context, orderID string, status models.Status) error {
	if err := d.store.SetStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("failed to persist status: %w", err)
	}

	var old models.Status
	d.mu.Lock()
	for i := range d.snapshot.Orders {
		if d.snapshot.Orders[i].ID == orderID {
			old = d.snapshot.Orders[i].Status
			d.snapshot.Orders[i].Status = status
			break
		}
	}
	d.mu.Unlock()

	util.StatusChangesTotal.Inc()
	d.logger.Info("Order status changed",
		zap.String("order_id", orderID),
		zap.String("status", string(status)))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:   orderID,
		OldStatus: old,
		NewStatus: status,
	}
	if err := d.publisher.PublishStatusChanged(ctx, event); err != nil {
		d.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return nil
}

var exportHeader = []string{
	"id", "timestamp", "customer_name", "email", "phone", "address",
	"product", "quantity", "material", "color", "amount",
	"payment_mode", "delivery_method", "status", "urgent",
}

// ExportCSV renders the current order set as CSV, newest-first, omitting
// derived and internal-only fields.
func (d *Dashboard) ExportCSV() (string, error) {
	orders := d.Orders()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return "", err
	}
	for _, o := range orders {
		record := []string{
			o.ID,
			o.Timestamp,
			o.CustomerName,
			o.Email,
			o.Phone,
			o.Address,
			o.Product,
			strconv.Itoa(o.Quantity),
			o.Material,
			o.Color,
			strconv.FormatFloat(o.Amount, 'f', 2, 64),
			o.PaymentMode,
			o.DeliveryMethod,
			string(o.Status),
			strconv.FormatBool(o.Urgent),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ProfitBreakdown decomposes an order's amount for the detail view.
type ProfitBreakdown struct {
	Amount    float64 `json:"amount"`
	FixedCost float64 `json:"fixed_cost"`
	Profit    float64 `json:"profit"`
}

// Breakdown returns the profit breakdown for an amount.
func Breakdown(amount float64) ProfitBreakdown {
	return ProfitBreakdown{
		Amount:    amount,
		FixedCost: sheet.FixedCost,
		Profit:    sheet.Profit(amount),
	}
}
