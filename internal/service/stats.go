package service

import (
	"atelier-dashboard/internal/models"
	"atelier-dashboard/internal/sheet"
)

// Stats recomputes the aggregate view of the current order set. Every status
// appears in the counts, zero or not; volumes are small enough that nothing
// is cached.
func (d *Dashboard) Stats() models.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}

	var revenue, profit float64
	for _, o := range d.snapshot.Orders {
		counts[o.Status]++
		revenue += o.Amount
		profit += sheet.Profit(o.Amount)
	}

	return models.Stats{
		TotalOrders:    len(d.snapshot.Orders),
		CountsByStatus: counts,
		TotalRevenue:   revenue,
		TotalProfit:    profit,
	}
}
