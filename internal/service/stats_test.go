package service

import (
	"context"
	"strings"
	"testing"

	"atelier-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_Aggregation(t *testing.T) {
	srv := newSheetServer(t,
		row("CMD-1", "Jean", "10,00 €", ""),
		row("CMD-2", "Marie", "20,00 €", "En cours"),
		row("CMD-3", "Luc", "", ""),
	)
	d, _ := newTestDashboard(t, srv)
	require.NoError(t, d.Sync(context.Background()))

	stats := d.Stats()
	assert.Equal(t, 3, stats.TotalOrders)
	assert.InDelta(t, 30.00, stats.TotalRevenue, 1e-9)
	// profit(10) + profit(20) + profit(0) = 3.50 + 8.50 + 0
	assert.InDelta(t, 12.00, stats.TotalProfit, 1e-9)

	assert.Equal(t, 2, stats.CountsByStatus[models.StatusPending])
	assert.Equal(t, 1, stats.CountsByStatus[models.StatusInProduction])

	// zero-count statuses still appear
	for _, s := range models.AllStatuses {
		_, present := stats.CountsByStatus[s]
		assert.True(t, present, "status %s missing from counts", s)
	}
}

func TestSearchAndFilter(t *testing.T) {
	srv := newSheetServer(t,
		row("CMD-1", "Jean Dupont", "10,00 €", ""),
		row("CMD-2", "Marie Curie", "20,00 €", "Expédiée"),
		row("CMD-3", "Enzo Dupont", "15,00 €", ""),
	)
	d, _ := newTestDashboard(t, srv)
	require.NoError(t, d.Sync(context.Background()))

	// case-insensitive match over customer name
	found := d.Search("dupont")
	require.Len(t, found, 2)

	// match over order id
	found = d.Search("cmd-2")
	require.Len(t, found, 1)
	assert.Equal(t, "Marie Curie", found[0].CustomerName)

	// match over product name
	found = d.Search("vase")
	assert.Len(t, found, 3)

	shipped := d.FilterByStatus(models.StatusShipped)
	require.Len(t, shipped, 1)
	assert.Equal(t, "CMD-2", shipped[0].ID)

	assert.Len(t, d.List("", "all"), 3)
	assert.Len(t, d.List("dupont", string(models.StatusPending)), 2)
	assert.Empty(t, d.List("dupont", string(models.StatusShipped)))
}

func TestExportCSV(t *testing.T) {
	srv := newSheetServer(t,
		row("CMD-1", "Dupont, Jean", "10,00 €", ""),
		row("CMD-2", "Marie", "20,00 €", ""),
	)
	d, _ := newTestDashboard(t, srv)
	require.NoError(t, d.Sync(context.Background()))

	out, err := d.ExportCSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(exportHeader, ","), lines[0])
	// newest first, comma in the name re-quoted
	assert.True(t, strings.HasPrefix(lines[1], "CMD-2,"))
	assert.Contains(t, lines[2], `"Dupont, Jean"`)
	assert.Contains(t, lines[1], "20.00")
}

func TestBreakdown(t *testing.T) {
	b := Breakdown(13.00)
	assert.Equal(t, 13.00, b.Amount)
	assert.Equal(t, 3.00, b.FixedCost)
	assert.Equal(t, 5.00, b.Profit)
}
