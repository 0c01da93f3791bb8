package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"atelier-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "atelier.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStatusOverrides(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetStatus(ctx, "CMD-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetStatus(ctx, "CMD-1", models.StatusShipped))

	status, ok, err := s.GetStatus(ctx, "CMD-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.StatusShipped, status)

	// second write replaces, not duplicates
	require.NoError(t, s.SetStatus(ctx, "CMD-1", models.StatusCompleted))
	require.NoError(t, s.SetStatus(ctx, "CMD-2", models.StatusCancelled))

	overrides, err := s.GetOverrides(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Status{
		"CMD-1": models.StatusCompleted,
		"CMD-2": models.StatusCancelled,
	}, overrides)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	syncedAt := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.SaveSnapshot(ctx, &models.Snapshot{
		Orders: []models.Order{
			{ID: "CMD-2", CustomerName: "Marie", Amount: 20, Status: models.StatusPending},
			{ID: "CMD-1", CustomerName: "Jean", Amount: 9.40, Status: models.StatusShipped},
		},
		SyncedAt:     syncedAt,
		RowsRejected: 3,
	}))

	loaded, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Orders, 2)
	assert.Equal(t, "CMD-2", loaded.Orders[0].ID)
	assert.Equal(t, models.StatusShipped, loaded.Orders[1].Status)
	assert.Equal(t, 3, loaded.RowsRejected)
	assert.True(t, loaded.SyncedAt.Equal(syncedAt))

	// a second save replaces the single cached snapshot
	require.NoError(t, s.SaveSnapshot(ctx, &models.Snapshot{
		Orders:   []models.Order{{ID: "CMD-3"}},
		SyncedAt: time.Now().UTC(),
	}))

	loaded, err = s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Orders, 1)
	assert.Equal(t, "CMD-3", loaded.Orders[0].ID)
}

func TestStatusOutlivesSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetStatus(ctx, "CMD-GONE", models.StatusShipped))
	require.NoError(t, s.SaveSnapshot(ctx, &models.Snapshot{
		Orders:   []models.Order{{ID: "CMD-OTHER"}},
		SyncedAt: time.Now(),
	}))

	// an override with no matching order is inert, not an error
	overrides, err := s.GetOverrides(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, overrides["CMD-GONE"])
}
