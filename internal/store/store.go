package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"atelier-dashboard/internal/models"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS status_overrides (
	order_id   TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS snapshots (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	data        TEXT NOT NULL,
	synced_at   TIMESTAMP NOT NULL,
	row_rejects INTEGER NOT NULL DEFAULT 0
);
`

// Store is the durable local state: the status overrides owned by this
// client, and the last-known-good ingestion snapshot used as a fallback when
// the upstream sheet is unreachable.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (and initializes) the embedded SQLite database at path.
func NewStore(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// single writer keeps the embedded driver happy
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SetStatus records a status override for an order. The write is immediate
// and durable; the id is not required to match a currently known order, so a
// status may be pre-seeded for an order not yet ingested.
func (s *Store) SetStatus(ctx context.Context, orderID string, status models.Status) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO status_overrides (order_id, status, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (order_id) DO UPDATE SET status = excluded.status, updated_at = CURRENT_TIMESTAMP`,
		orderID, string(status))
	return err
}

// GetStatus retrieves the override for one order, reporting absence.
func (s *Store) GetStatus(ctx context.Context, orderID string) (models.Status, bool, error) {
	var status string
	err := s.db.GetContext(ctx, &status,
		"SELECT status FROM status_overrides WHERE order_id = ?", orderID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return models.Status(status), true, nil
}

// GetOverrides returns the full id-to-status mapping. Ingestion re-reads this
// at overlay time so overrides written during an in-flight sync are not lost.
func (s *Store) GetOverrides(ctx context.Context) (map[string]models.Status, error) {
	type row struct {
		OrderID string `db:"order_id"`
		Status  string `db:"status"`
	}
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, "SELECT order_id, status FROM status_overrides"); err != nil {
		return nil, err
	}

	overrides := make(map[string]models.Status, len(rows))
	for _, r := range rows {
		overrides[r.OrderID] = models.Status(r.Status)
	}
	return overrides, nil
}

// SaveSnapshot persists the last successful ingestion result, replacing the
// previous one. Orders are stored denormalized as JSON; this is a cache, not
// a queryable table.
func (s *Store) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	data, err := json.Marshal(snap.Orders)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, data, synced_at, row_rejects)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data,
			synced_at = excluded.synced_at, row_rejects = excluded.row_rejects`,
		string(data), snap.SyncedAt.UTC().Format(time.RFC3339Nano), snap.RowsRejected)
	return err
}

// LoadSnapshot returns the persisted snapshot, or nil when none exists yet.
func (s *Store) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var row struct {
		Data       string `db:"data"`
		SyncedAt   string `db:"synced_at"`
		RowRejects int    `db:"row_rejects"`
	}
	err := s.db.GetContext(ctx, &row, "SELECT data, synced_at, row_rejects FROM snapshots WHERE id = 1")
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := json.Unmarshal([]byte(row.Data), &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	syncedAt, err := time.Parse(time.RFC3339Nano, row.SyncedAt)
	if err != nil {
		syncedAt = time.Time{}
	}

	return &models.Snapshot{
		Orders:       orders,
		SyncedAt:     syncedAt,
		RowsRejected: row.RowRejects,
	}, nil
}
