package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"atelier-dashboard/internal/models"

	"github.com/go-redis/redis/v8"
)

const snapshotKey = "snapshot:latest"

// Client is an optional hot cache for the ingestion snapshot. It is consulted
// before the SQLite cache on fallback and refreshed after every successful
// sync; the service runs fine without it.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and verifies the connection.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// CacheSnapshot stores the serialized snapshot. No TTL: the cache is
// last-known-good by design and staleness is tracked via SyncedAt.
func (c *Client) CacheSnapshot(ctx context.Context, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return c.rdb.Set(ctx, snapshotKey, data, 0).Err()
}

// Snapshot retrieves the cached snapshot, or nil when none is cached.
func (c *Client) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	data, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached snapshot: %w", err)
	}
	return &snap, nil
}
