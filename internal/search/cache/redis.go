// Package cache provides the Redis-backed snapshot cache for the search
// fallback. The cache is time-bounded and strictly optional: when no
// Redis address is configured, the resolver fetches the snapshot fresh
// on every fallback, matching the original provider contract.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const snapshotCacheKey = "gamedrop:search:applist"

// Snapshot is a time-bounded Redis cache of the full catalog snapshot.
type Snapshot struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewSnapshot creates a snapshot cache on the given Redis client.
func NewSnapshot(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Snapshot {
	return &Snapshot{rdb: rdb, ttl: ttl, log: log}
}

// Get returns the cached snapshot, or false on a miss. Cache errors are
// treated as misses; the resolver then falls through to the provider.
func (s *Snapshot) Get(ctx context.Context) ([]transport.CatalogApp, bool) {
	raw, err := s.rdb.Get(ctx, snapshotCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("snapshot cache read failed", "error", err)
		}
		return nil, false
	}

	var apps []transport.CatalogApp
	if err := json.Unmarshal(raw, &apps); err != nil {
		s.log.Warn("snapshot cache payload corrupt", "error", err)
		return nil, false
	}

	return apps, true
}

// Set stores the snapshot with the configured TTL. Failures are logged
// and otherwise ignored; the cache is best-effort.
func (s *Snapshot) Set(ctx context.Context, apps []transport.CatalogApp) {
	raw, err := json.Marshal(apps)
	if err != nil {
		s.log.Warn("snapshot cache encode failed", "error", err)
		return
	}

	if err := s.rdb.Set(ctx, snapshotCacheKey, raw, s.ttl).Err(); err != nil {
		s.log.Warn("snapshot cache write failed", "error", err)
	}
}
