package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"delivery-trends/trends"
)

// SnapshotCache caches one trends snapshot per query key for a fixed
// freshness window. Redis backs the cache when reachable; otherwise a
// process-memory store keeps the 24h contract so the pipeline never loses
// its freshness window just because Redis is down.
//
// The clock is injectable so tests control freshness directly.
type SnapshotCache struct {
	redis *RedisClient // nil when Redis is unreachable
	ttl   time.Duration
	now   func() time.Time

	mu     sync.RWMutex
	memory map[string]memoryEntry
}

type memoryEntry struct {
	storedAt time.Time
	snapshot *trends.Snapshot
}

// NewSnapshotCache creates a snapshot cache. redis may be nil. now defaults
// to time.Now when nil.
func NewSnapshotCache(redis *RedisClient, ttl time.Duration, now func() time.Time) *SnapshotCache {
	if now == nil {
		now = time.Now
	}
	return &SnapshotCache{
		redis:  redis,
		ttl:    ttl,
		now:    now,
		memory: make(map[string]memoryEntry),
	}
}

// Key builds the cache key from the fixed query parameters.
func Key(brands []string, geo, timeframe string) string {
	return fmt.Sprintf("trends:snapshot:%s:%s:%s",
		strings.Join(brands, ","), geo, strings.ReplaceAll(timeframe, " ", "_"))
}

// Get returns the cached snapshot for key if one exists and is fresh.
func (c *SnapshotCache) Get(ctx context.Context, key string) (*trends.Snapshot, bool) {
	if c.redis != nil {
		var snapshot trends.Snapshot
		if err := c.redis.Get(ctx, key, &snapshot); err == nil {
			return &snapshot, true
		}
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.memory[key]
	c.mu.RUnlock()
	if !ok || !isFresh(entry, c.now(), c.ttl) {
		return nil, false
	}
	return entry.snapshot, true
}

// Put stores a snapshot under key for the freshness window.
func (c *SnapshotCache) Put(ctx context.Context, key string, snapshot *trends.Snapshot) error {
	if c.redis != nil {
		// Redis expiry enforces the freshness window server-side.
		return c.redis.Set(ctx, key, snapshot, c.ttl)
	}

	c.mu.Lock()
	c.memory[key] = memoryEntry{storedAt: c.now(), snapshot: snapshot}
	c.mu.Unlock()
	return nil
}

// Invalidate drops the cached snapshot for key.
func (c *SnapshotCache) Invalidate(ctx context.Context, key string) {
	if c.redis != nil {
		if err := c.redis.Delete(ctx, key); err != nil {
			return
		}
		return
	}

	c.mu.Lock()
	delete(c.memory, key)
	c.mu.Unlock()
}

// isFresh reports whether a memory entry is still inside the freshness
// window at the given instant.
func isFresh(entry memoryEntry, now time.Time, ttl time.Duration) bool {
	return now.Sub(entry.storedAt) < ttl
}
