package app

import (
	"context"
	"log"
	"sync"
	"time"

	"delivery-trends/cache"
	"delivery-trends/trends"
)

// Provider is the upstream trends source the service fetches from.
type Provider interface {
	FetchSnapshot(ctx context.Context) (*trends.Snapshot, error)
}

// TrendService is the single entry point for snapshot data: cache first,
// provider on miss, deterministic placeholder when the provider is down.
// Callers always get a usable snapshot; degradation is signaled on the
// snapshot itself, never as an error.
type TrendService struct {
	provider Provider
	cache    *cache.SnapshotCache
	key      string

	brands    []string
	geo       string
	timeframe string
	now       func() time.Time

	// Serializes fetches so one freshness window sees at most one upstream
	// call from this process.
	mu sync.Mutex
}

// NewTrendService creates the snapshot service. now defaults to time.Now
// when nil.
func NewTrendService(provider Provider, snapshotCache *cache.SnapshotCache, brands []string, geo, timeframe string, now func() time.Time) *TrendService {
	if now == nil {
		now = time.Now
	}
	return &TrendService{
		provider:  provider,
		cache:     snapshotCache,
		key:       cache.Key(brands, geo, timeframe),
		brands:    brands,
		geo:       geo,
		timeframe: timeframe,
		now:       now,
	}
}

// Snapshot returns the current snapshot: cached if fresh, freshly fetched
// otherwise, placeholder if the provider is unreachable. Placeholders are
// not cached, so the next call retries the provider.
func (s *TrendService) Snapshot(ctx context.Context) *trends.Snapshot {
	if snapshot, ok := s.cache.Get(ctx, s.key); ok {
		return snapshot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have fetched while we waited on the lock.
	if snapshot, ok := s.cache.Get(ctx, s.key); ok {
		return snapshot
	}

	snapshot, err := s.provider.FetchSnapshot(ctx)
	if err != nil {
		log.Printf("⚠️  Trends fetch failed, substituting placeholder data: %v", err)
		return trends.PlaceholderSnapshot(s.brands, s.geo, s.timeframe, s.now())
	}

	if err := s.cache.Put(ctx, s.key, snapshot); err != nil {
		log.Printf("⚠️  Failed to cache snapshot: %v", err)
	}
	return snapshot
}

// Brands returns the fixed brand set in query order.
func (s *TrendService) Brands() []string {
	return s.brands
}
