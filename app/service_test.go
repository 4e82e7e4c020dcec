package app

import (
	"context"
	"testing"
	"time"

	"delivery-trends/analytics"
	"delivery-trends/cache"
	"delivery-trends/trends"
)

type fakeProvider struct {
	calls    int
	fail     bool
	snapshot *trends.Snapshot
}

func (f *fakeProvider) FetchSnapshot(ctx context.Context) (*trends.Snapshot, error) {
	f.calls++
	if f.fail {
		return nil, trends.ErrProviderUnavailable
	}
	return f.snapshot, nil
}

var testBrands = []string{"Swiggy", "Zomato", "Blinkit"}

func newTestService(provider Provider) *TrendService {
	snapshotCache := cache.NewSnapshotCache(nil, 24*time.Hour, nil)
	return NewTrendService(provider, snapshotCache, testBrands, "IN", "today 12-m", nil)
}

func TestSnapshotCachesFreshResult(t *testing.T) {
	provider := &fakeProvider{
		snapshot: trends.PlaceholderSnapshot(testBrands, "IN", "today 12-m", time.Now()),
	}
	// Reuse the placeholder generator as a convenient fixture, but mark it
	// as real data so it is cacheable.
	provider.snapshot.Placeholder = false
	provider.snapshot.Warning = ""

	service := newTestService(provider)
	ctx := context.Background()

	first := service.Snapshot(ctx)
	second := service.Snapshot(ctx)

	if provider.calls != 1 {
		t.Errorf("expected exactly 1 upstream fetch, got %d", provider.calls)
	}
	if first.ID != second.ID {
		t.Error("expected the cached snapshot on the second call")
	}
}

func TestSnapshotFallsBackToPlaceholder(t *testing.T) {
	provider := &fakeProvider{fail: true}
	service := newTestService(provider)
	ctx := context.Background()

	snapshot := service.Snapshot(ctx)

	if !snapshot.Placeholder {
		t.Fatal("expected placeholder snapshot when provider is down")
	}
	if snapshot.Warning == "" {
		t.Error("placeholder must surface a non-fatal warning")
	}
	if len(snapshot.Series.Brands) != len(testBrands) {
		t.Errorf("placeholder must keep the brand set, got %v", snapshot.Series.Brands)
	}
	if len(snapshot.Regions.Scores) == 0 {
		t.Error("placeholder must have a non-empty region set")
	}

	// Downstream stages run unchanged against placeholder data.
	smoothed, err := analytics.Smooth(snapshot.Series, 4)
	if err != nil {
		t.Fatalf("smoothing placeholder data failed: %v", err)
	}
	if smoothed.Len() != snapshot.Series.Len() {
		t.Error("smoothed placeholder series lost its axis")
	}

	matrix := analytics.Correlate(snapshot.Series)
	for _, brand := range matrix.Brands {
		if diag := matrix.Coef[brand][brand]; diag == nil || *diag != 1.0 {
			t.Errorf("correlation diagonal broken on placeholder data for %s", brand)
		}
	}
}

func TestSnapshotPlaceholderNotCached(t *testing.T) {
	provider := &fakeProvider{fail: true}
	service := newTestService(provider)
	ctx := context.Background()

	service.Snapshot(ctx)
	service.Snapshot(ctx)

	if provider.calls != 2 {
		t.Errorf("placeholder must not be cached, expected 2 fetch attempts, got %d", provider.calls)
	}
}
