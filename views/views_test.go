package views

import (
	"context"
	"testing"
	"time"

	"delivery-trends/analytics"
	"delivery-trends/trends"
)

func testInputs(t *testing.T) Inputs {
	t.Helper()

	snapshot := trends.PlaceholderSnapshot([]string{"Swiggy", "Zomato", "Blinkit"}, "IN", "today 12-m",
		time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC))

	smoothed, err := analytics.Smooth(snapshot.Series, 4)
	if err != nil {
		t.Fatalf("fixture smoothing failed: %v", err)
	}

	return Inputs{
		Snapshot: snapshot,
		Smoothed: smoothed,
		Matrix:   analytics.Correlate(snapshot.Series),
		Window:   4,
		Brand:    "Swiggy",
		Region:   "All",
	}
}

func defaultManager() *Manager {
	m := NewManager()
	RegisterDefaults(m, nil)
	return m
}

func TestManagerClosedViewSet(t *testing.T) {
	m := defaultManager()

	expected := []string{ViewIntent, ViewOverview, ViewRegional, ViewStats, ViewStory, ViewTimeline}
	ids := m.List()
	if len(ids) != len(expected) {
		t.Fatalf("expected %d views, got %v", len(expected), ids)
	}
	for _, id := range expected {
		if !m.Has(id) {
			t.Errorf("missing view %q", id)
		}
	}
}

func TestManagerUnknownView(t *testing.T) {
	m := defaultManager()
	if _, err := m.Build(context.Background(), "nope", testInputs(t)); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestOverviewView(t *testing.T) {
	m := defaultManager()
	data, err := m.Build(context.Background(), ViewOverview, testInputs(t))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	payload := data.(map[string]any)
	peaks := payload["peaks"].([]analytics.BrandPeak)
	if len(peaks) != 3 {
		t.Errorf("expected 3 peak cards, got %d", len(peaks))
	}
}

func TestTimelineViewRegionFilter(t *testing.T) {
	m := defaultManager()
	in := testInputs(t)
	in.Region = "Delhi"

	data, err := m.Build(context.Background(), ViewTimeline, in)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	payload := data.(map[string]any)
	if _, ok := payload["region_scores"]; !ok {
		t.Error("expected region_scores for a selected region")
	}
	if payload["window"] != 4 {
		t.Errorf("expected window 4, got %v", payload["window"])
	}
}

func TestTimelineViewAllRegions(t *testing.T) {
	m := defaultManager()
	data, err := m.Build(context.Background(), ViewTimeline, testInputs(t))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	payload := data.(map[string]any)
	if _, ok := payload["region_scores"]; ok {
		t.Error("region_scores must be absent for the All filter")
	}
}

func TestIntentView(t *testing.T) {
	m := defaultManager()
	data, err := m.Build(context.Background(), ViewIntent, testInputs(t))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	payload := data.(map[string]any)
	if payload["brand"] != "Swiggy" {
		t.Errorf("expected brand Swiggy, got %v", payload["brand"])
	}
	weights := payload["word_weights"].([]analytics.WordWeight)
	if len(weights) == 0 {
		t.Error("expected word-cloud weights")
	}
}

func TestStatsView(t *testing.T) {
	m := defaultManager()
	data, err := m.Build(context.Background(), ViewStats, testInputs(t))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	payload := data.(map[string]any)
	matrix := payload["correlations"].(analytics.CorrelationMatrix)
	if len(matrix.Brands) != 3 {
		t.Errorf("expected 3x3 matrix, got %d brands", len(matrix.Brands))
	}
}

func TestStoryViewWithNarrative(t *testing.T) {
	m := NewManager()
	RegisterDefaults(m, func(ctx context.Context, in Inputs) (string, error) {
		return "generated commentary", nil
	})

	data, err := m.Build(context.Background(), ViewStory, testInputs(t))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	payload := data.(map[string]any)
	if payload["narrative"] != "generated commentary" {
		t.Errorf("expected narrative, got %v", payload["narrative"])
	}
	if _, ok := payload["challenges"]; !ok {
		t.Error("story view must always carry the challenges table")
	}
}

func TestStoryViewNarrativeFailureDegrades(t *testing.T) {
	m := NewManager()
	RegisterDefaults(m, func(ctx context.Context, in Inputs) (string, error) {
		return "", context.DeadlineExceeded
	})

	data, err := m.Build(context.Background(), ViewStory, testInputs(t))
	if err != nil {
		t.Fatalf("narrative failure must not fail the view: %v", err)
	}

	payload := data.(map[string]any)
	if _, ok := payload["narrative"]; ok {
		t.Error("failed narrative must be omitted")
	}
}
