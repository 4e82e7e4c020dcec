package trends

import (
	"testing"
	"time"
)

func TestPlaceholderSnapshotShape(t *testing.T) {
	brands := []string{"Swiggy", "Zomato", "Blinkit"}
	now := time.Date(2025, 8, 20, 14, 0, 0, 0, time.UTC)

	snapshot := PlaceholderSnapshot(brands, "IN", "today 12-m", now)

	if !snapshot.Placeholder {
		t.Error("placeholder snapshot must be flagged")
	}
	if snapshot.Warning == "" {
		t.Error("placeholder snapshot must carry a warning")
	}
	if err := snapshot.Series.Validate(); err != nil {
		t.Fatalf("placeholder series failed validation: %v", err)
	}
	if snapshot.Series.Len() != placeholderWeeks {
		t.Errorf("expected %d weeks, got %d", placeholderWeeks, snapshot.Series.Len())
	}
	if len(snapshot.Regions.Scores) == 0 {
		t.Error("placeholder region set must be non-empty")
	}

	for _, brand := range brands {
		if len(snapshot.Related[brand]) == 0 {
			t.Errorf("placeholder related queries missing for %s", brand)
		}
		for i, v := range snapshot.Series.Values[brand] {
			if v == nil {
				t.Fatalf("placeholder values must be dense, %s index %d missing", brand, i)
			}
			if *v < 0 || *v > 100 {
				t.Errorf("%s index %d out of [0,100]: %v", brand, i, *v)
			}
		}
	}

	// Weekly, strictly increasing axis.
	for i := 1; i < snapshot.Series.Len(); i++ {
		if snapshot.Series.Dates[i].Sub(snapshot.Series.Dates[i-1]) != 7*24*time.Hour {
			t.Fatalf("dates not weekly at index %d", i)
		}
	}
}

func TestPlaceholderSnapshotDeterministic(t *testing.T) {
	brands := []string{"Swiggy", "Zomato", "Blinkit"}
	now := time.Date(2025, 8, 20, 14, 0, 0, 0, time.UTC)

	a := PlaceholderSnapshot(brands, "IN", "today 12-m", now)
	b := PlaceholderSnapshot(brands, "IN", "today 12-m", now)

	for _, brand := range brands {
		for i := range a.Series.Values[brand] {
			if *a.Series.Values[brand][i] != *b.Series.Values[brand][i] {
				t.Fatalf("placeholder values differ across runs for %s index %d", brand, i)
			}
		}
	}
	for region, scores := range a.Regions.Scores {
		for brand, v := range scores {
			if b.Regions.Scores[region][brand] != v {
				t.Fatalf("placeholder region scores differ for %s/%s", region, brand)
			}
		}
	}
}
