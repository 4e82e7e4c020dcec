package analytics

import (
	"math"
	"testing"
	"time"

	"delivery-trends/trends"
)

const tolerance = 1e-9

func weeklySeries(values map[string][]*float64) trends.InterestSeries {
	var n int
	var brands []string
	for brand, vals := range values {
		brands = append(brands, brand)
		n = len(vals)
	}

	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, 7*i)
	}

	return trends.InterestSeries{Brands: brands, Dates: dates, Values: values}
}

func dense(vals ...float64) []*float64 {
	out := make([]*float64, len(vals))
	for i, v := range vals {
		out[i] = trends.Float(v)
	}
	return out
}

func TestSmoothWindowOneIsIdentity(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Swiggy": {trends.Float(10), nil, trends.Float(30), trends.Float(45)},
	})

	out, err := Smooth(series, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, v := range out.Values["Swiggy"] {
		in := series.Values["Swiggy"][i]
		switch {
		case in == nil && v != nil:
			t.Errorf("index %d: expected missing, got %v", i, *v)
		case in != nil && v == nil:
			t.Errorf("index %d: expected %v, got missing", i, *in)
		case in != nil && v != nil && math.Abs(*v-*in) > tolerance:
			t.Errorf("index %d: expected %v, got %v", i, *in, *v)
		}
	}
}

func TestSmoothTrailingMean(t *testing.T) {
	// 10 weekly points, values 10..100 per the brand ramp scenario.
	series := weeklySeries(map[string][]*float64{
		"Zomato": dense(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	})

	out, err := Smooth(series, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vals := out.Values["Zomato"]
	if vals[0] != nil || vals[1] != nil {
		t.Error("first window-1 entries must be missing")
	}
	if vals[2] == nil || math.Abs(*vals[2]-20) > tolerance {
		t.Errorf("third entry: expected mean(10,20,30)=20, got %v", vals[2])
	}
	if vals[9] == nil || math.Abs(*vals[9]-90) > tolerance {
		t.Errorf("last entry: expected mean(80,90,100)=90, got %v", vals[9])
	}
	if out.Len() != series.Len() {
		t.Errorf("output length %d differs from input length %d", out.Len(), series.Len())
	}
}

func TestSmoothNoLookahead(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Blinkit": dense(10, 10, 10, 10, 90),
	})

	out, err := Smooth(series, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The spike at index 4 must not leak into any earlier output.
	vals := out.Values["Blinkit"]
	for i := 1; i < 4; i++ {
		if vals[i] == nil || *vals[i] != 10 {
			t.Errorf("index %d: expected 10, got %v", i, vals[i])
		}
	}
}

func TestSmoothMissingPropagates(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Swiggy": {trends.Float(10), nil, trends.Float(30), trends.Float(40), trends.Float(50)},
	})

	out, err := Smooth(series, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vals := out.Values["Swiggy"]
	// Windows covering index 1 contain a missing sample.
	for _, i := range []int{2, 3} {
		if vals[i] != nil {
			t.Errorf("index %d: window contains a missing sample, expected missing output, got %v", i, *vals[i])
		}
	}
	if vals[4] == nil || math.Abs(*vals[4]-40) > tolerance {
		t.Errorf("index 4: expected mean(30,40,50)=40, got %v", vals[4])
	}
}

func TestSmoothWindowLargerThanSeries(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Zomato": dense(10, 20, 30),
	})

	out, err := Smooth(series, 8)
	if err != nil {
		t.Fatalf("window larger than series must not error, got: %v", err)
	}
	for i, v := range out.Values["Zomato"] {
		if v != nil {
			t.Errorf("index %d: expected all-missing result, got %v", i, *v)
		}
	}
}

func TestSmoothRejectsInvalidWindow(t *testing.T) {
	series := weeklySeries(map[string][]*float64{"Swiggy": dense(1, 2)})
	if _, err := Smooth(series, 0); err == nil {
		t.Error("expected error for window 0")
	}
}

func TestSmoothRejectsShapeMismatch(t *testing.T) {
	series := weeklySeries(map[string][]*float64{"Swiggy": dense(1, 2, 3)})
	series.Dates = series.Dates[:2]

	if _, err := Smooth(series, 2); err == nil {
		t.Error("expected shape mismatch error")
	}
}

func TestSmoothDoesNotMutateInput(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Swiggy": dense(10, 20, 30, 40),
	})

	if _, err := Smooth(series, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{10, 20, 30, 40}
	for i, v := range series.Values["Swiggy"] {
		if v == nil || *v != expected[i] {
			t.Fatalf("input mutated at index %d", i)
		}
	}
}
