package analytics

import (
	"testing"

	"delivery-trends/trends"
)

func testRegions() trends.RegionInterest {
	return trends.RegionInterest{
		Brands: []string{"Swiggy", "Zomato", "Blinkit"},
		Scores: map[string]map[string]float64{
			"Delhi":       {"Swiggy": 40, "Zomato": 55, "Blinkit": 90},
			"Karnataka":   {"Swiggy": 85, "Zomato": 70, "Blinkit": 30},
			"Maharashtra": {"Swiggy": 60, "Zomato": 75, "Blinkit": 45},
			"Tamil Nadu":  {"Swiggy": 72, "Zomato": 50, "Blinkit": 20},
		},
	}
}

func TestPeaks(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Swiggy": {trends.Float(30), trends.Float(88), nil, trends.Float(70)},
	})

	peaks := Peaks(series)
	if len(peaks) != 1 {
		t.Fatalf("expected 1 peak, got %d", len(peaks))
	}
	if peaks[0].Value != 88 {
		t.Errorf("expected peak 88, got %v", peaks[0].Value)
	}
	if !peaks[0].Date.Equal(series.Dates[1]) {
		t.Errorf("expected peak date %v, got %v", series.Dates[1], peaks[0].Date)
	}
}

func TestPeaksSkipsAllMissingBrand(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Swiggy": {nil, nil, nil},
	})
	if peaks := Peaks(series); len(peaks) != 0 {
		t.Errorf("expected no peaks for all-missing brand, got %v", peaks)
	}
}

func TestTopRegions(t *testing.T) {
	top := TopRegions(testRegions(), "Swiggy", 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(top))
	}
	if top[0].Region != "Karnataka" || top[1].Region != "Tamil Nadu" {
		t.Errorf("unexpected ranking: %+v", top)
	}
}

func TestRegionWinners(t *testing.T) {
	winners := RegionWinners(testRegions())

	byRegion := make(map[string]string, len(winners))
	for _, w := range winners {
		byRegion[w.Region] = w.Winner
	}

	expected := map[string]string{
		"Delhi":       "Blinkit",
		"Karnataka":   "Swiggy",
		"Maharashtra": "Zomato",
		"Tamil Nadu":  "Swiggy",
	}
	for region, want := range expected {
		if byRegion[region] != want {
			t.Errorf("%s: expected winner %s, got %s", region, want, byRegion[region])
		}
	}
}

func TestWordWeights(t *testing.T) {
	weights := WordWeights([]string{"Swiggy coupon", "Swiggy One offer", "swiggy pizza"})

	if len(weights) == 0 {
		t.Fatal("expected word weights")
	}
	if weights[0].Name != "swiggy" || weights[0].Count != 3 {
		t.Errorf("expected 'swiggy' x3 first, got %+v", weights[0])
	}
	if weights[0].Rank != 1 {
		t.Errorf("top word must have rank 1, got %d", weights[0].Rank)
	}
	for i := 1; i < len(weights); i++ {
		if weights[i].Count > weights[i-1].Count {
			t.Error("weights not sorted by count")
		}
	}
}

func TestDetectSpikes(t *testing.T) {
	// Flat baseline with small noise, then a jump in the latest week.
	baseline := []float64{50, 51, 49, 50, 52, 48, 50, 51, 49, 50, 51, 49}
	spiking := append(append([]float64{}, baseline...), 95)
	quiet := append(append([]float64{}, baseline...), 50)

	series := weeklySeries(map[string][]*float64{
		"Blinkit": dense(spiking...),
		"Zomato":  dense(quiet...),
	})

	spikes := DetectSpikes(series, 2.5, 12)
	if len(spikes) != 1 {
		t.Fatalf("expected exactly 1 spike, got %d", len(spikes))
	}
	if spikes[0].Brand != "Blinkit" {
		t.Errorf("expected Blinkit spike, got %s", spikes[0].Brand)
	}
	if spikes[0].ZScore < 2.5 {
		t.Errorf("spike z-score below threshold: %v", spikes[0].ZScore)
	}
}

func TestDetectSpikesThinBaseline(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Blinkit": dense(50, 50, 95),
	})
	if spikes := DetectSpikes(series, 2.5, 12); len(spikes) != 0 {
		t.Errorf("thin baseline must not produce spikes, got %+v", spikes)
	}
}
