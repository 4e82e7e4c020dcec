package trends

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// placeholderSeed fixes the PRNG so the fallback dataset is identical across
// runs. The values only need to be plausible; determinism keeps tests and
// repeated degraded sessions stable.
const placeholderSeed = 42

// placeholderWeeks mirrors a one-year weekly horizon plus one quarter.
const placeholderWeeks = 104

// brandEnvelope is the synthetic value range per brand, matching the rough
// envelope of real interest data for each keyword.
var brandEnvelope = map[string][2]float64{
	"Swiggy":  {30, 90},
	"Zomato":  {40, 95},
	"Blinkit": {20, 100},
}

var placeholderRegions = []string{
	"Delhi", "Karnataka", "Maharashtra", "Tamil Nadu", "Uttar Pradesh",
	"Telangana", "West Bengal", "Gujarat", "Haryana", "Kerala",
}

var placeholderRelated = map[string][]string{
	"Swiggy":  {"swiggy coupon", "swiggy one offer", "swiggy pizza"},
	"Zomato":  {"zomato pro", "zomato discount", "zomato near me"},
	"Blinkit": {"blinkit milk", "blinkit grocery", "blinkit near me"},
}

// PlaceholderSnapshot builds the deterministic substitute dataset used when
// the provider is unreachable. It carries the same brand set and a non-empty
// region set so every downstream stage runs unchanged against it.
func PlaceholderSnapshot(brands []string, geo, timeframe string, now time.Time) *Snapshot {
	rng := rand.New(rand.NewSource(placeholderSeed))

	// Weekly axis ending on the most recent Sunday before now.
	end := now.UTC().Truncate(24 * time.Hour)
	for end.Weekday() != time.Sunday {
		end = end.AddDate(0, 0, -1)
	}
	start := end.AddDate(0, 0, -7*(placeholderWeeks-1))

	series := InterestSeries{
		Brands: brands,
		Dates:  make([]time.Time, placeholderWeeks),
		Values: make(map[string][]*float64, len(brands)),
	}
	for i := range series.Dates {
		series.Dates[i] = start.AddDate(0, 0, 7*i)
	}
	for _, brand := range brands {
		lo, hi := envelopeFor(brand)
		vals := make([]*float64, placeholderWeeks)
		for i := range vals {
			vals[i] = Float(lo + float64(rng.Intn(int(hi-lo)+1)))
		}
		series.Values[brand] = vals
	}

	regions := RegionInterest{
		Brands: brands,
		Scores: make(map[string]map[string]float64, len(placeholderRegions)),
	}
	for _, region := range placeholderRegions {
		scores := make(map[string]float64, len(brands))
		for _, brand := range brands {
			lo, hi := envelopeFor(brand)
			scores[brand] = lo + float64(rng.Intn(int(hi-lo)+1))
		}
		regions.Scores[region] = scores
	}

	related := make(map[string][]string, len(brands))
	for _, brand := range brands {
		if qs, ok := placeholderRelated[brand]; ok {
			related[brand] = qs
		} else {
			related[brand] = []string{
				fmt.Sprintf("%s offer", brand),
				fmt.Sprintf("%s near me", brand),
			}
		}
	}

	return &Snapshot{
		ID:          uuid.New(),
		Series:      series,
		Regions:     regions,
		Related:     related,
		Geo:         geo,
		Timeframe:   timeframe,
		FetchedAt:   now.UTC(),
		Placeholder: true,
		Warning:     "trends provider unreachable, showing placeholder data",
	}
}

func envelopeFor(brand string) (float64, float64) {
	if env, ok := brandEnvelope[brand]; ok {
		return env[0], env[1]
	}
	return 20, 100
}
