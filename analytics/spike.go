package analytics

import (
	"math"
	"time"

	"delivery-trends/trends"
)

// Spike flags a latest observation that sits far above a brand's baseline.
// Festival promotions and news events show up as these before anything else.
type Spike struct {
	Brand    string    `json:"brand"`
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	ZScore   float64   `json:"z_score"`
	Baseline float64   `json:"baseline"`
	StdDev   float64   `json:"std_dev"`
}

// DetectSpikes compares each brand's most recent non-missing value against
// the mean and standard deviation of all earlier non-missing values. A brand
// spikes when the z-score meets threshold. Brands with fewer than minSamples
// baseline observations are skipped: a thin baseline makes z-scores noise.
func DetectSpikes(series trends.InterestSeries, threshold float64, minSamples int) []Spike {
	var spikes []Spike

	for _, brand := range series.Brands {
		vals := series.Values[brand]

		latestIdx := -1
		for i := len(vals) - 1; i >= 0; i-- {
			if vals[i] != nil {
				latestIdx = i
				break
			}
		}
		if latestIdx <= 0 {
			continue
		}

		sum, count := 0.0, 0
		for i := 0; i < latestIdx; i++ {
			if vals[i] != nil {
				sum += *vals[i]
				count++
			}
		}
		if count < minSamples {
			continue
		}
		mean := sum / float64(count)

		variance := 0.0
		for i := 0; i < latestIdx; i++ {
			if vals[i] != nil {
				d := *vals[i] - mean
				variance += d * d
			}
		}
		stdDev := math.Sqrt(variance / float64(count))
		if stdDev == 0 {
			continue
		}

		latest := *vals[latestIdx]
		z := (latest - mean) / stdDev
		if z >= threshold {
			spikes = append(spikes, Spike{
				Brand:    brand,
				Date:     series.Dates[latestIdx],
				Value:    latest,
				ZScore:   z,
				Baseline: mean,
				StdDev:   stdDev,
			})
		}
	}

	return spikes
}
