package analytics

import (
	"sort"
	"strings"
	"time"

	"delivery-trends/trends"
)

// BrandPeak is the highest observed interest value for one brand and when it
// occurred. Feeds the dashboard KPI cards.
type BrandPeak struct {
	Brand string    `json:"brand"`
	Value float64   `json:"value"`
	Date  time.Time `json:"date"`
}

// RegionRank is one row of a per-brand region leaderboard.
type RegionRank struct {
	Region string  `json:"region"`
	Value  float64 `json:"value"`
}

// RegionWinner names the brand with the highest interest in one region.
type RegionWinner struct {
	Region string             `json:"region"`
	Winner string             `json:"winner"`
	Scores map[string]float64 `json:"scores"`
}

// WordWeight is one word-cloud entry: a term, how often it appears across a
// brand's related queries, and its rank by count.
type WordWeight struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Rank  int    `json:"rank"`
}

// Peaks returns the per-brand peak value and date, skipping missing samples.
// Brands with no observations are omitted.
func Peaks(series trends.InterestSeries) []BrandPeak {
	peaks := make([]BrandPeak, 0, len(series.Brands))
	for _, brand := range series.Brands {
		best := -1.0
		var bestDate time.Time
		for i, v := range series.Values[brand] {
			if v != nil && *v > best {
				best = *v
				bestDate = series.Dates[i]
			}
		}
		if best >= 0 {
			peaks = append(peaks, BrandPeak{Brand: brand, Value: best, Date: bestDate})
		}
	}
	return peaks
}

// Means returns the per-brand arithmetic mean over non-missing samples.
func Means(series trends.InterestSeries) map[string]float64 {
	means := make(map[string]float64, len(series.Brands))
	for _, brand := range series.Brands {
		sum, count := 0.0, 0
		for _, v := range series.Values[brand] {
			if v != nil {
				sum += *v
				count++
			}
		}
		if count > 0 {
			means[brand] = sum / float64(count)
		}
	}
	return means
}

// TopRegions returns the n regions with the highest interest for one brand,
// descending. Regions without a score for the brand are skipped; ties break
// alphabetically for stable output.
func TopRegions(regions trends.RegionInterest, brand string, n int) []RegionRank {
	ranks := make([]RegionRank, 0, len(regions.Scores))
	for _, region := range regions.Regions() {
		if v, ok := regions.Scores[region][brand]; ok {
			ranks = append(ranks, RegionRank{Region: region, Value: v})
		}
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Value > ranks[j].Value
	})
	if n > 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

// RegionWinners computes the leading brand per region. Ties go to the brand
// listed first in the snapshot's brand order.
func RegionWinners(regions trends.RegionInterest) []RegionWinner {
	winners := make([]RegionWinner, 0, len(regions.Scores))
	for _, region := range regions.Regions() {
		scores := regions.Scores[region]
		winner := ""
		best := -1.0
		for _, brand := range regions.Brands {
			if v, ok := scores[brand]; ok && v > best {
				best = v
				winner = brand
			}
		}
		winners = append(winners, RegionWinner{Region: region, Winner: winner, Scores: scores})
	}
	return winners
}

// WordWeights reduces a list of related queries to word frequencies ranked by
// count. The word-cloud renderer is an external collaborator; this is just
// its feed.
func WordWeights(queries []string) []WordWeight {
	counts := make(map[string]int)
	for _, q := range queries {
		for _, word := range strings.Fields(strings.ToLower(q)) {
			counts[word]++
		}
	}

	weights := make([]WordWeight, 0, len(counts))
	for name, count := range counts {
		weights = append(weights, WordWeight{Name: name, Count: count})
	}
	sort.Slice(weights, func(i, j int) bool {
		if weights[i].Count != weights[j].Count {
			return weights[i].Count > weights[j].Count
		}
		return weights[i].Name < weights[j].Name
	})
	for i := range weights {
		weights[i].Rank = i + 1
	}
	return weights
}
