package analytics

import (
	"math"

	"delivery-trends/trends"
)

// CorrelationMatrix is a symmetric brand-indexed table of Pearson
// coefficients. A nil entry marks an undefined pair (zero variance on either
// side); the diagonal is always 1.0 by convention. nil doubles as JSON null,
// since NaN is not representable in JSON.
type CorrelationMatrix struct {
	Brands []string                       `json:"brands"`
	Coef   map[string]map[string]*float64 `json:"coefficients"`
}

// Correlate computes the pairwise Pearson correlation matrix over the
// timestamp-aligned brand vectors, using pairwise-complete observations:
// for each pair, only rows where both brands have a value contribute.
// Each pair is computed once and mirrored, so symmetry is exact.
func Correlate(series trends.InterestSeries) CorrelationMatrix {
	matrix := CorrelationMatrix{
		Brands: append([]string(nil), series.Brands...),
		Coef:   make(map[string]map[string]*float64, len(series.Brands)),
	}
	for _, brand := range matrix.Brands {
		matrix.Coef[brand] = make(map[string]*float64, len(matrix.Brands))
		matrix.Coef[brand][brand] = trends.Float(1.0)
	}

	for i := 0; i < len(matrix.Brands); i++ {
		for j := i + 1; j < len(matrix.Brands); j++ {
			a, b := matrix.Brands[i], matrix.Brands[j]
			coef := pairwiseCorrelation(series.Values[a], series.Values[b])
			matrix.Coef[a][b] = coef
			matrix.Coef[b][a] = coef
		}
	}

	return matrix
}

// pairwiseCorrelation computes the Pearson coefficient over rows where both
// vectors have a value. Returns nil when fewer than two complete rows exist
// or when either side has zero variance.
func pairwiseCorrelation(xs, ys []*float64) *float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}

	var x, y []float64
	for i := 0; i < n; i++ {
		if xs[i] == nil || ys[i] == nil {
			continue
		}
		x = append(x, *xs[i])
		y = append(y, *ys[i])
	}

	count := float64(len(x))
	if count < 2 {
		return nil
	}

	sumX, sumY, sumXY, sumX2, sumY2 := 0.0, 0.0, 0.0, 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	denominator := math.Sqrt((count*sumX2 - sumX*sumX) * (count*sumY2 - sumY*sumY))
	if denominator == 0 {
		return nil
	}

	return trends.Float((count*sumXY - sumX*sumY) / denominator)
}
