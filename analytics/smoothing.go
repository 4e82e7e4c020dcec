package analytics

import (
	"fmt"
	"time"

	"delivery-trends/trends"
)

// Smooth applies a trailing simple moving average to every brand vector and
// returns a new series on the same date axis. output[i] covers
// input[i-window+1 .. i]; the first window-1 positions are missing because no
// prior history exists for a trailing window at the sequence start.
//
// Missing policy: a window containing ANY missing sample yields a missing
// output. This is the strict trailing-mean semantics over dense data; a
// partially-averaged window would silently change what the mean covers.
//
// A window larger than the series yields an all-missing series, not an error.
// The input is never mutated.
func Smooth(series trends.InterestSeries, window int) (trends.InterestSeries, error) {
	if window < 1 {
		return trends.InterestSeries{}, fmt.Errorf("smoothing window must be >= 1, got %d", window)
	}
	if err := series.Validate(); err != nil {
		return trends.InterestSeries{}, err
	}

	n := series.Len()
	out := trends.InterestSeries{
		Brands: append([]string(nil), series.Brands...),
		Dates:  append([]time.Time(nil), series.Dates...),
		Values: make(map[string][]*float64, len(series.Brands)),
	}

	for _, brand := range series.Brands {
		in := series.Values[brand]
		smoothed := make([]*float64, n)

		for i := window - 1; i < n; i++ {
			sum := 0.0
			complete := true
			for j := i - window + 1; j <= i; j++ {
				if in[j] == nil {
					complete = false
					break
				}
				sum += *in[j]
			}
			if complete {
				smoothed[i] = trends.Float(sum / float64(window))
			}
		}
		out.Values[brand] = smoothed
	}

	return out, nil
}
