package trends

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrProviderUnavailable marks any network or query failure against the
// external trends provider. Callers recover by substituting placeholder data.
var ErrProviderUnavailable = errors.New("trends provider unavailable")

// ErrShapeMismatch marks a contract violation between a value vector and its
// timestamp axis. It should never occur for data passing Validate.
var ErrShapeMismatch = errors.New("series shape mismatch")

// InterestSeries is a weekly search-interest table: one shared, strictly
// increasing date axis and one aligned value vector per brand. A nil entry
// means the provider reported no data for that week. Values are in [0,100]
// (the provider normalizes to the peak within the queried window).
type InterestSeries struct {
	Brands []string              `json:"brands"`
	Dates  []time.Time           `json:"dates"`
	Values map[string][]*float64 `json:"values"`
}

// Validate checks that every brand vector is aligned with the date axis.
func (s *InterestSeries) Validate() error {
	for _, brand := range s.Brands {
		vals, ok := s.Values[brand]
		if !ok {
			return fmt.Errorf("%w: brand %q has no value vector", ErrShapeMismatch, brand)
		}
		if len(vals) != len(s.Dates) {
			return fmt.Errorf("%w: brand %q has %d values for %d dates",
				ErrShapeMismatch, brand, len(vals), len(s.Dates))
		}
	}
	return nil
}

// Len returns the number of points on the shared date axis.
func (s *InterestSeries) Len() int {
	return len(s.Dates)
}

// Float returns a pointer to v, for building series literals.
func Float(v float64) *float64 {
	return &v
}

// RegionInterest maps region name -> brand -> interest value.
type RegionInterest struct {
	Brands []string                      `json:"brands"`
	Scores map[string]map[string]float64 `json:"scores"`
}

// Regions returns the region names in sorted order for stable output.
func (r *RegionInterest) Regions() []string {
	names := make([]string, 0, len(r.Scores))
	for name := range r.Scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot is one complete fetch result from the trends provider (or the
// placeholder substitute). It is immutable once built; derived tables are
// always new values.
type Snapshot struct {
	ID        uuid.UUID           `json:"id"`
	Series    InterestSeries      `json:"series"`
	Regions   RegionInterest      `json:"regions"`
	Related   map[string][]string `json:"related"`
	Geo       string              `json:"geo"`
	Timeframe string              `json:"timeframe"`
	FetchedAt time.Time           `json:"fetched_at"`

	// Placeholder is true when the provider was unreachable and synthetic
	// data was substituted. Warning carries the non-fatal message shown to
	// the presentation layer.
	Placeholder bool   `json:"placeholder"`
	Warning     string `json:"warning,omitempty"`
}
