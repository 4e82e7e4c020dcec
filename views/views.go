package views

import (
	"context"

	"delivery-trends/analytics"
)

// View identifiers. The set is closed: the UI routes only to these.
const (
	ViewOverview = "overview"
	ViewTimeline = "timeline"
	ViewRegional = "regional"
	ViewIntent   = "intent"
	ViewStats    = "stats"
	ViewStory    = "story"
)

// NarrativeFunc produces the optional story-view narrative. Nil disables it.
type NarrativeFunc func(ctx context.Context, in Inputs) (string, error)

// storyChallenges mirrors the dashboard's challenges-vs-solutions table.
var storyChallenges = []map[string]string{
	{"challenge": "Relative Scaling", "solution": "Anchored to 'food delivery' query"},
	{"challenge": "Festival Spikes", "solution": "Smoothed with rolling averages"},
	{"challenge": "Sparse Data", "solution": "Focused on top 10 states"},
}

// RegisterDefaults registers all six dashboard views. narrative may be nil.
func RegisterDefaults(m *Manager, narrative NarrativeFunc) {
	m.Register(ViewOverview, buildOverview)
	m.Register(ViewTimeline, buildTimeline)
	m.Register(ViewRegional, buildRegional)
	m.Register(ViewIntent, buildIntent)
	m.Register(ViewStats, buildStats)
	m.Register(ViewStory, buildStory(narrative))
}

// buildOverview: KPI peak cards plus the full raw series.
func buildOverview(_ context.Context, in Inputs) (any, error) {
	return map[string]any{
		"peaks":  analytics.Peaks(in.Snapshot.Series),
		"series": in.Snapshot.Series,
	}, nil
}

// buildTimeline: smoothed series with the active window; when a region is
// selected its score row is attached for context.
func buildTimeline(_ context.Context, in Inputs) (any, error) {
	payload := map[string]any{
		"window":   in.Window,
		"series":   in.Snapshot.Series,
		"smoothed": in.Smoothed,
		"region":   in.Region,
	}
	if in.Region != "" && in.Region != "All" {
		if scores, ok := in.Snapshot.Regions.Scores[in.Region]; ok {
			payload["region_scores"] = scores
		}
	}
	return payload, nil
}

// buildRegional: per-region scores with the winning brand per region.
func buildRegional(_ context.Context, in Inputs) (any, error) {
	return map[string]any{
		"regions": in.Snapshot.Regions,
		"winners": analytics.RegionWinners(in.Snapshot.Regions),
	}, nil
}

// buildIntent: related queries and word-cloud weights for the selected brand.
func buildIntent(_ context.Context, in Inputs) (any, error) {
	queries := in.Snapshot.Related[in.Brand]
	return map[string]any{
		"brand":        in.Brand,
		"queries":      queries,
		"word_weights": analytics.WordWeights(queries),
	}, nil
}

// buildStats: correlation matrix plus per-brand means.
func buildStats(_ context.Context, in Inputs) (any, error) {
	return map[string]any{
		"correlations": in.Matrix,
		"means":        analytics.Means(in.Snapshot.Series),
	}, nil
}

// buildStory: the static challenges table, optionally augmented with a
// generated narrative. A narrative failure degrades to the static table.
func buildStory(narrative NarrativeFunc) BuilderFunc {
	return func(ctx context.Context, in Inputs) (any, error) {
		payload := map[string]any{
			"challenges": storyChallenges,
			"insight":    "Blinkit's Delhi surge appeared in Trends months before headlines.",
		}
		if narrative != nil {
			if text, err := narrative(ctx, in); err == nil && text != "" {
				payload["narrative"] = text
			}
		}
		return payload, nil
	}
}
