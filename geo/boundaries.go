// Package geo serves the region boundary overlay for the choropleth map.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// BoundaryProvider fetches a GeoJSON boundary set for the dashboard map,
// falling back to a minimal built-in set when the source is unreachable.
type BoundaryProvider struct {
	url    string
	client *http.Client
}

// NewBoundaryProvider creates a provider for the given GeoJSON source URL.
func NewBoundaryProvider(url string, timeout time.Duration) *BoundaryProvider {
	return &BoundaryProvider{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Boundaries returns the boundary FeatureCollection as raw JSON, plus a flag
// marking whether the built-in fallback was served.
func (p *BoundaryProvider) Boundaries(ctx context.Context) (json.RawMessage, bool, error) {
	data, err := p.fetch(ctx)
	if err != nil {
		log.Printf("⚠️  Boundary source unreachable, serving built-in set: %v", err)
		return fallbackBoundaries(), true, nil
	}
	return data, false, nil
}

func (p *BoundaryProvider) fetch(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build boundary request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("boundary fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("boundary source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read boundary body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("boundary source returned invalid JSON")
	}
	return body, nil
}

// fallbackBoundaries builds the minimal built-in FeatureCollection: rough
// bounding boxes for five major states, enough for the map overlay to render
// something meaningful while the primary source is down.
func fallbackBoundaries() json.RawMessage {
	type feature struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
		Geometry   map[string]any `json:"geometry"`
	}

	box := func(name string, minLng, minLat, maxLng, maxLat float64) feature {
		return feature{
			Type:       "Feature",
			Properties: map[string]any{"name": name},
			Geometry: map[string]any{
				"type": "Polygon",
				"coordinates": [][][]float64{{
					{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat},
				}},
			},
		}
	}

	collection := map[string]any{
		"type": "FeatureCollection",
		"features": []feature{
			box("Delhi", 76.8, 28.4, 77.4, 28.9),
			box("Karnataka", 74.0, 11.6, 78.6, 18.5),
			box("Maharashtra", 72.6, 15.6, 80.9, 22.0),
			box("Tamil Nadu", 76.2, 8.0, 80.4, 13.6),
			box("Uttar Pradesh", 77.0, 23.9, 84.7, 30.4),
		},
	}

	data, _ := json.Marshal(collection)
	return data
}
