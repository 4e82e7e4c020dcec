package api

import (
	"net/http"

	"delivery-trends/analytics"
)

// handleGetSeries returns the raw and smoothed interest series. Changing the
// window triggers a full synchronous recomputation; the smoothing stage is
// cheap enough that no incremental path is needed.
func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	snapshot := s.service.Snapshot(r.Context())
	window := s.windowParam(r)

	smoothed, err := analytics.Smooth(snapshot.Series, window)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "smoothing failed", err)
		return
	}

	payload := map[string]any{
		"window":   window,
		"series":   snapshot.Series,
		"smoothed": smoothed,
	}
	if region := r.URL.Query().Get("region"); region != "" && region != "All" {
		if scores, ok := snapshot.Regions.Scores[region]; ok {
			payload["region"] = region
			payload["region_scores"] = scores
		} else {
			respondWithError(w, http.StatusBadRequest, "unknown region", nil)
			return
		}
	}
	if snapshot.Warning != "" {
		payload["warning"] = snapshot.Warning
	}

	respondJSON(w, payload)
}

// handleGetRegions returns the region table with the winning brand per region.
func (s *Server) handleGetRegions(w http.ResponseWriter, r *http.Request) {
	snapshot := s.service.Snapshot(r.Context())

	payload := map[string]any{
		"regions": snapshot.Regions,
		"winners": analytics.RegionWinners(snapshot.Regions),
	}
	if snapshot.Warning != "" {
		payload["warning"] = snapshot.Warning
	}

	respondJSON(w, payload)
}

// handleGetRelated returns related queries and word-cloud weights for one brand.
func (s *Server) handleGetRelated(w http.ResponseWriter, r *http.Request) {
	brand := s.brandParam(r)
	if brand == "" {
		respondWithError(w, http.StatusBadRequest, "unknown brand", nil)
		return
	}

	snapshot := s.service.Snapshot(r.Context())
	queries := snapshot.Related[brand]

	payload := map[string]any{
		"brand":        brand,
		"queries":      queries,
		"word_weights": analytics.WordWeights(queries),
	}
	if snapshot.Warning != "" {
		payload["warning"] = snapshot.Warning
	}

	respondJSON(w, payload)
}
