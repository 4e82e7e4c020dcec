package api

import (
	"net/http"

	"delivery-trends/analytics"
)

// handleGetCorrelations returns the pairwise correlation matrix. With
// window=1 (the default) the raw series is correlated; a larger window
// correlates the smoothed series instead.
func (s *Server) handleGetCorrelations(w http.ResponseWriter, r *http.Request) {
	snapshot := s.service.Snapshot(r.Context())

	one := 1
	maxWindow := s.cfg.Analytics.MaxWindow
	window := getIntParam(r, "window", 1, &one, &maxWindow)

	series := snapshot.Series
	if window > 1 {
		smoothed, err := analytics.Smooth(series, window)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "smoothing failed", err)
			return
		}
		series = smoothed
	}

	payload := map[string]any{
		"window":       window,
		"correlations": analytics.Correlate(series),
	}
	if snapshot.Warning != "" {
		payload["warning"] = snapshot.Warning
	}

	respondJSON(w, payload)
}

// handleGetCorrelationHistory returns stored coefficients for one brand pair.
func (s *Server) handleGetCorrelationHistory(w http.ResponseWriter, r *http.Request) {
	brandA := r.URL.Query().Get("brand_a")
	brandB := r.URL.Query().Get("brand_b")
	if brandA == "" || brandB == "" {
		respondWithError(w, http.StatusBadRequest, "brand_a and brand_b are required", nil)
		return
	}

	one := 1
	maxLimit := 500
	limit := getIntParam(r, "limit", 50, &one, &maxLimit)

	entries, err := s.repo.GetCorrelationHistory(brandA, brandB, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load correlation history", err)
		return
	}

	respondJSON(w, map[string]any{
		"brand_a": brandA,
		"brand_b": brandB,
		"history": entries,
	})
}

// handleGetSummary returns KPI data: per-brand peaks and means plus the
// top-5 regions for the selected brand.
func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	brand := s.brandParam(r)
	if brand == "" {
		respondWithError(w, http.StatusBadRequest, "unknown brand", nil)
		return
	}

	snapshot := s.service.Snapshot(r.Context())

	payload := map[string]any{
		"brand":       brand,
		"peaks":       analytics.Peaks(snapshot.Series),
		"means":       analytics.Means(snapshot.Series),
		"top_regions": analytics.TopRegions(snapshot.Regions, brand, 5),
	}
	if snapshot.Warning != "" {
		payload["warning"] = snapshot.Warning
	}

	respondJSON(w, payload)
}

// handleGetSpikes returns recent persisted spike alerts.
func (s *Server) handleGetSpikes(w http.ResponseWriter, r *http.Request) {
	one := 1
	maxLimit := 200
	limit := getIntParam(r, "limit", 50, &one, &maxLimit)

	spikes, err := s.repo.GetRecentSpikes(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load spikes", err)
		return
	}

	respondJSON(w, map[string]any{"spikes": spikes})
}

// handleGetSnapshots returns persisted snapshot metadata, newest first.
func (s *Server) handleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	one := 1
	maxLimit := 200
	limit := getIntParam(r, "limit", 20, &one, &maxLimit)

	snapshots, err := s.repo.GetSnapshots(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load snapshots", err)
		return
	}

	respondJSON(w, map[string]any{"snapshots": snapshots})
}
