package api

import (
	"net/http"

	"delivery-trends/analytics"
	"delivery-trends/views"
)

// handleListViews returns the closed set of view identifiers.
func (s *Server) handleListViews(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{"views": s.viewManager.List()})
}

// handleGetView dispatches to one view builder with the current derived tables.
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	viewID := r.PathValue("view")
	if !s.viewManager.Has(viewID) {
		respondWithError(w, http.StatusNotFound, "unknown view", nil)
		return
	}

	brand := s.brandParam(r)
	if brand == "" {
		respondWithError(w, http.StatusBadRequest, "unknown brand", nil)
		return
	}

	snapshot := s.service.Snapshot(r.Context())
	window := s.windowParam(r)

	smoothed, err := analytics.Smooth(snapshot.Series, window)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "smoothing failed", err)
		return
	}

	in := views.Inputs{
		Snapshot: snapshot,
		Smoothed: smoothed,
		Matrix:   analytics.Correlate(snapshot.Series),
		Window:   window,
		Brand:    brand,
		Region:   r.URL.Query().Get("region"),
	}

	data, err := s.viewManager.Build(r.Context(), viewID, in)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "view build failed", err)
		return
	}

	payload := map[string]any{
		"view": viewID,
		"data": data,
	}
	if snapshot.Warning != "" {
		payload["warning"] = snapshot.Warning
	}

	respondJSON(w, payload)
}
