package api

import (
	"net/http"
)

// handleGetBoundaries serves the GeoJSON boundary overlay for the choropleth
// map. When the primary source is unreachable the built-in minimal set is
// served and flagged via header so the UI can show its non-blocking warning.
func (s *Server) handleGetBoundaries(w http.ResponseWriter, r *http.Request) {
	data, fallback, err := s.boundaries.Boundaries(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load boundaries", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if fallback {
		w.Header().Set("X-Boundary-Fallback", "true")
	}
	w.Write(data)
}
