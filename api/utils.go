package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// getIntParam retrieves an integer query parameter with default value and optional range validation
func getIntParam(r *http.Request, key string, defaultVal int, minVal, maxVal *int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}

	if minVal != nil && val < *minVal {
		return defaultVal
	}
	if maxVal != nil && val > *maxVal {
		return defaultVal
	}

	return val
}

// windowParam reads the smoothing window, clamped to the configured UI range.
func (s *Server) windowParam(r *http.Request) int {
	minWindow := 1
	maxWindow := s.cfg.Analytics.MaxWindow
	return getIntParam(r, "window", s.cfg.Analytics.DefaultWindow, &minWindow, &maxWindow)
}

// brandParam reads the brand selector, defaulting to the first brand.
// Returns "" when an unknown brand was requested.
func (s *Server) brandParam(r *http.Request) string {
	brands := s.service.Brands()
	brand := r.URL.Query().Get("brand")
	if brand == "" {
		if len(brands) == 0 {
			return ""
		}
		return brands[0]
	}
	for _, b := range brands {
		if b == brand {
			return brand
		}
	}
	return ""
}

// respondJSON writes a JSON response with status 200
func respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("API Error: failed to encode response: %v", err)
	}
}

// respondWithError logs the error and sends a JSON error response
// Use this to avoid exposing internal errors while still logging them
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Printf("API Error [%d]: %s - %v", code, message, err)
	} else {
		log.Printf("API Error [%d]: %s", code, message)
	}
	http.Error(w, message, code)
}
