package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"delivery-trends/database"
)

// handleGetWebhooks returns all registered spike webhooks.
func (s *Server) handleGetWebhooks(w http.ResponseWriter, r *http.Request) {
	hooks, err := s.repo.GetWebhooks()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load webhooks", err)
		return
	}
	respondJSON(w, map[string]any{"webhooks": hooks})
}

type createWebhookRequest struct {
	URL       string  `json:"url"`
	Brands    string  `json:"brands"`
	MinZScore float64 `json:"min_z_score"`
}

// handleCreateWebhook registers a new spike webhook.
func (s *Server) handleCreateWebhook(w http.ResponseWriter, r *http.Request) {
	var req createWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		respondWithError(w, http.StatusBadRequest, "url must be a valid http(s) URL", err)
		return
	}

	hook := &database.RefreshWebhook{
		URL:       req.URL,
		Brands:    req.Brands,
		MinZScore: req.MinZScore,
		Active:    true,
	}
	if err := s.repo.CreateWebhook(hook); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to create webhook", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(hook); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to encode webhook", err)
	}
}

// handleDeleteWebhook removes a webhook by ID.
func (s *Server) handleDeleteWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid webhook id", err)
		return
	}

	if err := s.repo.DeleteWebhook(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(w, http.StatusNotFound, "webhook not found", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to delete webhook", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"status":            "ok",
		"time":              time.Now().UTC(),
		"websocket_clients": s.hub.ClientCount(),
	})
}
