package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"delivery-trends/config"
	"delivery-trends/database"
	"delivery-trends/geo"
	"delivery-trends/realtime"
	"delivery-trends/trends"
	"delivery-trends/views"
	"delivery-trends/websocket"
)

// SnapshotService resolves the current snapshot (cached, fresh or placeholder).
type SnapshotService interface {
	Snapshot(ctx context.Context) *trends.Snapshot
	Brands() []string
}

// Server handles HTTP API requests
type Server struct {
	repo        *database.TrendRepository
	service     SnapshotService
	viewManager *views.Manager
	broker      *realtime.Broker
	hub         *websocket.Hub
	boundaries  *geo.BoundaryProvider
	cfg         *config.Config
}

// NewServer creates a new API server instance
func NewServer(repo *database.TrendRepository, service SnapshotService, viewManager *views.Manager, broker *realtime.Broker, hub *websocket.Hub, boundaries *geo.BoundaryProvider, cfg *config.Config) *Server {
	return &Server{
		repo:        repo,
		service:     service,
		viewManager: viewManager,
		broker:      broker,
		hub:         hub,
		boundaries:  boundaries,
		cfg:         cfg,
	}
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// Realtime endpoints
	mux.Handle("GET /api/events", s.broker) // SSE endpoint
	mux.Handle("GET /ws", s.hub)            // WebSocket push

	// Trend data routes
	mux.HandleFunc("GET /api/trends/series", s.handleGetSeries)
	mux.HandleFunc("GET /api/trends/regions", s.handleGetRegions)
	mux.HandleFunc("GET /api/trends/related", s.handleGetRelated)

	// Analytics routes
	mux.HandleFunc("GET /api/analytics/correlations", s.handleGetCorrelations)
	mux.HandleFunc("GET /api/analytics/correlations/history", s.handleGetCorrelationHistory)
	mux.HandleFunc("GET /api/analytics/summary", s.handleGetSummary)
	mux.HandleFunc("GET /api/analytics/spikes", s.handleGetSpikes)
	mux.HandleFunc("GET /api/snapshots", s.handleGetSnapshots)

	// View dispatch routes
	mux.HandleFunc("GET /api/views", s.handleListViews)
	mux.HandleFunc("GET /api/views/{view}", s.handleGetView)

	// Export routes
	mux.HandleFunc("GET /api/export/series.csv", s.handleExportSeriesCSV)
	mux.HandleFunc("GET /api/export/regions.csv", s.handleExportRegionsCSV)
	mux.HandleFunc("GET /api/export/summary.md", s.handleExportSummary)

	// Map overlay route
	mux.HandleFunc("GET /api/geo/boundaries", s.handleGetBoundaries)

	// Webhook management routes
	mux.HandleFunc("GET /api/config/webhooks", s.handleGetWebhooks)
	mux.HandleFunc("POST /api/config/webhooks", s.handleCreateWebhook)
	mux.HandleFunc("DELETE /api/config/webhooks/{id}", s.handleDeleteWebhook)

	mux.HandleFunc("GET /health", s.handleHealth)

	// Serve Static Files (Public UI)
	fs := http.FileServer(http.Dir("./public"))
	mux.Handle("GET /", fs)

	// Add middleware
	handler := s.corsMiddleware(s.loggingMiddleware(mux))

	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, handler)
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// Handlers are distributed across multiple files:
// - handlers_trends.go: raw trend tables (series, regions, related queries)
// - handlers_analytics.go: derived tables (correlations, summary, spikes)
// - handlers_views.go: view dispatch over the closed view set
// - handlers_export.go: CSV and markdown export surface
// - handlers_geo.go: map boundary overlay
// - handlers_config.go: webhook management, health check
