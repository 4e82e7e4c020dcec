package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"delivery-trends/analytics"
	"delivery-trends/config"
	"delivery-trends/database"
	"delivery-trends/notifications"
	"delivery-trends/realtime"
	"delivery-trends/trends"
	"delivery-trends/websocket"
)

// TrendRefresher keeps the dashboard current: it re-resolves the snapshot on
// an interval (the cache absorbs calls inside the freshness window), persists
// fresh data, recomputes correlations, raises spike alerts and broadcasts
// refresh events to connected clients.
type TrendRefresher struct {
	service  *TrendService
	repo     *database.TrendRepository
	webhooks *notifications.WebhookManager
	broker   *realtime.Broker
	hub      *websocket.Hub
	cfg      config.AnalyticsConfig
	done     chan bool

	lastSnapshotID uuid.UUID
}

// NewTrendRefresher creates a new refresher
func NewTrendRefresher(service *TrendService, repo *database.TrendRepository, webhooks *notifications.WebhookManager, broker *realtime.Broker, hub *websocket.Hub, cfg config.AnalyticsConfig) *TrendRefresher {
	return &TrendRefresher{
		service:  service,
		repo:     repo,
		webhooks: webhooks,
		broker:   broker,
		hub:      hub,
		cfg:      cfg,
		done:     make(chan bool),
	}
}

// Start begins the refresh loop
func (r *TrendRefresher) Start() {
	log.Println("🔄 Trend Refresher started")

	// Hourly checks; actual upstream fetches happen only when the snapshot
	// cache's freshness window has lapsed.
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	// Initial run
	r.runRefresh()

	for {
		select {
		case <-ticker.C:
			r.runRefresh()
		case <-r.done:
			log.Println("🔄 Trend Refresher stopped")
			return
		}
	}
}

// Stop stops the refresh loop
func (r *TrendRefresher) Stop() {
	r.done <- true
}

// runRefresh resolves the current snapshot and processes it if new.
func (r *TrendRefresher) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshot := r.service.Snapshot(ctx)

	if snapshot.Placeholder {
		log.Println("⚠️  Refresh resolved to placeholder data, provider still unreachable")
		r.broker.Publish(realtime.EventProviderDegraded, map[string]any{
			"warning": snapshot.Warning,
		})
		return
	}

	if snapshot.ID == r.lastSnapshotID {
		return
	}
	r.lastSnapshotID = snapshot.ID

	log.Printf("📊 Fresh snapshot %s fetched at %s", snapshot.ID, snapshot.FetchedAt.Format(time.RFC3339))

	if err := r.repo.SaveSnapshot(snapshot); err != nil {
		log.Printf("⚠️  Failed to persist snapshot: %v", err)
	}

	matrix := analytics.Correlate(snapshot.Series)
	if err := r.repo.SaveCorrelations(snapshot.ID, matrix, 1); err != nil {
		log.Printf("⚠️  Failed to persist correlations: %v", err)
	}

	r.processSpikes(snapshot)

	event := map[string]any{
		"snapshot_id": snapshot.ID,
		"fetched_at":  snapshot.FetchedAt,
		"brands":      snapshot.Series.Brands,
		"weeks":       snapshot.Series.Len(),
	}
	r.broker.Publish(realtime.EventSnapshotRefreshed, event)
	r.hub.Broadcast(realtime.Event{
		Type:    realtime.EventSnapshotRefreshed,
		At:      time.Now().UTC(),
		Payload: event,
	})

	log.Println("✅ Refresh complete")
}

// processSpikes detects, persists and delivers spike alerts for a snapshot,
// skipping weeks already alerted on.
func (r *TrendRefresher) processSpikes(snapshot *trends.Snapshot) {
	spikes := analytics.DetectSpikes(snapshot.Series, r.cfg.SpikeZScoreThreshold, r.cfg.SpikeMinSamples)

	for _, spike := range spikes {
		seen, err := r.repo.HasSpike(spike.Brand, spike.Date)
		if err != nil {
			log.Printf("⚠️  Spike dedup check failed for %s: %v", spike.Brand, err)
			continue
		}
		if seen {
			continue
		}

		alert := &database.SpikeAlert{
			Brand:      spike.Brand,
			WeekOf:     spike.Date,
			Value:      spike.Value,
			ZScore:     spike.ZScore,
			Baseline:   spike.Baseline,
			StdDev:     spike.StdDev,
			DetectedAt: time.Now().UTC(),
		}
		if err := r.repo.SaveSpike(alert); err != nil {
			log.Printf("⚠️  Failed to save spike for %s: %v", spike.Brand, err)
			continue
		}

		log.Printf("🚨 Spike detected: %s at %.0f (z=%.1f)", spike.Brand, spike.Value, spike.ZScore)
		r.webhooks.SendSpikeAlert(alert)
		r.broker.Publish(realtime.EventSpikeDetected, alert)
		r.hub.Broadcast(realtime.Event{
			Type:    realtime.EventSpikeDetected,
			At:      time.Now().UTC(),
			Payload: alert,
		})
	}
}
