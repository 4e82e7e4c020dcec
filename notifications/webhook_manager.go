package notifications

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"delivery-trends/database"
	"delivery-trends/helpers"
)

// WebhookManager delivers spike alerts to registered webhooks.
type WebhookManager struct {
	repo   *database.TrendRepository
	client *http.Client
}

// WebhookPayload represents the JSON payload sent to webhooks
type WebhookPayload struct {
	AlertID    int64     `json:"AlertID"`
	AlertType  string    `json:"AlertType"`
	DetectedAt time.Time `json:"DetectedAt"`
	Brand      string    `json:"Brand"`
	WeekOf     time.Time `json:"WeekOf"`
	Value      float64   `json:"Value"`
	ZScore     float64   `json:"ZScore"`
	Baseline   float64   `json:"Baseline"`
	Message    string    `json:"Message"`
}

// NewWebhookManager creates a new webhook manager
func NewWebhookManager(repo *database.TrendRepository) *WebhookManager {
	return &WebhookManager{
		repo: repo,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendSpikeAlert delivers a spike to every matching active webhook.
// Delivery is one-shot and asynchronous; failures are logged, not retried.
func (wm *WebhookManager) SendSpikeAlert(spike *database.SpikeAlert) {
	hooks, err := wm.repo.GetActiveWebhooks()
	if err != nil {
		log.Printf("⚠️  Failed to load webhooks: %v", err)
		return
	}
	if len(hooks) == 0 {
		return
	}

	payload := wm.createPayload(spike)
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️  Failed to marshal webhook payload: %v", err)
		return
	}

	for _, hook := range hooks {
		if wm.shouldSend(hook, spike) {
			go wm.deliver(hook, spike.ID, payloadBytes)
		}
	}
}

// createPayload builds the outbound payload for a spike.
func (wm *WebhookManager) createPayload(spike *database.SpikeAlert) WebhookPayload {
	return WebhookPayload{
		AlertID:    spike.ID,
		AlertType:  "SEARCH_SPIKE",
		DetectedAt: spike.DetectedAt,
		Brand:      spike.Brand,
		WeekOf:     spike.WeekOf,
		Value:      spike.Value,
		ZScore:     spike.ZScore,
		Baseline:   spike.Baseline,
		Message:    helpers.FormatSpikeMessage(spike.Brand, spike.Value, spike.ZScore),
	}
}

// shouldSend applies the webhook's brand filter and z-score floor.
func (wm *WebhookManager) shouldSend(hook database.RefreshWebhook, spike *database.SpikeAlert) bool {
	if spike.ZScore < hook.MinZScore {
		return false
	}
	if hook.Brands == "" {
		return true
	}
	for _, brand := range strings.Split(hook.Brands, ",") {
		if strings.EqualFold(strings.TrimSpace(brand), spike.Brand) {
			return true
		}
	}
	return false
}

// deliver posts the payload to one webhook and records the attempt.
func (wm *WebhookManager) deliver(hook database.RefreshWebhook, spikeID int64, payload []byte) {
	entry := &database.WebhookDeliveryLog{
		WebhookID: hook.ID,
		SpikeID:   spikeID,
	}

	resp, err := wm.client.Post(hook.URL, "application/json", bytes.NewReader(payload))
	if err != nil {
		entry.Error = err.Error()
		log.Printf("⚠️  Webhook delivery to %s failed: %v", hook.URL, err)
	} else {
		entry.StatusCode = resp.StatusCode
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			log.Printf("⚠️  Webhook %s responded with status %d", hook.URL, resp.StatusCode)
		}
	}

	if err := wm.repo.LogWebhookDelivery(entry); err != nil {
		log.Printf("⚠️  Failed to log webhook delivery: %v", err)
	}
}
