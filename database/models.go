package database

import (
	"time"

	"github.com/google/uuid"
)

// TrendSnapshot records one fresh fetch from the trends provider. Placeholder
// snapshots are never persisted; history tables only carry real data.
type TrendSnapshot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FetchedAt time.Time `gorm:"index" json:"fetched_at"`
	Geo       string    `gorm:"size:8" json:"geo"`
	Timeframe string    `gorm:"size:32" json:"timeframe"`
	Brands    string    `gorm:"size:255" json:"brands"` // comma-joined, in query order
}

// SeriesPoint is one (snapshot, brand, week) observation. A null value keeps
// the provider's missing weeks distinguishable from zero interest.
type SeriesPoint struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotID uuid.UUID `gorm:"type:uuid;index" json:"snapshot_id"`
	Brand      string    `gorm:"size:64;index" json:"brand"`
	WeekOf     time.Time `json:"week_of"`
	Value      *float64  `json:"value"`
}

// RegionScore is one (snapshot, region, brand) interest value.
type RegionScore struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotID uuid.UUID `gorm:"type:uuid;index" json:"snapshot_id"`
	Region     string    `gorm:"size:128;index" json:"region"`
	Brand      string    `gorm:"size:64" json:"brand"`
	Value      float64   `json:"value"`
}

// CorrelationEntry stores one pairwise coefficient from a correlation run.
// A null coefficient marks an undefined (zero-variance) pair.
type CorrelationEntry struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SnapshotID   uuid.UUID `gorm:"type:uuid;index" json:"snapshot_id"`
	BrandA       string    `gorm:"size:64" json:"brand_a"`
	BrandB       string    `gorm:"size:64" json:"brand_b"`
	Coefficient  *float64  `json:"coefficient"`
	Window       int       `json:"window"`
	CalculatedAt time.Time `gorm:"index" json:"calculated_at"`
}

// SpikeAlert records a detected search-interest spike.
type SpikeAlert struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Brand      string    `gorm:"size:64;index" json:"brand"`
	WeekOf     time.Time `json:"week_of"`
	Value      float64   `json:"value"`
	ZScore     float64   `json:"z_score"`
	Baseline   float64   `json:"baseline"`
	StdDev     float64   `json:"std_dev"`
	DetectedAt time.Time `gorm:"index" json:"detected_at"`
}

// RefreshWebhook is a registered webhook receiving spike alerts.
type RefreshWebhook struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	URL       string    `gorm:"size:512" json:"url"`
	Brands    string    `gorm:"size:255" json:"brands"` // comma-joined filter, empty = all brands
	MinZScore float64   `json:"min_z_score"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// WebhookDeliveryLog records one delivery attempt.
type WebhookDeliveryLog struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WebhookID   uuid.UUID `gorm:"type:uuid;index" json:"webhook_id"`
	SpikeID     int64     `gorm:"index" json:"spike_id"`
	StatusCode  int       `json:"status_code"`
	Error       string    `gorm:"size:512" json:"error,omitempty"`
	DeliveredAt time.Time `json:"delivered_at"`
}
