package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"delivery-trends/analytics"
	"delivery-trends/trends"
)

// TrendRepository handles database operations for snapshots and analytics
type TrendRepository struct {
	db *Database
}

// NewTrendRepository creates a new trend repository
func NewTrendRepository(db *Database) *TrendRepository {
	return &TrendRepository{db: db}
}

// InitSchema performs auto-migration for all models
func (r *TrendRepository) InitSchema() error {
	fmt.Println("🔄 Starting database schema initialization...")

	if err := r.db.db.AutoMigrate(
		&TrendSnapshot{},
		&SeriesPoint{},
		&RegionScore{},
		&CorrelationEntry{},
		&SpikeAlert{},
		&RefreshWebhook{},
		&WebhookDeliveryLog{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	fmt.Println("✅ Database schema ready")
	return nil
}

// SaveSnapshot persists a fresh snapshot with its series points and region
// scores in one transaction. Placeholder snapshots are rejected: synthetic
// data must never enter history.
func (r *TrendRepository) SaveSnapshot(snapshot *trends.Snapshot) error {
	if snapshot.Placeholder {
		return fmt.Errorf("refusing to persist placeholder snapshot %s", snapshot.ID)
	}

	return r.db.db.Transaction(func(tx *gorm.DB) error {
		record := TrendSnapshot{
			ID:        snapshot.ID,
			FetchedAt: snapshot.FetchedAt,
			Geo:       snapshot.Geo,
			Timeframe: snapshot.Timeframe,
			Brands:    strings.Join(snapshot.Series.Brands, ","),
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}

		points := make([]SeriesPoint, 0, len(snapshot.Series.Brands)*snapshot.Series.Len())
		for _, brand := range snapshot.Series.Brands {
			for i, v := range snapshot.Series.Values[brand] {
				points = append(points, SeriesPoint{
					SnapshotID: snapshot.ID,
					Brand:      brand,
					WeekOf:     snapshot.Series.Dates[i],
					Value:      v,
				})
			}
		}
		if len(points) > 0 {
			if err := tx.CreateInBatches(points, 500).Error; err != nil {
				return fmt.Errorf("save series points: %w", err)
			}
		}

		var scores []RegionScore
		for region, brandScores := range snapshot.Regions.Scores {
			for brand, value := range brandScores {
				scores = append(scores, RegionScore{
					SnapshotID: snapshot.ID,
					Region:     region,
					Brand:      brand,
					Value:      value,
				})
			}
		}
		if len(scores) > 0 {
			if err := tx.CreateInBatches(scores, 500).Error; err != nil {
				return fmt.Errorf("save region scores: %w", err)
			}
		}

		return nil
	})
}

// SaveCorrelations persists the upper triangle of a correlation run.
func (r *TrendRepository) SaveCorrelations(snapshotID uuid.UUID, matrix analytics.CorrelationMatrix, window int) error {
	now := time.Now().UTC()

	var entries []CorrelationEntry
	for i := 0; i < len(matrix.Brands); i++ {
		for j := i + 1; j < len(matrix.Brands); j++ {
			a, b := matrix.Brands[i], matrix.Brands[j]
			entries = append(entries, CorrelationEntry{
				SnapshotID:   snapshotID,
				BrandA:       a,
				BrandB:       b,
				Coefficient:  matrix.Coef[a][b],
				Window:       window,
				CalculatedAt: now,
			})
		}
	}
	if len(entries) == 0 {
		return nil
	}
	return r.db.db.Create(&entries).Error
}

// GetCorrelationHistory returns the most recent stored coefficients for a
// brand pair, newest first.
func (r *TrendRepository) GetCorrelationHistory(brandA, brandB string, limit int) ([]CorrelationEntry, error) {
	var entries []CorrelationEntry
	err := r.db.db.
		Where("(brand_a = ? AND brand_b = ?) OR (brand_a = ? AND brand_b = ?)", brandA, brandB, brandB, brandA).
		Order("calculated_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// SaveSpike persists a detected spike and returns it with its assigned ID.
func (r *TrendRepository) SaveSpike(spike *SpikeAlert) error {
	return r.db.db.Create(spike).Error
}

// HasSpike reports whether a spike for the same brand and week is already
// recorded, so hourly refresh runs don't duplicate alerts.
func (r *TrendRepository) HasSpike(brand string, weekOf time.Time) (bool, error) {
	var count int64
	err := r.db.db.Model(&SpikeAlert{}).
		Where("brand = ? AND week_of = ?", brand, weekOf).
		Count(&count).Error
	return count > 0, err
}

// GetRecentSpikes returns the latest spike alerts, newest first.
func (r *TrendRepository) GetRecentSpikes(limit int) ([]SpikeAlert, error) {
	var spikes []SpikeAlert
	err := r.db.db.Order("detected_at DESC").Limit(limit).Find(&spikes).Error
	return spikes, err
}

// GetSnapshots returns snapshot metadata, newest first.
func (r *TrendRepository) GetSnapshots(limit int) ([]TrendSnapshot, error) {
	var snapshots []TrendSnapshot
	err := r.db.db.Order("fetched_at DESC").Limit(limit).Find(&snapshots).Error
	return snapshots, err
}

// GetActiveWebhooks returns all active refresh webhooks.
func (r *TrendRepository) GetActiveWebhooks() ([]RefreshWebhook, error) {
	var hooks []RefreshWebhook
	err := r.db.db.Where("active = ?", true).Find(&hooks).Error
	return hooks, err
}

// GetWebhooks returns all registered webhooks.
func (r *TrendRepository) GetWebhooks() ([]RefreshWebhook, error) {
	var hooks []RefreshWebhook
	err := r.db.db.Order("created_at DESC").Find(&hooks).Error
	return hooks, err
}

// CreateWebhook registers a webhook, assigning its ID.
func (r *TrendRepository) CreateWebhook(hook *RefreshWebhook) error {
	if hook.ID == uuid.Nil {
		hook.ID = uuid.New()
	}
	hook.CreatedAt = time.Now().UTC()
	return r.db.db.Create(hook).Error
}

// DeleteWebhook removes a webhook by ID.
func (r *TrendRepository) DeleteWebhook(id uuid.UUID) error {
	result := r.db.db.Delete(&RefreshWebhook{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LogWebhookDelivery records one delivery attempt.
func (r *TrendRepository) LogWebhookDelivery(entry *WebhookDeliveryLog) error {
	entry.DeliveredAt = time.Now().UTC()
	return r.db.db.Create(entry).Error
}
