package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
)

// ReportCacheRepository defines the interface for per-organization
// cached report payloads. Invalidation is scoped to specific keys;
// there is no global "data changed" signal.
type ReportCacheRepository interface {
	Get(ctx context.Context, orgID uint, key string) (*models.ReportCache, error)
	Set(ctx context.Context, orgID uint, key string, data interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, orgID uint, keys ...string) error
	CleanExpired(ctx context.Context) error
}

type reportCacheRepository struct {
	db *gorm.DB
}

// NewReportCacheRepository creates a new report cache repository
func NewReportCacheRepository(db *gorm.DB) ReportCacheRepository {
	return &reportCacheRepository{db: db}
}

func (r *reportCacheRepository) Get(ctx context.Context, orgID uint, key string) (*models.ReportCache, error) {
	var cache models.ReportCache
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND cache_key = ?", orgID, key).
		Where("expires_at > ?", time.Now()).
		First(&cache).Error
	if err != nil {
		return nil, err
	}
	return &cache, nil
}

func (r *reportCacheRepository) Set(ctx context.Context, orgID uint, key string, data interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	cache := models.ReportCache{
		OrganizationID: orgID,
		CacheKey:       key,
		Data:           jsonData,
		ExpiresAt:      time.Now().Add(ttl),
	}

	// Upsert: refresh the existing row when one is present
	var existing models.ReportCache
	err = r.db.WithContext(ctx).
		Where("organization_id = ? AND cache_key = ?", orgID, key).
		First(&existing).Error
	if err == nil {
		return r.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
			"data":       jsonData,
			"expires_at": cache.ExpiresAt,
			"updated_at": time.Now(),
		}).Error
	}

	return r.db.WithContext(ctx).Create(&cache).Error
}

func (r *reportCacheRepository) Invalidate(ctx context.Context, orgID uint, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND cache_key IN ?", orgID, keys).
		Delete(&models.ReportCache{}).Error
}

func (r *reportCacheRepository) CleanExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.ReportCache{}).Error
}
