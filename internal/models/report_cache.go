package models

import (
	"encoding/json"
	"time"
)

// ReportCache represents a cached report payload for one organization.
// Entries are invalidated explicitly when the entities feeding the
// report change, rather than by a blanket "data changed" broadcast.
type ReportCache struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index:idx_report_cache_org_key" json:"organization_id"`
	CacheKey       string          `gorm:"not null;index:idx_report_cache_org_key" json:"cache_key"`
	Data           json.RawMessage `gorm:"type:jsonb;not null" json:"data"`
	ExpiresAt      time.Time       `gorm:"not null;index" json:"expires_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for ReportCache
func (ReportCache) TableName() string {
	return "report_cache"
}

// Report cache key constants. Writes to bookings, payments, expenses or
// vouchers invalidate the keys they feed.
const (
	CacheKeyFYSummary         = "fy_summary"
	CacheKeyCategoryBreakdown = "category_breakdown"
	CacheKeyVendorPayables    = "vendor_payables"
)
