package models

import (
	"time"
)

// Organization is the tenant boundary: one venue business. Every
// domain row carries an organization id and every repository query is
// scoped to it.
type Organization struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Currency  string    `gorm:"default:INR;not null" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}
