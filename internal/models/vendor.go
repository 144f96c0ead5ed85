package models

import (
	"time"
)

// Vendor represents a supplier or party the venue buys from
type Vendor struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	BusinessName   string    `gorm:"not null" json:"business_name"`
	ContactName    string    `json:"contact_name"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	GSTIN          string    `gorm:"column:gstin" json:"gstin"`
	Address        *string   `gorm:"type:text" json:"address,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Expenses []Expense `gorm:"foreignKey:VendorID" json:"expenses,omitempty"`
}

// TableName specifies the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// VendorResponse is the JSON response format for vendors
type VendorResponse struct {
	ID           uint      `json:"id"`
	BusinessName string    `json:"business_name"`
	ContactName  string    `json:"contact_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	GSTIN        string    `json:"gstin"`
	Address      *string   `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToResponse converts Vendor to VendorResponse
func (v *Vendor) ToResponse() VendorResponse {
	return VendorResponse{
		ID:           v.ID,
		BusinessName: v.BusinessName,
		ContactName:  v.ContactName,
		Phone:        v.Phone,
		Email:        v.Email,
		GSTIN:        v.GSTIN,
		Address:      v.Address,
		CreatedAt:    v.CreatedAt,
	}
}
