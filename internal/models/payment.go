package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an income row linked to a booking. A negative amount
// denotes a refund against that booking.
type Payment struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	BookingID      uint            `gorm:"not null;index" json:"booking_id"`
	CategoryID     uint            `gorm:"not null;index" json:"category_id"`
	AccountID      uint            `gorm:"not null;index" json:"account_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate    time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	Description    *string         `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	Booking  Booking  `gorm:"foreignKey:BookingID" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Account  Account  `gorm:"foreignKey:AccountID" json:"-"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// IsRefund reports whether this row records money returned to the client.
func (p *Payment) IsRefund() bool {
	return p.Amount.IsNegative()
}

// SecondaryIncome is an additional income row for a booking (decoration,
// catering, generator and similar add-ons), optionally allocated to a
// specific subcategory of the Secondary Income default category.
type SecondaryIncome struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	BookingID      uint            `gorm:"not null;index" json:"booking_id"`
	CategoryID     *uint           `gorm:"index" json:"category_id,omitempty"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	IncomeDate     time.Time       `gorm:"type:date;not null;index" json:"income_date"`
	Description    *string         `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	Booking  Booking   `gorm:"foreignKey:BookingID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName specifies the table name for SecondaryIncome
func (SecondaryIncome) TableName() string {
	return "secondary_income"
}

// Allocated reports whether the row has been assigned to a specific
// secondary-income subcategory.
func (s *SecondaryIncome) Allocated() bool {
	return s.CategoryID != nil
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID           uint            `json:"id"`
	BookingID    uint            `json:"booking_id"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	CategoryKind string          `json:"category_kind,omitempty"`
	AccountID    uint            `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	IsRefund     bool            `json:"is_refund"`
	PaymentDate  time.Time       `json:"payment_date"`
	Description  *string         `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:          p.ID,
		BookingID:   p.BookingID,
		CategoryID:  p.CategoryID,
		AccountID:   p.AccountID,
		Amount:      p.Amount,
		IsRefund:    p.IsRefund(),
		PaymentDate: p.PaymentDate,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
	if p.Category.ID != 0 {
		resp.CategoryName = p.Category.Name
		resp.CategoryKind = p.Category.Kind
	}
	return resp
}
