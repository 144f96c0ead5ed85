package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking represents an event reservation for the venue
type Booking struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	EventName      string          `gorm:"not null" json:"event_name"`
	ClientName     string          `gorm:"not null" json:"client_name"`
	Phone          string          `json:"phone"`
	StartsAt       time.Time       `gorm:"not null;index" json:"starts_at"`
	EndsAt         time.Time       `gorm:"not null;index" json:"ends_at"`
	RentFinalized  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"rent_finalized"`
	RentReceived   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"rent_received"`
	Status         string          `gorm:"default:pending;not null;index" json:"status"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	Payments        []Payment         `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
	SecondaryIncome []SecondaryIncome `gorm:"foreignKey:BookingID" json:"secondary_income,omitempty"`
}

// TableName specifies the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// Booking status constants
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// MayConfirm returns true if the booking can transition to confirmed
func (b *Booking) MayConfirm() bool {
	return b.Status == BookingStatusPending
}

// MayCancel returns true if the booking can be cancelled
func (b *Booking) MayCancel() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// RemainingBalance is the rent still owed for this booking.
func (b *Booking) RemainingBalance() decimal.Decimal {
	return b.RentFinalized.Sub(b.RentReceived)
}

// Receivable is the portion of finalized rent not yet received, floored
// at zero so overpayments never show as negative receivables.
func (b *Booking) Receivable() decimal.Decimal {
	r := b.RemainingBalance()
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Overlaps reports whether [b.StartsAt, b.EndsAt) intersects
// [start, end). Adjacent bookings (start == other end) do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndsAt) && end.After(b.StartsAt)
}

// BookingFinancials carries the derived money figures for one booking.
type BookingFinancials struct {
	AdvanceTotal       decimal.Decimal `json:"advance_total"`
	RefundTotal        decimal.Decimal `json:"refund_total"`
	SecondaryFromTable decimal.Decimal `json:"secondary_from_table"`
	SecondaryIncomeNet decimal.Decimal `json:"secondary_income_net"`
	RemainingBalance   decimal.Decimal `json:"remaining_balance"`
	AvailableToRefund  decimal.Decimal `json:"available_to_refund"`
}

// BookingResponse is the JSON response format for bookings
type BookingResponse struct {
	ID            uint               `json:"id"`
	EventName     string             `json:"event_name"`
	ClientName    string             `json:"client_name"`
	Phone         string             `json:"phone"`
	StartsAt      time.Time          `json:"starts_at"`
	EndsAt        time.Time          `json:"ends_at"`
	RentFinalized decimal.Decimal    `json:"rent_finalized"`
	RentReceived  decimal.Decimal    `json:"rent_received"`
	Status        string             `json:"status"`
	Notes         *string            `json:"notes,omitempty"`
	Financials    *BookingFinancials `json:"financials,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToResponse converts Booking to BookingResponse
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		EventName:     b.EventName,
		ClientName:    b.ClientName,
		Phone:         b.Phone,
		StartsAt:      b.StartsAt,
		EndsAt:        b.EndsAt,
		RentFinalized: b.RentFinalized,
		RentReceived:  b.RentReceived,
		Status:        b.Status,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
	}
}
