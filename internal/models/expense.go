package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a purchase from a vendor. TotalAmount is always
// recomputed server-side as amount + cgst_amount + sgst_amount; once
// IsPaid is set the record is read-only.
type Expense struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	VendorID       *uint           `gorm:"index" json:"vendor_id,omitempty"`
	VendorName     string          `gorm:"not null" json:"vendor_name"`
	BillNumber     string          `json:"bill_number"`
	CategoryID     uint            `gorm:"not null;index" json:"category_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CGSTPct        decimal.Decimal `gorm:"type:decimal(5,2)" json:"cgst_pct"`
	CGSTAmount     decimal.Decimal `gorm:"type:decimal(15,2)" json:"cgst_amount"`
	SGSTPct        decimal.Decimal `gorm:"type:decimal(5,2)" json:"sgst_pct"`
	SGSTAmount     decimal.Decimal `gorm:"type:decimal(15,2)" json:"sgst_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	IsPaid         bool            `gorm:"default:false;index" json:"is_paid"`
	AccountID      *uint           `gorm:"index" json:"account_id,omitempty"`
	ExpenseDate    time.Time       `gorm:"type:date;not null;index" json:"expense_date"`
	PaymentDate    *time.Time      `gorm:"type:date" json:"payment_date,omitempty"`
	BillPath       *string         `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	Vendor   *Vendor  `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Account  *Account `gorm:"foreignKey:AccountID" json:"-"`
}

// TableName specifies the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}

// MayEdit returns true while the expense is still unpaid
func (e *Expense) MayEdit() bool {
	return !e.IsPaid
}

// ComputeTotals derives the tax amounts from the percentages and sets
// TotalAmount = Amount + CGSTAmount + SGSTAmount.
func (e *Expense) ComputeTotals() {
	hundred := decimal.NewFromInt(100)
	e.CGSTAmount = e.Amount.Mul(e.CGSTPct).Div(hundred).Round(2)
	e.SGSTAmount = e.Amount.Mul(e.SGSTPct).Div(hundred).Round(2)
	e.TotalAmount = e.Amount.Add(e.CGSTAmount).Add(e.SGSTAmount)
}

// ExpenseResponse is the JSON response format for expenses
type ExpenseResponse struct {
	ID           uint            `json:"id"`
	VendorID     *uint           `json:"vendor_id,omitempty"`
	VendorName   string          `json:"vendor_name"`
	BillNumber   string          `json:"bill_number"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	CGSTPct      decimal.Decimal `json:"cgst_pct"`
	CGSTAmount   decimal.Decimal `json:"cgst_amount"`
	SGSTPct      decimal.Decimal `json:"sgst_pct"`
	SGSTAmount   decimal.Decimal `json:"sgst_amount"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	IsPaid       bool            `json:"is_paid"`
	AccountID    *uint           `json:"account_id,omitempty"`
	ExpenseDate  time.Time       `json:"expense_date"`
	PaymentDate  *time.Time      `json:"payment_date,omitempty"`
	HasBill      bool            `json:"has_bill"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToResponse converts Expense to ExpenseResponse
func (e *Expense) ToResponse() ExpenseResponse {
	resp := ExpenseResponse{
		ID:          e.ID,
		VendorID:    e.VendorID,
		VendorName:  e.VendorName,
		BillNumber:  e.BillNumber,
		CategoryID:  e.CategoryID,
		Amount:      e.Amount,
		CGSTPct:     e.CGSTPct,
		CGSTAmount:  e.CGSTAmount,
		SGSTPct:     e.SGSTPct,
		SGSTAmount:  e.SGSTAmount,
		TotalAmount: e.TotalAmount,
		IsPaid:      e.IsPaid,
		AccountID:   e.AccountID,
		ExpenseDate: e.ExpenseDate,
		PaymentDate: e.PaymentDate,
		HasBill:     e.BillPath != nil && *e.BillPath != "",
		CreatedAt:   e.CreatedAt,
	}
	if e.Category.ID != 0 {
		resp.CategoryName = e.Category.Name
	}
	return resp
}
