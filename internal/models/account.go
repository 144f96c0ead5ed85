package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a named money container (cash box, bank account,
// owner capital). Balance is a derived snapshot: the authoritative value
// is always OpeningBalance plus the signed sum of financial vouchers
// touching the account.
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	Name           string          `gorm:"not null" json:"name"`
	AccountType    string          `gorm:"not null;index" json:"account_type"`
	SubType        *string         `json:"sub_type,omitempty"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"opening_balance"`
	Balance        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance"`
	IsDefault      bool            `gorm:"default:false" json:"is_default"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// Account type constants
const (
	AccountTypeOperational = "operational"
	AccountTypeCapital     = "capital"
	AccountTypeOther       = "other"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeOperational, AccountTypeCapital, AccountTypeOther:
		return true
	}
	return false
}

// AccountResponse is the JSON response format for accounts
type AccountResponse struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	AccountType    string          `json:"account_type"`
	SubType        *string         `json:"sub_type,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
	BalanceDisplay string          `json:"balance_display"`
	IsDefault      bool            `json:"is_default"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToResponse converts Account to AccountResponse. The display string is
// filled by the handler layer (₹, en-IN grouping).
func (a *Account) ToResponse() AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		AccountType:    a.AccountType,
		SubType:        a.SubType,
		OpeningBalance: a.OpeningBalance,
		Balance:        a.Balance,
		IsDefault:      a.IsDefault,
		CreatedAt:      a.CreatedAt,
	}
}
