package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is the single transaction representation: a typed financial
// document moving Amount from FromAccount to ToAccount. A fund transfer
// is one row read from two sides, so it can never leave the books
// unbalanced. Rows with IsFinancial=false are bookkeeping accruals
// (e.g. an unpaid purchase) and are excluded from balance folds.
type Voucher struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	VoucherType    string          `gorm:"not null;index" json:"voucher_type"`
	FromAccountID  *uint           `gorm:"index" json:"from_account_id,omitempty"`
	ToAccountID    *uint           `gorm:"index" json:"to_account_id,omitempty"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description    string          `json:"description"`
	ReferenceType  *string         `gorm:"index" json:"reference_type,omitempty"`
	ReferenceID    *uint           `gorm:"index" json:"reference_id,omitempty"`
	IsFinancial    bool            `gorm:"default:true;index" json:"is_financial"`
	VoucherDate    time.Time       `gorm:"type:date;not null;index" json:"voucher_date"`
	IdempotencyKey *string         `gorm:"uniqueIndex" json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Associations
	FromAccount *Account `gorm:"foreignKey:FromAccountID" json:"from_account,omitempty"`
	ToAccount   *Account `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
}

// TableName specifies the table name for Voucher
func (Voucher) TableName() string {
	return "vouchers"
}

// Voucher type constants
const (
	VoucherTypePurchase     = "purchase"
	VoucherTypePayment      = "payment"
	VoucherTypeFundTransfer = "fund_transfer"
	VoucherTypeSales        = "sales"
	VoucherTypeReceipt      = "receipt"
)

// Reference type constants (loose FK to the originating entity)
const (
	ReferenceTypeBooking  = "booking"
	ReferenceTypeExpense  = "expense"
	ReferenceTypeTransfer = "transfer"
	ReferenceTypeRefund   = "refund"
)

// Transaction effect constants, computed per queried account side
const (
	EffectCredit = "credit"
	EffectDebit  = "debit"
)

// ValidVoucherType reports whether t is one of the known voucher types.
func ValidVoucherType(t string) bool {
	switch t {
	case VoucherTypePurchase, VoucherTypePayment, VoucherTypeFundTransfer,
		VoucherTypeSales, VoucherTypeReceipt:
		return true
	}
	return false
}

// EffectOn returns the signed effect of this voucher on the given
// account: +Amount when the account is the receiving side, -Amount when
// it is the paying side, zero otherwise or when the voucher is a pure
// bookkeeping entry.
func (v *Voucher) EffectOn(accountID uint) decimal.Decimal {
	if !v.IsFinancial {
		return decimal.Zero
	}
	if v.ToAccountID != nil && *v.ToAccountID == accountID {
		return v.Amount
	}
	if v.FromAccountID != nil && *v.FromAccountID == accountID {
		return v.Amount.Neg()
	}
	return decimal.Zero
}

// DisplayTypeFor returns "credit" or "debit" from the point of view of
// the queried account, or "" when the voucher does not touch it.
func (v *Voucher) DisplayTypeFor(accountID uint) string {
	if v.ToAccountID != nil && *v.ToAccountID == accountID {
		return EffectCredit
	}
	if v.FromAccountID != nil && *v.FromAccountID == accountID {
		return EffectDebit
	}
	return ""
}

// VoucherResponse is the JSON response format for vouchers, shaped from
// the point of view of one account (ledger statement rows).
type VoucherResponse struct {
	ID              uint            `json:"id"`
	VoucherType     string          `json:"voucher_type"`
	TransactionType string          `json:"transaction_type,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Effect          decimal.Decimal `json:"effect"`
	Description     string          `json:"description"`
	ReferenceType   *string         `json:"reference_type,omitempty"`
	ReferenceID     *uint           `json:"reference_id,omitempty"`
	IsFinancial     bool            `json:"is_financial"`
	VoucherDate     time.Time       `json:"voucher_date"`
	FromAccountID   *uint           `json:"from_account_id,omitempty"`
	ToAccountID     *uint           `json:"to_account_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToResponseFor converts Voucher to VoucherResponse as seen from accountID.
// Pass 0 for a neutral (organization-wide) view.
func (v *Voucher) ToResponseFor(accountID uint) VoucherResponse {
	resp := VoucherResponse{
		ID:            v.ID,
		VoucherType:   v.VoucherType,
		Amount:        v.Amount,
		Description:   v.Description,
		ReferenceType: v.ReferenceType,
		ReferenceID:   v.ReferenceID,
		IsFinancial:   v.IsFinancial,
		VoucherDate:   v.VoucherDate,
		FromAccountID: v.FromAccountID,
		ToAccountID:   v.ToAccountID,
		CreatedAt:     v.CreatedAt,
	}
	if accountID != 0 {
		resp.TransactionType = v.DisplayTypeFor(accountID)
		resp.Effect = v.EffectOn(accountID)
		resp.Description = v.descriptionFor(accountID)
	}
	return resp
}

// descriptionFor renders the generated transfer description per side,
// so the receiving account's statement reads "Transfer from Cash"
// while the paying side keeps "Transfer to Bank". Custom descriptions
// pass through untouched.
func (v *Voucher) descriptionFor(accountID uint) string {
	if v.VoucherType != VoucherTypeFundTransfer || v.FromAccount == nil || v.ToAccount == nil {
		return v.Description
	}
	if v.Description != fmt.Sprintf("Transfer to %s", v.ToAccount.Name) {
		return v.Description
	}
	if v.ToAccountID != nil && *v.ToAccountID == accountID {
		return fmt.Sprintf("Transfer from %s", v.FromAccount.Name)
	}
	return v.Description
}
