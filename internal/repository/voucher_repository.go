package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
)

// VoucherRepository defines the interface for voucher data access
type VoucherRepository interface {
	Create(ctx context.Context, voucher *models.Voucher) error
	FindByID(ctx context.Context, orgID, id uint) (*models.Voucher, error)
	FindByIdempotencyKey(ctx context.Context, orgID uint, key string) (*models.Voucher, error)
	ListByAccount(ctx context.Context, orgID, accountID uint) ([]models.Voucher, error)
	ListByDateRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Voucher, error)
	SumEffect(ctx context.Context, orgID, accountID uint) (decimal.Decimal, error)
	CountByAccount(ctx context.Context, orgID, accountID uint) (int64, error)
	DeleteByReference(ctx context.Context, orgID uint, refType string, refID uint) error
}

type voucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) Create(ctx context.Context, voucher *models.Voucher) error {
	return r.db.WithContext(ctx).Create(voucher).Error
}

func (r *voucherRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) FindByIdempotencyKey(ctx context.Context, orgID uint, key string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND idempotency_key = ?", orgID, key).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// ListByAccount retrieves every voucher touching the account, oldest
// first, so callers can render a statement with running balances.
func (r *voucherRepository) ListByAccount(ctx context.Context, orgID, accountID uint) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := r.db.WithContext(ctx).
		Preload("FromAccount").
		Preload("ToAccount").
		Where("organization_id = ? AND (from_account_id = ? OR to_account_id = ?)", orgID, accountID, accountID).
		Order("voucher_date ASC, id ASC").
		Find(&vouchers).Error
	return vouchers, err
}

func (r *voucherRepository) ListByDateRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND voucher_date >= ? AND voucher_date < ?", orgID, from, to).
		Order("voucher_date ASC, id ASC").
		Find(&vouchers).Error
	return vouchers, err
}

// SumEffect folds the signed effect of every financial voucher touching
// the account: +amount on the receiving side, -amount on the paying
// side. The account balance is opening_balance plus this sum.
func (r *voucherRepository) SumEffect(ctx context.Context, orgID, accountID uint) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Select(`COALESCE(SUM(CASE
			WHEN to_account_id = @acct THEN amount
			WHEN from_account_id = @acct THEN -amount
			ELSE 0 END), 0) as total`,
			map[string]interface{}{"acct": accountID}).
		Where("organization_id = ? AND is_financial = ? AND (from_account_id = ? OR to_account_id = ?)",
			orgID, true, accountID, accountID).
		Scan(&result).Error

	return result.Total, err
}

func (r *voucherRepository) CountByAccount(ctx context.Context, orgID, accountID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("organization_id = ? AND (from_account_id = ? OR to_account_id = ?)", orgID, accountID, accountID).
		Count(&count).Error
	return count, err
}

func (r *voucherRepository) DeleteByReference(ctx context.Context, orgID uint, refType string, refID uint) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND reference_type = ? AND reference_id = ?", orgID, refType, refID).
		Delete(&models.Voucher{}).Error
}
