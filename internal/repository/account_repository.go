package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
)

// AccountRepository defines the interface for account data access.
// Every method is scoped to one organization.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, orgID, id uint) (*models.Account, error)
	List(ctx context.Context, orgID uint) ([]models.Account, error)
	ListAll(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	UpdateBalance(ctx context.Context, orgID, id uint, balance decimal.Decimal) error
	Delete(ctx context.Context, orgID, id uint) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context, orgID uint) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("is_default DESC, name ASC").
		Find(&accounts).Error
	return accounts, err
}

// ListAll retrieves accounts across every organization; only the
// balance reconciliation job uses it.
func (r *accountRepository) ListAll(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).Order("id ASC").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// UpdateBalance persists a freshly folded balance snapshot without
// touching any other column.
func (r *accountRepository) UpdateBalance(ctx context.Context, orgID, id uint, balance decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("organization_id = ? AND id = ?", orgID, id).
		Update("balance", balance).Error
}

func (r *accountRepository) Delete(ctx context.Context, orgID, id uint) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.Account{}).Error
}
