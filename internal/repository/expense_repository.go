package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
)

// VendorPayable is one row of the payables drill-down: unpaid expense
// totals grouped by vendor.
type VendorPayable struct {
	VendorName string          `json:"vendor_name"`
	BillCount  int64           `json:"bill_count"`
	Total      decimal.Decimal `json:"total"`
}

// ExpenseRepository defines the interface for expense data access
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, orgID, id uint) (*models.Expense, error)
	List(ctx context.Context, orgID uint) ([]models.Expense, error)
	ListPaidByDateRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Expense, error)
	ListUnpaid(ctx context.Context, orgID uint) ([]models.Expense, error)
	SumUnpaidByVendor(ctx context.Context, orgID uint) ([]VendorPayable, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, orgID, id uint) error
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Preload("Category").
		First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, orgID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Preload("Category").
		Order("expense_date DESC, id DESC").
		Find(&expenses).Error
	return expenses, err
}

// ListPaidByDateRange retrieves paid expenses whose expense date falls
// in [from, to); used for financial-year expense totals.
func (r *expenseRepository) ListPaidByDateRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND is_paid = ? AND expense_date >= ? AND expense_date < ?",
			orgID, true, from, to).
		Preload("Category").
		Order("expense_date ASC, id ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) ListUnpaid(ctx context.Context, orgID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND is_paid = ?", orgID, false).
		Preload("Category").
		Order("expense_date ASC, id ASC").
		Find(&expenses).Error
	return expenses, err
}

// SumUnpaidByVendor groups outstanding expense totals by vendor name
// for the payables drill-down.
func (r *expenseRepository) SumUnpaidByVendor(ctx context.Context, orgID uint) ([]VendorPayable, error) {
	var rows []VendorPayable
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("vendor_name, COUNT(*) as bill_count, COALESCE(SUM(total_amount), 0) as total").
		Where("organization_id = ? AND is_paid = ?", orgID, false).
		Group("vendor_name").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *expenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, orgID, id uint) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.Expense{}).Error
}
