package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
)

// PaymentRepository defines the interface for booking income rows and
// the secondary income table.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByBooking(ctx context.Context, orgID, bookingID uint) ([]models.Payment, error)
	ListByDateRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Payment, error)
	Delete(ctx context.Context, orgID, id uint) error

	CreateSecondaryIncome(ctx context.Context, income *models.SecondaryIncome) error
	ListSecondaryByBooking(ctx context.Context, orgID, bookingID uint) ([]models.SecondaryIncome, error)
	SumSecondaryByBooking(ctx context.Context, orgID, bookingID uint) (decimal.Decimal, error)
	SumAllocatedByBooking(ctx context.Context, orgID, bookingID uint) (decimal.Decimal, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) ListByBooking(ctx context.Context, orgID, bookingID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND booking_id = ?", orgID, bookingID).
		Preload("Category").
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListByDateRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND payment_date >= ? AND payment_date < ?", orgID, from, to).
		Preload("Category").
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Delete(ctx context.Context, orgID, id uint) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.Payment{}).Error
}

func (r *paymentRepository) CreateSecondaryIncome(ctx context.Context, income *models.SecondaryIncome) error {
	return r.db.WithContext(ctx).Create(income).Error
}

func (r *paymentRepository) ListSecondaryByBooking(ctx context.Context, orgID, bookingID uint) ([]models.SecondaryIncome, error) {
	var rows []models.SecondaryIncome
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND booking_id = ?", orgID, bookingID).
		Preload("Category").
		Order("income_date ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// SumSecondaryByBooking totals every additional income row recorded for
// the booking.
func (r *paymentRepository) SumSecondaryByBooking(ctx context.Context, orgID, bookingID uint) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.SecondaryIncome{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("organization_id = ? AND booking_id = ?", orgID, bookingID).
		Scan(&result).Error
	return result.Total, err
}

// SumAllocatedByBooking totals the rows already assigned to a specific
// secondary-income subcategory; the difference against the full total
// is what remains available to refund.
func (r *paymentRepository) SumAllocatedByBooking(ctx context.Context, orgID, bookingID uint) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.SecondaryIncome{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("organization_id = ? AND booking_id = ? AND category_id IS NOT NULL", orgID, bookingID).
		Scan(&result).Error
	return result.Total, err
}
