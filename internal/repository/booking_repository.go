package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
)

// BookingRepository defines the interface for booking data access
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, orgID, id uint) (*models.Booking, error)
	List(ctx context.Context, orgID uint) ([]models.Booking, error)
	ListWithRecords(ctx context.Context, orgID uint) ([]models.Booking, error)
	ListByStartRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Booking, error)
	ListNotCancelled(ctx context.Context, orgID uint) ([]models.Booking, error)
	FindOverlapping(ctx context.Context, orgID uint, start, end time.Time, excludeID uint) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, orgID, id uint) error
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, orgID, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, orgID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("starts_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListWithRecords preloads each booking's payment and secondary income
// rows (with categories) so financials can be folded without N+1 reads.
func (r *bookingRepository) ListWithRecords(ctx context.Context, orgID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Preload("Payments.Category").
		Preload("SecondaryIncome.Category").
		Order("starts_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListByStartRange retrieves bookings whose start date falls in
// [from, to). Financial-year income bucketing keys on the start date.
func (r *bookingRepository) ListByStartRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND starts_at >= ? AND starts_at < ?", orgID, from, to).
		Order("starts_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) ListNotCancelled(ctx context.Context, orgID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status <> ?", orgID, models.BookingStatusCancelled).
		Order("starts_at ASC").
		Find(&bookings).Error
	return bookings, err
}

// FindOverlapping returns non-cancelled bookings whose [starts_at,
// ends_at) window intersects [start, end). Adjacent windows touching at
// an endpoint do not intersect.
func (r *bookingRepository) FindOverlapping(ctx context.Context, orgID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).
		Where("organization_id = ? AND status <> ?", orgID, models.BookingStatusCancelled).
		Where("starts_at < ? AND ends_at > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) Delete(ctx context.Context, orgID, id uint) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		Delete(&models.Booking{}).Error
}
