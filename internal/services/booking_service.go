package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
	"github.com/hallbook/hallbook-api/internal/repository"
	"github.com/hallbook/hallbook-api/internal/statemachine"
)

// BookingService owns bookings and the money recorded against them.
// The denormalized rent_received counter is only ever written here,
// inside the same transaction as the payment row it mirrors.
type BookingService struct {
	repos *repository.Repositories
}

// NewBookingService creates a new booking service
func NewBookingService(repos *repository.Repositories) *BookingService {
	return &BookingService{repos: repos}
}

// CreateBookingInput carries the fields for a new booking
type CreateBookingInput struct {
	EventName     string
	ClientName    string
	Phone         string
	StartsAt      time.Time
	EndsAt        time.Time
	RentFinalized decimal.Decimal
	Notes         *string
}

// Create validates and stores a booking. The venue has a single hall,
// so a window overlapping any non-cancelled booking is rejected;
// adjacent windows (one ending exactly when the next starts) are fine.
func (s *BookingService) Create(ctx context.Context, orgID uint, input CreateBookingInput) (*models.Booking, error) {
	if input.EventName == "" {
		return nil, NewValidationError("event_name", "is required")
	}
	if input.ClientName == "" {
		return nil, NewValidationError("client_name", "is required")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, NewValidationError("ends_at", "must be after the start")
	}
	if input.RentFinalized.IsNegative() {
		return nil, NewValidationError("rent_finalized", "cannot be negative")
	}

	overlapping, err := s.repos.Booking.FindOverlapping(ctx, orgID, input.StartsAt, input.EndsAt, 0)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, NewValidationError("starts_at",
			fmt.Sprintf("dates overlap existing booking %q", overlapping[0].EventName))
	}

	booking := &models.Booking{
		OrganizationID: orgID,
		EventName:      input.EventName,
		ClientName:     input.ClientName,
		Phone:          input.Phone,
		StartsAt:       input.StartsAt,
		EndsAt:         input.EndsAt,
		RentFinalized:  input.RentFinalized,
		RentReceived:   decimal.Zero,
		Status:         models.BookingStatusPending,
		Notes:          input.Notes,
	}
	if err := s.repos.Booking.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// BookingWithFinancials pairs a booking with its derived money figures
type BookingWithFinancials struct {
	Booking    models.Booking
	Financials models.BookingFinancials
}

// ListWithFinancials returns every booking with the derived figures the
// views need, folded from preloaded payment and secondary income rows.
func (s *BookingService) ListWithFinancials(ctx context.Context, orgID uint) ([]BookingWithFinancials, error) {
	bookings, err := s.repos.Booking.ListWithRecords(ctx, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]BookingWithFinancials, 0, len(bookings))
	for i := range bookings {
		b := bookings[i]
		out = append(out, BookingWithFinancials{
			Booking:    b,
			Financials: foldFinancials(&b),
		})
	}
	return out, nil
}

// foldFinancials partitions a booking's records by category kind and
// folds them into the derived figures. Kind is a stable enum, so the
// fold never depends on display names.
func foldFinancials(b *models.Booking) models.BookingFinancials {
	advance := decimal.Zero
	refund := decimal.Zero
	for i := range b.Payments {
		p := &b.Payments[i]
		switch p.Category.Kind {
		case models.CategoryKindAdvance:
			advance = advance.Add(p.Amount)
		case models.CategoryKindRefund:
			refund = refund.Add(p.Amount.Abs())
		}
	}

	secondary := decimal.Zero
	allocated := decimal.Zero
	for i := range b.SecondaryIncome {
		row := &b.SecondaryIncome[i]
		secondary = secondary.Add(row.Amount)
		if row.Allocated() {
			allocated = allocated.Add(row.Amount)
		}
	}

	return models.BookingFinancials{
		AdvanceTotal:       advance,
		RefundTotal:        refund,
		SecondaryFromTable: secondary,
		SecondaryIncomeNet: advance.Add(secondary).Sub(refund),
		RemainingBalance:   b.RemainingBalance(),
		AvailableToRefund:  secondary.Sub(allocated),
	}
}

// AddPaymentInput carries the fields of a booking payment
type AddPaymentInput struct {
	Amount      decimal.Decimal
	PaymentDate time.Time
	CategoryID  uint
	AccountID   uint
	Description *string
}

// AddPayment records money received against a booking: the income row,
// the receipt voucher crediting the chosen account and, for rent
// payments only, the bump of the booking's rent_received counter, all
// in one store transaction. This is the single write path for the
// counter; nothing else may touch it.
func (s *BookingService) AddPayment(ctx context.Context, orgID, bookingID uint, input AddPaymentInput) (*models.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}

	booking, err := s.findBooking(ctx, orgID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, ErrInvalidState
	}

	category, err := s.findCategory(ctx, orgID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.CategoryType != models.CategoryTypeIncome {
		return nil, NewValidationError("category_id", "must be an income category")
	}
	if _, err := s.findAccount(ctx, orgID, input.AccountID); err != nil {
		return nil, err
	}

	date := input.PaymentDate
	if date.IsZero() {
		date = time.Now()
	}

	payment := &models.Payment{
		OrganizationID: orgID,
		BookingID:      booking.ID,
		CategoryID:     category.ID,
		AccountID:      input.AccountID,
		Amount:         input.Amount,
		PaymentDate:    date,
		Description:    input.Description,
	}

	refType := models.ReferenceTypeBooking
	voucher := &models.Voucher{
		OrganizationID: orgID,
		VoucherType:    models.VoucherTypeReceipt,
		ToAccountID:    &input.AccountID,
		Amount:         input.Amount,
		Description:    fmt.Sprintf("%s payment for %s", category.Name, booking.EventName),
		ReferenceType:  &refType,
		ReferenceID:    &booking.ID,
		IsFinancial:    true,
		VoucherDate:    date,
	}

	err = s.repos.Atomically(ctx, func(tx *repository.Repositories) error {
		if err := tx.Payment.Create(ctx, payment); err != nil {
			return err
		}
		if err := tx.Voucher.Create(ctx, voucher); err != nil {
			return err
		}
		if category.Kind == models.CategoryKindRent {
			booking.RentReceived = booking.RentReceived.Add(input.Amount)
			if err := tx.Booking.Update(ctx, booking); err != nil {
				return err
			}
		}
		return refreshAccountSnapshots(ctx, tx, orgID, input.AccountID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, orgID)
	payment.Category = *category
	return payment, nil
}

// AvailableToRefund is the portion of a booking's additional income not
// yet allocated to a secondary-income subcategory: total of all
// secondary income rows minus the allocated ones.
func (s *BookingService) AvailableToRefund(ctx context.Context, orgID, bookingID uint) (decimal.Decimal, error) {
	if _, err := s.findBooking(ctx, orgID, bookingID); err != nil {
		return decimal.Zero, err
	}
	total, err := s.repos.Payment.SumSecondaryByBooking(ctx, orgID, bookingID)
	if err != nil {
		return decimal.Zero, err
	}
	allocated, err := s.repos.Payment.SumAllocatedByBooking(ctx, orgID, bookingID)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Sub(allocated), nil
}

// ProcessRefund returns money to the client: a negative income row plus
// a payment voucher debiting the chosen account, in one transaction.
// The amount is validated against AvailableToRefund before anything is
// written. A retried request carrying the same idempotency key replays
// the stored refund instead of paying out twice.
func (s *BookingService) ProcessRefund(ctx context.Context, orgID, bookingID uint, amount decimal.Decimal, accountID uint, description, idempotencyKey string) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}

	if idempotencyKey != "" {
		if existing, err := s.repos.Voucher.FindByIdempotencyKey(ctx, orgID, idempotencyKey); err == nil {
			return s.refundRowFor(ctx, orgID, bookingID, existing)
		}
	}

	booking, err := s.findBooking(ctx, orgID, bookingID)
	if err != nil {
		return nil, err
	}

	available, err := s.AvailableToRefund(ctx, orgID, bookingID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(available) {
		return nil, NewValidationError("amount",
			fmt.Sprintf("exceeds available to refund (%s)", available.StringFixed(2)))
	}

	if _, err := s.findAccount(ctx, orgID, accountID); err != nil {
		return nil, err
	}

	refundCategory, err := s.repos.Category.FindByKind(ctx, orgID, models.CategoryKindRefund, models.CategoryTypeIncome)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if description == "" {
		description = fmt.Sprintf("Refund for %s", booking.EventName)
	}
	now := time.Now()

	payment := &models.Payment{
		OrganizationID: orgID,
		BookingID:      booking.ID,
		CategoryID:     refundCategory.ID,
		AccountID:      accountID,
		Amount:         amount.Neg(),
		PaymentDate:    now,
		Description:    &description,
	}

	refType := models.ReferenceTypeRefund
	key := idempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	voucher := &models.Voucher{
		OrganizationID: orgID,
		VoucherType:    models.VoucherTypePayment,
		FromAccountID:  &accountID,
		Amount:         amount,
		Description:    description,
		ReferenceType:  &refType,
		ReferenceID:    &booking.ID,
		IsFinancial:    true,
		VoucherDate:    now,
		IdempotencyKey: &key,
	}

	err = s.repos.Atomically(ctx, func(tx *repository.Repositories) error {
		if err := tx.Payment.Create(ctx, payment); err != nil {
			return err
		}
		if err := tx.Voucher.Create(ctx, voucher); err != nil {
			return err
		}
		return refreshAccountSnapshots(ctx, tx, orgID, accountID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, orgID)
	payment.Category = *refundCategory
	return payment, nil
}

// AddSecondaryIncomeInput carries the fields of an additional income row
type AddSecondaryIncomeInput struct {
	CategoryID  *uint
	Amount      decimal.Decimal
	IncomeDate  time.Time
	Description *string
}

// AddSecondaryIncome records an additional income row for a booking
// (decoration, catering and similar add-ons).
func (s *BookingService) AddSecondaryIncome(ctx context.Context, orgID, bookingID uint, input AddSecondaryIncomeInput) (*models.SecondaryIncome, error) {
	if !input.Amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	if _, err := s.findBooking(ctx, orgID, bookingID); err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		category, err := s.findCategory(ctx, orgID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category.Kind != models.CategoryKindSecondaryIncome && category.ParentID == nil {
			return nil, NewValidationError("category_id", "must be a secondary income category")
		}
	}

	date := input.IncomeDate
	if date.IsZero() {
		date = time.Now()
	}

	income := &models.SecondaryIncome{
		OrganizationID: orgID,
		BookingID:      bookingID,
		CategoryID:     input.CategoryID,
		Amount:         input.Amount,
		IncomeDate:     date,
		Description:    input.Description,
	}
	if err := s.repos.Payment.CreateSecondaryIncome(ctx, income); err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, orgID)
	return income, nil
}

// ListPayments returns the income rows recorded against a booking.
func (s *BookingService) ListPayments(ctx context.Context, orgID, bookingID uint) ([]models.Payment, error) {
	if _, err := s.findBooking(ctx, orgID, bookingID); err != nil {
		return nil, err
	}
	return s.repos.Payment.ListByBooking(ctx, orgID, bookingID)
}

// Confirm transitions a pending booking to confirmed.
func (s *BookingService) Confirm(ctx context.Context, orgID, bookingID uint) (*models.Booking, error) {
	booking, err := s.findBooking(ctx, orgID, bookingID)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewBookingFSM(booking)
	if err := fsm.Confirm(ctx); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.repos.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel transitions a booking to cancelled, excluding it from
// receivables and overlap checks from that point on.
func (s *BookingService) Cancel(ctx context.Context, orgID, bookingID uint) (*models.Booking, error) {
	booking, err := s.findBooking(ctx, orgID, bookingID)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewBookingFSM(booking)
	if err := fsm.Cancel(ctx); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.repos.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, orgID)
	return booking, nil
}

// invalidateReports drops the cached report payloads this write made
// stale. Best-effort: a failed invalidation only means a slightly
// longer-lived cache entry.
func (s *BookingService) invalidateReports(ctx context.Context, orgID uint) {
	_ = s.repos.ReportCache.Invalidate(ctx, orgID,
		models.CacheKeyFYSummary, models.CacheKeyCategoryBreakdown)
}

// refundRowFor resolves the income row a previously applied refund
// voucher wrote, so a replayed request gets the original result back.
func (s *BookingService) refundRowFor(ctx context.Context, orgID, bookingID uint, voucher *models.Voucher) (*models.Payment, error) {
	payments, err := s.repos.Payment.ListByBooking(ctx, orgID, bookingID)
	if err != nil {
		return nil, err
	}
	for i := len(payments) - 1; i >= 0; i-- {
		if payments[i].Amount.Equal(voucher.Amount.Neg()) {
			p := payments[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *BookingService) findBooking(ctx context.Context, orgID, bookingID uint) (*models.Booking, error) {
	booking, err := s.repos.Booking.FindByID(ctx, orgID, bookingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) findCategory(ctx context.Context, orgID, categoryID uint) (*models.Category, error) {
	category, err := s.repos.Category.FindByID(ctx, orgID, categoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *BookingService) findAccount(ctx context.Context, orgID, accountID uint) (*models.Account, error) {
	account, err := s.repos.Account.FindByID(ctx, orgID, accountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}
