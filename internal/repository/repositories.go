package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	db *gorm.DB

	User        UserRepository
	Account     AccountRepository
	Voucher     VoucherRepository
	Booking     BookingRepository
	Payment     PaymentRepository
	Category    CategoryRepository
	Vendor      VendorRepository
	Expense     ExpenseRepository
	ReportCache ReportCacheRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		User:        NewUserRepository(db),
		Account:     NewAccountRepository(db),
		Voucher:     NewVoucherRepository(db),
		Booking:     NewBookingRepository(db),
		Payment:     NewPaymentRepository(db),
		Category:    NewCategoryRepository(db),
		Vendor:      NewVendorRepository(db),
		Expense:     NewExpenseRepository(db),
		ReportCache: NewReportCacheRepository(db),
	}
}

// Atomically runs fn inside a single database transaction, handing it a
// Repositories bound to that transaction. Any error rolls back every
// write, so multi-row money flows (transfer, payment + counter update,
// refund, expense mark-paid) either fully commit or leave no trace.
//
// When constructed without a database (unit tests wiring mock
// repositories), fn runs against the receiver directly.
func (r *Repositories) Atomically(ctx context.Context, fn func(tx *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
