package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
	"github.com/hallbook/hallbook-api/internal/repository"
	"github.com/hallbook/hallbook-api/internal/storage"
)

// ExpenseService owns vendor purchases. Creating an expense writes a
// non-financial purchase voucher so the books show the payable; paying
// it writes the financial payment voucher that moves the account. Once
// paid, an expense is read-only.
type ExpenseService struct {
	repos   *repository.Repositories
	storage *storage.LocalStorage
}

// NewExpenseService creates a new expense service
func NewExpenseService(repos *repository.Repositories, store *storage.LocalStorage) *ExpenseService {
	return &ExpenseService{repos: repos, storage: store}
}

// ExpenseInput carries the editable fields of an expense
type ExpenseInput struct {
	VendorID    *uint
	VendorName  string
	BillNumber  string
	CategoryID  uint
	Amount      decimal.Decimal
	CGSTPct     decimal.Decimal
	SGSTPct     decimal.Decimal
	ExpenseDate time.Time
}

// Create validates and stores an expense together with its accrual
// purchase voucher. Tax amounts and the total are always recomputed
// here; client-supplied totals are ignored.
func (s *ExpenseService) Create(ctx context.Context, orgID uint, input ExpenseInput) (*models.Expense, error) {
	expense, err := s.buildExpense(ctx, orgID, input)
	if err != nil {
		return nil, err
	}

	err = s.repos.Atomically(ctx, func(tx *repository.Repositories) error {
		if err := tx.Expense.Create(ctx, expense); err != nil {
			return err
		}
		return tx.Voucher.Create(ctx, accrualVoucher(expense))
	})
	if err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, orgID)
	return expense, nil
}

// Update rewrites an unpaid expense and its accrual voucher. Paid
// expenses are immutable.
func (s *ExpenseService) Update(ctx context.Context, orgID, expenseID uint, input ExpenseInput) (*models.Expense, error) {
	expense, err := s.findExpense(ctx, orgID, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.MayEdit() {
		return nil, ErrInvalidState
	}

	updated, err := s.buildExpense(ctx, orgID, input)
	if err != nil {
		return nil, err
	}
	expense.VendorID = updated.VendorID
	expense.VendorName = updated.VendorName
	expense.BillNumber = updated.BillNumber
	expense.CategoryID = updated.CategoryID
	expense.Amount = updated.Amount
	expense.CGSTPct = updated.CGSTPct
	expense.SGSTPct = updated.SGSTPct
	expense.ExpenseDate = updated.ExpenseDate
	expense.ComputeTotals()

	err = s.repos.Atomically(ctx, func(tx *repository.Repositories) error {
		if err := tx.Expense.Update(ctx, expense); err != nil {
			return err
		}
		// Accrual voucher tracks the editable total: replace it
		if err := tx.Voucher.DeleteByReference(ctx, orgID, models.ReferenceTypeExpense, expense.ID); err != nil {
			return err
		}
		return tx.Voucher.Create(ctx, accrualVoucher(expense))
	})
	if err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, orgID)
	return expense, nil
}

// MarkPaid settles an expense from the chosen account: the paid flag,
// the payment voucher debiting the account and the balance snapshot all
// move in one transaction.
func (s *ExpenseService) MarkPaid(ctx context.Context, orgID, expenseID, accountID uint, paymentDate time.Time, idempotencyKey string) (*models.Expense, error) {
	expense, err := s.findExpense(ctx, orgID, expenseID)
	if err != nil {
		return nil, err
	}
	// A retried request carrying the same key finds its own payment
	// voucher and replays the settled expense instead of failing on the
	// is_paid check.
	if idempotencyKey != "" {
		if _, err := s.repos.Voucher.FindByIdempotencyKey(ctx, orgID, idempotencyKey); err == nil {
			return expense, nil
		}
	}
	if expense.IsPaid {
		return nil, ErrInvalidState
	}
	account, err := s.repos.Account.FindByID(ctx, orgID, accountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	expense.IsPaid = true
	expense.AccountID = &account.ID
	expense.PaymentDate = &paymentDate

	refType := models.ReferenceTypeExpense
	key := idempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	voucher := &models.Voucher{
		OrganizationID: orgID,
		VoucherType:    models.VoucherTypePayment,
		FromAccountID:  &account.ID,
		Amount:         expense.TotalAmount,
		Description:    fmt.Sprintf("Payment to %s for bill %s", expense.VendorName, expense.BillNumber),
		ReferenceType:  &refType,
		ReferenceID:    &expense.ID,
		IsFinancial:    true,
		VoucherDate:    paymentDate,
		IdempotencyKey: &key,
	}

	err = s.repos.Atomically(ctx, func(tx *repository.Repositories) error {
		if err := tx.Expense.Update(ctx, expense); err != nil {
			return err
		}
		if err := tx.Voucher.Create(ctx, voucher); err != nil {
			return err
		}
		return refreshAccountSnapshots(ctx, tx, orgID, account.ID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, orgID)
	return expense, nil
}

// Get returns one expense.
func (s *ExpenseService) Get(ctx context.Context, orgID, expenseID uint) (*models.Expense, error) {
	return s.findExpense(ctx, orgID, expenseID)
}

// List returns every expense for the organization, newest first.
func (s *ExpenseService) List(ctx context.Context, orgID uint) ([]models.Expense, error) {
	return s.repos.Expense.List(ctx, orgID)
}

// Delete removes an unpaid expense and its accrual voucher. Paid
// expenses stay on the books.
func (s *ExpenseService) Delete(ctx context.Context, orgID, expenseID uint) error {
	expense, err := s.findExpense(ctx, orgID, expenseID)
	if err != nil {
		return err
	}
	if expense.IsPaid {
		return ErrInvalidState
	}

	err = s.repos.Atomically(ctx, func(tx *repository.Repositories) error {
		if err := tx.Voucher.DeleteByReference(ctx, orgID, models.ReferenceTypeExpense, expense.ID); err != nil {
			return err
		}
		return tx.Expense.Delete(ctx, orgID, expense.ID)
	})
	if err != nil {
		return err
	}

	if expense.BillPath != nil && *expense.BillPath != "" {
		_ = s.storage.Delete(*expense.BillPath)
	}
	s.invalidateReports(ctx, orgID)
	return nil
}

// AttachBill stores the uploaded bill file and links it to the expense.
// Re-uploading replaces the previous file.
func (s *ExpenseService) AttachBill(ctx context.Context, orgID, expenseID uint, file multipart.File, header *multipart.FileHeader) (*models.Expense, error) {
	expense, err := s.findExpense(ctx, orgID, expenseID)
	if err != nil {
		return nil, err
	}
	if header.Size > storage.MaxFileSize() {
		return nil, NewValidationError("bill", "file exceeds the maximum size")
	}
	if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
		return nil, NewValidationError("bill", "only PDF and image uploads are accepted")
	}

	path, err := s.storage.Upload(file, header, "bills")
	if err != nil {
		return nil, err
	}

	old := expense.BillPath
	expense.BillPath = &path
	if err := s.repos.Expense.Update(ctx, expense); err != nil {
		_ = s.storage.Delete(path)
		return nil, err
	}
	if old != nil && *old != "" {
		_ = s.storage.Delete(*old)
	}
	return expense, nil
}

// BillFile opens the stored bill for download.
func (s *ExpenseService) BillFile(ctx context.Context, orgID, expenseID uint) (*os.File, error) {
	expense, err := s.findExpense(ctx, orgID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.BillPath == nil || *expense.BillPath == "" {
		return nil, ErrNotFound
	}
	return s.storage.Download(*expense.BillPath)
}

// buildExpense validates the input and assembles an expense with its
// derived totals.
func (s *ExpenseService) buildExpense(ctx context.Context, orgID uint, input ExpenseInput) (*models.Expense, error) {
	if !input.Amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	if input.CGSTPct.IsNegative() || input.SGSTPct.IsNegative() {
		return nil, NewValidationError("tax", "percentages cannot be negative")
	}

	category, err := s.repos.Category.FindByID(ctx, orgID, input.CategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if category.CategoryType != models.CategoryTypeExpense {
		return nil, NewValidationError("category_id", "must be an expense category")
	}

	vendorName := input.VendorName
	if input.VendorID != nil {
		vendor, err := s.repos.Vendor.FindByID(ctx, orgID, *input.VendorID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if vendorName == "" {
			vendorName = vendor.BusinessName
		}
	}
	if vendorName == "" {
		return nil, NewValidationError("vendor_name", "is required")
	}

	date := input.ExpenseDate
	if date.IsZero() {
		date = time.Now()
	}

	expense := &models.Expense{
		OrganizationID: orgID,
		VendorID:       input.VendorID,
		VendorName:     vendorName,
		BillNumber:     input.BillNumber,
		CategoryID:     category.ID,
		Amount:         input.Amount,
		CGSTPct:        input.CGSTPct,
		SGSTPct:        input.SGSTPct,
		ExpenseDate:    date,
	}
	expense.ComputeTotals()
	return expense, nil
}

// accrualVoucher records the payable the moment the expense exists.
// It is non-financial: account balances only move when the bill is paid.
func accrualVoucher(expense *models.Expense) *models.Voucher {
	refType := models.ReferenceTypeExpense
	return &models.Voucher{
		OrganizationID: expense.OrganizationID,
		VoucherType:    models.VoucherTypePurchase,
		Amount:         expense.TotalAmount,
		Description:    fmt.Sprintf("Purchase from %s", expense.VendorName),
		ReferenceType:  &refType,
		ReferenceID:    &expense.ID,
		IsFinancial:    false,
		VoucherDate:    expense.ExpenseDate,
	}
}

func (s *ExpenseService) invalidateReports(ctx context.Context, orgID uint) {
	_ = s.repos.ReportCache.Invalidate(ctx, orgID,
		models.CacheKeyFYSummary, models.CacheKeyCategoryBreakdown, models.CacheKeyVendorPayables)
}

func (s *ExpenseService) findExpense(ctx context.Context, orgID, expenseID uint) (*models.Expense, error) {
	expense, err := s.repos.Expense.FindByID(ctx, orgID, expenseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return expense, nil
}
