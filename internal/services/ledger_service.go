package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
	"github.com/hallbook/hallbook-api/internal/repository"
	"github.com/hallbook/hallbook-api/pkg/logger"
)

// LedgerService maintains the invariant that every account's displayed
// balance equals its opening balance plus the signed sum of the
// financial vouchers touching it. All multi-row money movements run
// inside a single store transaction.
type LedgerService struct {
	repos *repository.Repositories

	// Serializes the recompute-then-write snapshot path per account.
	// One bookkeeper per venue is the expected load; this only closes
	// the window between concurrent writes to the same account.
	mu       sync.Mutex
	acctLock map[uint]*sync.Mutex
}

// NewLedgerService creates a new ledger service
func NewLedgerService(repos *repository.Repositories) *LedgerService {
	return &LedgerService{
		repos:    repos,
		acctLock: make(map[uint]*sync.Mutex),
	}
}

func (s *LedgerService) lockAccount(id uint) func() {
	s.mu.Lock()
	l, ok := s.acctLock[id]
	if !ok {
		l = &sync.Mutex{}
		s.acctLock[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// CreateAccountInput carries the fields for a new account
type CreateAccountInput struct {
	Name           string
	AccountType    string
	SubType        *string
	OpeningBalance decimal.Decimal
	IsDefault      bool
}

// CreateAccount validates and stores a new account. The initial balance
// snapshot is the opening balance since no vouchers exist yet.
func (s *LedgerService) CreateAccount(ctx context.Context, orgID uint, input CreateAccountInput) (*models.Account, error) {
	if input.Name == "" {
		return nil, NewValidationError("name", "is required")
	}
	if !models.ValidAccountType(input.AccountType) {
		return nil, NewValidationError("account_type", "must be operational, capital or other")
	}

	account := &models.Account{
		OrganizationID: orgID,
		Name:           input.Name,
		AccountType:    input.AccountType,
		SubType:        input.SubType,
		OpeningBalance: input.OpeningBalance,
		Balance:        input.OpeningBalance,
		IsDefault:      input.IsDefault,
	}
	if err := s.repos.Account.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListAccounts returns the organization's accounts with freshly folded
// balances. The stored snapshot is display-only; folding here keeps the
// listing correct even if a snapshot went stale.
func (s *LedgerService) ListAccounts(ctx context.Context, orgID uint) ([]models.Account, error) {
	accounts, err := s.repos.Account.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		balance, err := s.foldBalance(ctx, orgID, &accounts[i])
		if err != nil {
			return nil, err
		}
		accounts[i].Balance = balance
	}
	return accounts, nil
}

// Balance recomputes the account's balance from scratch: opening
// balance plus signed voucher fold. Reads have no side effects, so two
// calls with no intervening writes always agree.
func (s *LedgerService) Balance(ctx context.Context, orgID, accountID uint) (decimal.Decimal, error) {
	account, err := s.findAccount(ctx, orgID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.foldBalance(ctx, orgID, account)
}

func (s *LedgerService) foldBalance(ctx context.Context, orgID uint, account *models.Account) (decimal.Decimal, error) {
	sum, err := s.repos.Voucher.SumEffect(ctx, orgID, account.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.OpeningBalance.Add(sum), nil
}

// SetOpeningBalance updates the stored opening balance and refreshes
// the derived snapshot so the next display is already correct.
func (s *LedgerService) SetOpeningBalance(ctx context.Context, orgID, accountID uint, opening decimal.Decimal) (*models.Account, error) {
	unlock := s.lockAccount(accountID)
	defer unlock()

	account, err := s.findAccount(ctx, orgID, accountID)
	if err != nil {
		return nil, err
	}

	account.OpeningBalance = opening
	balance, err := s.foldBalance(ctx, orgID, account)
	if err != nil {
		return nil, err
	}
	account.Balance = balance

	if err := s.repos.Account.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// TransferInput carries the fields of a fund transfer
type TransferInput struct {
	FromAccountID  uint
	ToAccountID    uint
	Amount         decimal.Decimal
	Description    string
	Date           time.Time
	IdempotencyKey string
}

// Transfer moves money between two accounts. It writes a single
// fund_transfer voucher carrying both sides and refreshes both balance
// snapshots inside one store transaction: either everything commits or
// nothing does, so a failure can never strand money in flight.
func (s *LedgerService) Transfer(ctx context.Context, orgID uint, input TransferInput) (*models.Voucher, error) {
	if !input.Amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	if input.FromAccountID == input.ToAccountID {
		return nil, NewValidationError("to_account_id", "must differ from the source account")
	}

	// A retried request carrying the same key replays the stored result
	// instead of moving the money again.
	if input.IdempotencyKey != "" {
		if existing, err := s.repos.Voucher.FindByIdempotencyKey(ctx, orgID, input.IdempotencyKey); err == nil {
			return existing, nil
		}
	}

	from, err := s.findAccount(ctx, orgID, input.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.findAccount(ctx, orgID, input.ToAccountID)
	if err != nil {
		return nil, err
	}
	if from.Name == "" || to.Name == "" {
		return nil, NewValidationError("account", "both accounts must be named")
	}

	description := input.Description
	if description == "" {
		description = fmt.Sprintf("Transfer to %s", to.Name)
	}
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	refType := models.ReferenceTypeTransfer
	refID := to.ID
	key := input.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	voucher := &models.Voucher{
		OrganizationID: orgID,
		VoucherType:    models.VoucherTypeFundTransfer,
		FromAccountID:  &from.ID,
		ToAccountID:    &to.ID,
		Amount:         input.Amount,
		Description:    description,
		ReferenceType:  &refType,
		ReferenceID:    &refID,
		IsFinancial:    true,
		VoucherDate:    date,
		IdempotencyKey: &key,
	}

	// Lock in id order so two opposite transfers cannot deadlock
	first, second := from.ID, to.ID
	if second < first {
		first, second = second, first
	}
	unlockFirst := s.lockAccount(first)
	defer unlockFirst()
	unlockSecond := s.lockAccount(second)
	defer unlockSecond()

	err = s.repos.Atomically(ctx, func(tx *repository.Repositories) error {
		if err := tx.Voucher.Create(ctx, voucher); err != nil {
			return fmt.Errorf("create transfer voucher: %w", err)
		}
		return refreshAccountSnapshots(ctx, tx, orgID, from.ID, to.ID)
	})
	if err != nil {
		return nil, err
	}
	return voucher, nil
}

// VoucherInput carries the fields of a manually recorded voucher
type VoucherInput struct {
	VoucherType   string
	FromAccountID *uint
	ToAccountID   *uint
	Amount        decimal.Decimal
	Description   string
	ReferenceType *string
	ReferenceID   *uint
	IsFinancial   *bool
	Date          time.Time
}

// RecordVoucher validates and stores a single voucher, then refreshes
// the snapshots of the touched accounts in the same transaction.
func (s *LedgerService) RecordVoucher(ctx context.Context, orgID uint, input VoucherInput) (*models.Voucher, error) {
	if !models.ValidVoucherType(input.VoucherType) {
		return nil, NewValidationError("voucher_type", "unknown voucher type")
	}
	if !input.Amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	if input.FromAccountID == nil && input.ToAccountID == nil {
		return nil, NewValidationError("account", "at least one side is required")
	}

	var touched []uint
	for _, id := range []*uint{input.FromAccountID, input.ToAccountID} {
		if id == nil {
			continue
		}
		if _, err := s.findAccount(ctx, orgID, *id); err != nil {
			return nil, err
		}
		touched = append(touched, *id)
	}

	isFinancial := true
	if input.IsFinancial != nil {
		isFinancial = *input.IsFinancial
	}
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	voucher := &models.Voucher{
		OrganizationID: orgID,
		VoucherType:    input.VoucherType,
		FromAccountID:  input.FromAccountID,
		ToAccountID:    input.ToAccountID,
		Amount:         input.Amount,
		Description:    input.Description,
		ReferenceType:  input.ReferenceType,
		ReferenceID:    input.ReferenceID,
		IsFinancial:    isFinancial,
		VoucherDate:    date,
	}

	err := s.repos.Atomically(ctx, func(tx *repository.Repositories) error {
		if err := tx.Voucher.Create(ctx, voucher); err != nil {
			return err
		}
		return refreshAccountSnapshots(ctx, tx, orgID, touched...)
	})
	if err != nil {
		return nil, err
	}
	return voucher, nil
}

// LedgerLine is one statement row for an account, with the running
// balance after the voucher applied.
type LedgerLine struct {
	Voucher        models.VoucherResponse `json:"voucher"`
	RunningBalance decimal.Decimal        `json:"running_balance"`
}

// AccountLedger renders the account statement: every voucher touching
// the account, oldest first, with a running balance starting from the
// opening balance.
func (s *LedgerService) AccountLedger(ctx context.Context, orgID, accountID uint) ([]LedgerLine, error) {
	account, err := s.findAccount(ctx, orgID, accountID)
	if err != nil {
		return nil, err
	}

	vouchers, err := s.repos.Voucher.ListByAccount(ctx, orgID, accountID)
	if err != nil {
		return nil, err
	}

	lines := make([]LedgerLine, 0, len(vouchers))
	running := account.OpeningBalance
	for i := range vouchers {
		v := &vouchers[i]
		running = running.Add(v.EffectOn(accountID))
		lines = append(lines, LedgerLine{
			Voucher:        v.ToResponseFor(accountID),
			RunningBalance: running,
		})
	}
	return lines, nil
}

// DeleteAccount removes an account, refusing while vouchers still
// reference it.
func (s *LedgerService) DeleteAccount(ctx context.Context, orgID, accountID uint) error {
	if _, err := s.findAccount(ctx, orgID, accountID); err != nil {
		return err
	}
	count, err := s.repos.Voucher.CountByAccount(ctx, orgID, accountID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrInvalidState
	}
	return s.repos.Account.Delete(ctx, orgID, accountID)
}

// ReconcileBalances refolds every account snapshot and logs any drift
// between the stored and computed value. Runs on a schedule.
func (s *LedgerService) ReconcileBalances(ctx context.Context) error {
	accounts, err := s.repos.Account.ListAll(ctx)
	if err != nil {
		return err
	}

	for i := range accounts {
		a := &accounts[i]
		balance, err := s.foldBalance(ctx, a.OrganizationID, a)
		if err != nil {
			return err
		}
		if balance.Equal(a.Balance) {
			continue
		}
		logger.Warn("Account balance drift detected",
			"account_id", a.ID,
			"stored", a.Balance.String(),
			"computed", balance.String())
		if err := s.repos.Account.UpdateBalance(ctx, a.OrganizationID, a.ID, balance); err != nil {
			return err
		}
	}
	return nil
}

// refreshAccountSnapshots refolds and persists the balance snapshot for
// each account id, inside the caller's transaction when one is active.
// Shared by every service that writes vouchers.
func refreshAccountSnapshots(ctx context.Context, tx *repository.Repositories, orgID uint, accountIDs ...uint) error {
	for _, id := range accountIDs {
		account, err := tx.Account.FindByID(ctx, orgID, id)
		if err != nil {
			return err
		}
		sum, err := tx.Voucher.SumEffect(ctx, orgID, id)
		if err != nil {
			return err
		}
		if err := tx.Account.UpdateBalance(ctx, orgID, id, account.OpeningBalance.Add(sum)); err != nil {
			return err
		}
	}
	return nil
}

func (s *LedgerService) findAccount(ctx context.Context, orgID, accountID uint) (*models.Account, error) {
	account, err := s.repos.Account.FindByID(ctx, orgID, accountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}
