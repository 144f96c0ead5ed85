package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallbook/hallbook-api/internal/models"
)

const testOrgID = uint(1)

func money(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func seedAccount(t *testing.T, env *testEnv, name string, opening decimal.Decimal) *models.Account {
	t.Helper()
	account := &models.Account{
		OrganizationID: testOrgID,
		Name:           name,
		AccountType:    models.AccountTypeOperational,
		OpeningBalance: opening,
		Balance:        opening,
	}
	require.NoError(t, env.accounts.Create(context.Background(), account))
	return account
}

func TestCreateAccountValidation(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)

	_, err := svc.CreateAccount(context.Background(), testOrgID, CreateAccountInput{
		Name: "", AccountType: models.AccountTypeOperational,
	})
	assert.True(t, IsValidation(err))

	_, err = svc.CreateAccount(context.Background(), testOrgID, CreateAccountInput{
		Name: "Cash", AccountType: "savings",
	})
	assert.True(t, IsValidation(err))

	account, err := svc.CreateAccount(context.Background(), testOrgID, CreateAccountInput{
		Name:           "Cash",
		AccountType:    models.AccountTypeOperational,
		OpeningBalance: money("5000"),
	})
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(money("5000")))
}

func TestBalanceFoldsOpeningAndVouchers(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	account := seedAccount(t, env, "Bank", money("10000"))

	_, err := svc.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType: models.VoucherTypeReceipt,
		ToAccountID: &account.ID,
		Amount:      money("2500"),
		Description: "rent received",
	})
	require.NoError(t, err)

	_, err = svc.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType:   models.VoucherTypePayment,
		FromAccountID: &account.ID,
		Amount:        money("800"),
		Description:   "electricity",
	})
	require.NoError(t, err)

	balance, err := svc.Balance(context.Background(), testOrgID, account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(money("11700")), "got %s", balance)

	// The stored snapshot is refreshed inside the same write.
	stored, _ := env.accounts.FindByID(context.Background(), testOrgID, account.ID)
	assert.True(t, stored.Balance.Equal(money("11700")))
}

func TestTransferWritesSingleVoucher(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	from := seedAccount(t, env, "Cash", money("10000"))
	to := seedAccount(t, env, "Bank", money("0"))

	voucher, err := svc.Transfer(context.Background(), testOrgID, TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        money("3000"),
		Description:   "deposit",
	})
	require.NoError(t, err)

	assert.Equal(t, models.VoucherTypeFundTransfer, voucher.VoucherType)
	assert.Len(t, env.vouchers.vouchers, 1)

	// One voucher carries both sides and the effects cancel out.
	effect := voucher.EffectOn(from.ID).Add(voucher.EffectOn(to.ID))
	assert.True(t, effect.IsZero())

	fromStored, _ := env.accounts.FindByID(context.Background(), testOrgID, from.ID)
	toStored, _ := env.accounts.FindByID(context.Background(), testOrgID, to.ID)
	assert.True(t, fromStored.Balance.Equal(money("7000")))
	assert.True(t, toStored.Balance.Equal(money("3000")))
}

func TestTransferRejectsSameAccount(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	account := seedAccount(t, env, "Cash", money("1000"))

	_, err := svc.Transfer(context.Background(), testOrgID, TransferInput{
		FromAccountID: account.ID,
		ToAccountID:   account.ID,
		Amount:        money("100"),
	})
	assert.True(t, IsValidation(err))
	assert.Empty(t, env.vouchers.vouchers)
}

func TestTransferFailureLeavesBalancesUntouched(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	from := seedAccount(t, env, "Cash", money("10000"))
	to := seedAccount(t, env, "Bank", money("0"))

	env.vouchers.createErr = errors.New("store down")
	_, err := svc.Transfer(context.Background(), testOrgID, TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        money("3000"),
	})
	require.Error(t, err)

	fromStored, _ := env.accounts.FindByID(context.Background(), testOrgID, from.ID)
	toStored, _ := env.accounts.FindByID(context.Background(), testOrgID, to.ID)
	assert.True(t, fromStored.Balance.Equal(money("10000")))
	assert.True(t, toStored.Balance.Equal(money("0")))
}

func TestSetOpeningBalanceRecomputesSnapshot(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	account := seedAccount(t, env, "Bank", money("1000"))

	_, err := svc.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType: models.VoucherTypeReceipt,
		ToAccountID: &account.ID,
		Amount:      money("500"),
	})
	require.NoError(t, err)

	updated, err := svc.SetOpeningBalance(context.Background(), testOrgID, account.ID, money("2000"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(money("2500")), "got %s", updated.Balance)
}

func TestRecordVoucherValidation(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	account := seedAccount(t, env, "Cash", money("0"))

	_, err := svc.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType: "journal",
		ToAccountID: &account.ID,
		Amount:      money("10"),
	})
	assert.True(t, IsValidation(err))

	_, err = svc.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType: models.VoucherTypeReceipt,
		ToAccountID: &account.ID,
		Amount:      money("-10"),
	})
	assert.True(t, IsValidation(err))
}

func TestAccrualVoucherDoesNotMoveMoney(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	account := seedAccount(t, env, "Bank", money("5000"))

	isFinancial := false
	_, err := svc.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType:   models.VoucherTypePurchase,
		FromAccountID: &account.ID,
		Amount:        money("1200"),
		IsFinancial:   &isFinancial,
	})
	require.NoError(t, err)

	balance, err := svc.Balance(context.Background(), testOrgID, account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(money("5000")))
}

func TestDeleteAccountWithVouchersForbidden(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	account := seedAccount(t, env, "Cash", money("0"))

	_, err := svc.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType: models.VoucherTypeReceipt,
		ToAccountID: &account.ID,
		Amount:      money("10"),
	})
	require.NoError(t, err)

	err = svc.DeleteAccount(context.Background(), testOrgID, account.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReconcileBalances(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	account := seedAccount(t, env, "Bank", money("1000"))

	to := account.ID
	require.NoError(t, env.vouchers.Create(context.Background(), &models.Voucher{
		OrganizationID: testOrgID,
		VoucherType:    models.VoucherTypeReceipt,
		ToAccountID:    &to,
		Amount:         money("400"),
		IsFinancial:    true,
		VoucherDate:    time.Now(),
	}))

	// Drift the snapshot, then reconcile it back from the voucher log.
	require.NoError(t, env.accounts.UpdateBalance(context.Background(), testOrgID, account.ID, money("9999")))
	require.NoError(t, svc.ReconcileBalances(context.Background()))

	stored, _ := env.accounts.FindByID(context.Background(), testOrgID, account.ID)
	assert.True(t, stored.Balance.Equal(money("1400")), "got %s", stored.Balance)
}

func TestAccountLedgerRunningBalance(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	account := seedAccount(t, env, "Bank", money("1000"))

	_, err := svc.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType: models.VoucherTypeReceipt,
		ToAccountID: &account.ID,
		Amount:      money("500"),
	})
	require.NoError(t, err)
	_, err = svc.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType:   models.VoucherTypePayment,
		FromAccountID: &account.ID,
		Amount:        money("200"),
	})
	require.NoError(t, err)

	lines, err := svc.AccountLedger(context.Background(), testOrgID, account.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, lines[0].RunningBalance.Equal(money("1500")))
	assert.True(t, lines[1].RunningBalance.Equal(money("1300")))
}

// End-to-end walk across accounts, transfers and a booking payment.
func TestLedgerAndBookingEndToEnd(t *testing.T) {
	env := newTestEnv()
	ledger := NewLedgerService(env.repos)
	bookings := NewBookingService(env.repos)

	cash := seedAccount(t, env, "Cash", money("1000"))
	bank := seedAccount(t, env, "Bank", money("0"))

	_, err := ledger.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType: models.VoucherTypeSales,
		ToAccountID: &cash.ID,
		Amount:      money("500"),
		Description: "sale",
	})
	require.NoError(t, err)
	_, err = ledger.RecordVoucher(context.Background(), testOrgID, VoucherInput{
		VoucherType:   models.VoucherTypePayment,
		FromAccountID: &cash.ID,
		Amount:        money("200"),
		Description:   "expense",
	})
	require.NoError(t, err)

	balance, err := ledger.Balance(context.Background(), testOrgID, cash.ID)
	require.NoError(t, err)
	require.True(t, balance.Equal(money("1300")), "got %s", balance)

	_, err = ledger.Transfer(context.Background(), testOrgID, TransferInput{
		FromAccountID: cash.ID,
		ToAccountID:   bank.ID,
		Amount:        money("300"),
	})
	require.NoError(t, err)

	cashBalance, _ := ledger.Balance(context.Background(), testOrgID, cash.ID)
	bankBalance, _ := ledger.Balance(context.Background(), testOrgID, bank.ID)
	assert.True(t, cashBalance.Equal(money("1000")), "got %s", cashBalance)
	assert.True(t, bankBalance.Equal(money("300")), "got %s", bankBalance)

	booking, err := bookings.Create(context.Background(), testOrgID, CreateBookingInput{
		EventName:     "Mehta Reception",
		ClientName:    "P. Mehta",
		StartsAt:      day(20),
		EndsAt:        day(21),
		RentFinalized: money("10000"),
	})
	require.NoError(t, err)

	_, err = bookings.AddPayment(context.Background(), testOrgID, booking.ID, AddPaymentInput{
		Amount:     money("4000"),
		CategoryID: env.categories.byKind(models.CategoryKindRent, models.CategoryTypeIncome),
		AccountID:  bank.ID,
	})
	require.NoError(t, err)

	stored, _ := env.bookings.FindByID(context.Background(), testOrgID, booking.ID)
	assert.True(t, stored.RentReceived.Equal(money("4000")))
	assert.True(t, stored.RemainingBalance().Equal(money("6000")))

	bankBalance, _ = ledger.Balance(context.Background(), testOrgID, bank.ID)
	assert.True(t, bankBalance.Equal(money("4300")), "got %s", bankBalance)
}

func TestTransferReplaysByIdempotencyKey(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	from := seedAccount(t, env, "Cash", money("10000"))
	to := seedAccount(t, env, "Bank", money("0"))

	input := TransferInput{
		FromAccountID:  from.ID,
		ToAccountID:    to.ID,
		Amount:         money("3000"),
		Date:           day(5),
		IdempotencyKey: "tr-2026-0001",
	}
	first, err := svc.Transfer(context.Background(), testOrgID, input)
	require.NoError(t, err)

	// A retry with the same key returns the stored voucher and moves
	// nothing a second time.
	second, err := svc.Transfer(context.Background(), testOrgID, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, env.vouchers.vouchers, 1)

	fromStored, _ := env.accounts.FindByID(context.Background(), testOrgID, from.ID)
	toStored, _ := env.accounts.FindByID(context.Background(), testOrgID, to.ID)
	assert.True(t, fromStored.Balance.Equal(money("7000")))
	assert.True(t, toStored.Balance.Equal(money("3000")))
}

func TestTransferDescriptionRendersPerSide(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.repos)
	cash := seedAccount(t, env, "Cash", money("5000"))
	bank := seedAccount(t, env, "Bank", money("0"))

	_, err := svc.Transfer(context.Background(), testOrgID, TransferInput{
		FromAccountID: cash.ID,
		ToAccountID:   bank.ID,
		Amount:        money("1000"),
	})
	require.NoError(t, err)

	cashLines, err := svc.AccountLedger(context.Background(), testOrgID, cash.ID)
	require.NoError(t, err)
	require.Len(t, cashLines, 1)
	assert.Equal(t, "Transfer to Bank", cashLines[0].Voucher.Description)

	bankLines, err := svc.AccountLedger(context.Background(), testOrgID, bank.ID)
	require.NoError(t, err)
	require.Len(t, bankLines, 1)
	assert.Equal(t, "Transfer from Cash", bankLines[0].Voucher.Description)

	// A caller-supplied description is kept as written on both sides.
	_, err = svc.Transfer(context.Background(), testOrgID, TransferInput{
		FromAccountID: cash.ID,
		ToAccountID:   bank.ID,
		Amount:        money("500"),
		Description:   "monthly sweep",
	})
	require.NoError(t, err)

	bankLines, err = svc.AccountLedger(context.Background(), testOrgID, bank.ID)
	require.NoError(t, err)
	require.Len(t, bankLines, 2)
	assert.Equal(t, "monthly sweep", bankLines[1].Voucher.Description)
}
