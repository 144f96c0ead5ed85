package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallbook/hallbook-api/internal/models"
)

func expenseCategoryID(env *testEnv) uint {
	return env.categories.byKind(models.CategoryKindOther, models.CategoryTypeExpense)
}

func TestCreateExpenseComputesTotals(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.repos, nil)

	expense, err := svc.Create(context.Background(), testOrgID, ExpenseInput{
		VendorName:  "Sound Co",
		CategoryID:  expenseCategoryID(env),
		Amount:      money("10000"),
		CGSTPct:     money("9"),
		SGSTPct:     money("9"),
		ExpenseDate: day(5),
	})
	require.NoError(t, err)

	assert.True(t, expense.CGSTAmount.Equal(money("900")))
	assert.True(t, expense.SGSTAmount.Equal(money("900")))
	assert.True(t, expense.TotalAmount.Equal(money("11800")))
	assert.False(t, expense.IsPaid)

	// The accrual voucher tracks the payable but moves no money.
	require.Len(t, env.vouchers.vouchers, 1)
	voucher := env.vouchers.vouchers[0]
	assert.Equal(t, models.VoucherTypePurchase, voucher.VoucherType)
	assert.False(t, voucher.IsFinancial)
	assert.True(t, voucher.Amount.Equal(money("11800")))
}

func TestCreateExpenseValidation(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.repos, nil)

	_, err := svc.Create(context.Background(), testOrgID, ExpenseInput{
		VendorName: "Sound Co", CategoryID: expenseCategoryID(env), Amount: money("0"),
	})
	assert.True(t, IsValidation(err))

	// Income categories cannot take expenses.
	rentCat := env.categories.byKind(models.CategoryKindRent, models.CategoryTypeIncome)
	_, err = svc.Create(context.Background(), testOrgID, ExpenseInput{
		VendorName: "Sound Co", CategoryID: rentCat, Amount: money("500"),
	})
	assert.True(t, IsValidation(err))
}

func TestUpdateExpenseReplacesAccrualVoucher(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.repos, nil)

	expense, err := svc.Create(context.Background(), testOrgID, ExpenseInput{
		VendorName:  "Sound Co",
		CategoryID:  expenseCategoryID(env),
		Amount:      money("10000"),
		ExpenseDate: day(5),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), testOrgID, expense.ID, ExpenseInput{
		VendorName:  "Sound Co",
		CategoryID:  expenseCategoryID(env),
		Amount:      money("12000"),
		ExpenseDate: day(5),
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(money("12000")))

	// Still exactly one accrual voucher, carrying the new total.
	require.Len(t, env.vouchers.vouchers, 1)
	assert.True(t, env.vouchers.vouchers[0].Amount.Equal(money("12000")))
}

func TestMarkPaidMovesMoneyOnce(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.repos, nil)
	account := seedAccount(t, env, "Bank", money("50000"))

	expense, err := svc.Create(context.Background(), testOrgID, ExpenseInput{
		VendorName:  "Sound Co",
		CategoryID:  expenseCategoryID(env),
		Amount:      money("10000"),
		ExpenseDate: day(5),
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), testOrgID, expense.ID, account.ID, day(8), "")
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaymentDate)

	stored, _ := env.accounts.FindByID(context.Background(), testOrgID, account.ID)
	assert.True(t, stored.Balance.Equal(money("40000")), "got %s", stored.Balance)

	// Marking paid again is rejected and the balance stays put.
	_, err = svc.MarkPaid(context.Background(), testOrgID, expense.ID, account.ID, day(9), "")
	assert.ErrorIs(t, err, ErrInvalidState)
	stored, _ = env.accounts.FindByID(context.Background(), testOrgID, account.ID)
	assert.True(t, stored.Balance.Equal(money("40000")))
}

func TestPaidExpenseIsImmutable(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.repos, nil)
	account := seedAccount(t, env, "Bank", money("50000"))

	expense, err := svc.Create(context.Background(), testOrgID, ExpenseInput{
		VendorName:  "Sound Co",
		CategoryID:  expenseCategoryID(env),
		Amount:      money("10000"),
		ExpenseDate: day(5),
	})
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), testOrgID, expense.ID, account.ID, day(8), "")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), testOrgID, expense.ID, ExpenseInput{
		VendorName:  "Sound Co",
		CategoryID:  expenseCategoryID(env),
		Amount:      money("1"),
		ExpenseDate: day(5),
	})
	assert.ErrorIs(t, err, ErrInvalidState)

	err = svc.Delete(context.Background(), testOrgID, expense.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDeleteUnpaidExpenseRemovesVoucher(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.repos, nil)

	expense, err := svc.Create(context.Background(), testOrgID, ExpenseInput{
		VendorName:  "Sound Co",
		CategoryID:  expenseCategoryID(env),
		Amount:      money("10000"),
		ExpenseDate: day(5),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), testOrgID, expense.ID))
	assert.Empty(t, env.vouchers.vouchers)

	_, err = svc.Get(context.Background(), testOrgID, expense.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpenseVendorNameFromVendor(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.repos, nil)

	vendor := &models.Vendor{OrganizationID: testOrgID, BusinessName: "DJ Sounds Pvt Ltd"}
	require.NoError(t, env.vendors.Create(context.Background(), vendor))

	expense, err := svc.Create(context.Background(), testOrgID, ExpenseInput{
		VendorID:    &vendor.ID,
		CategoryID:  expenseCategoryID(env),
		Amount:      money("500"),
		ExpenseDate: day(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "DJ Sounds Pvt Ltd", expense.VendorName)
}

func TestMarkPaidSetsDefaultPaymentDate(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.repos, nil)
	account := seedAccount(t, env, "Bank", money("50000"))

	expense, err := svc.Create(context.Background(), testOrgID, ExpenseInput{
		VendorName:  "Sound Co",
		CategoryID:  expenseCategoryID(env),
		Amount:      money("100"),
		ExpenseDate: day(5),
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), testOrgID, expense.ID, account.ID, time.Time{}, "")
	require.NoError(t, err)
	require.NotNil(t, paid.PaymentDate)
	assert.WithinDuration(t, time.Now(), *paid.PaymentDate, time.Minute)
}

func TestMarkPaidReplaysByIdempotencyKey(t *testing.T) {
	env := newTestEnv()
	svc := NewExpenseService(env.repos, nil)
	account := seedAccount(t, env, "Bank", money("50000"))

	expense, err := svc.Create(context.Background(), testOrgID, ExpenseInput{
		VendorName:  "Sound Co",
		CategoryID:  expenseCategoryID(env),
		Amount:      money("10000"),
		ExpenseDate: day(5),
	})
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), testOrgID, expense.ID, account.ID, day(8), "mp-2026-0001")
	require.NoError(t, err)
	vouchersBefore := len(env.vouchers.vouchers)

	// A retry with the same key gets the settled expense back instead of
	// an invalid-state error, and the account is debited only once.
	paid, err := svc.MarkPaid(context.Background(), testOrgID, expense.ID, account.ID, day(9), "mp-2026-0001")
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	assert.Len(t, env.vouchers.vouchers, vouchersBefore)
	stored, _ := env.accounts.FindByID(context.Background(), testOrgID, account.ID)
	assert.True(t, stored.Balance.Equal(money("40000")))
}
