package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hallbook/hallbook-api/internal/models"
	"github.com/hallbook/hallbook-api/internal/repository"
)

// In-memory fakes backing the service tests. Constructed without a
// database, Repositories.Atomically runs the callback directly, so the
// write ordering inside money flows is observable through these fakes.

type fakeAccountRepo struct {
	repository.AccountRepository
	accounts  map[uint]*models.Account
	nextID    uint
	createErr error
	updateErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[uint]*models.Account{}, nextID: 1}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	account.ID = f.nextID
	f.nextID++
	cp := *account
	f.accounts[account.ID] = &cp
	return nil
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Account, error) {
	a, ok := f.accounts[id]
	if !ok || a.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountRepo) List(ctx context.Context, orgID uint) ([]models.Account, error) {
	var out []models.Account
	for id := uint(1); id < f.nextID; id++ {
		if a, ok := f.accounts[id]; ok && a.OrganizationID == orgID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) ListAll(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	for id := uint(1); id < f.nextID; id++ {
		if a, ok := f.accounts[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, account *models.Account) error {
	cp := *account
	f.accounts[account.ID] = &cp
	return nil
}

func (f *fakeAccountRepo) UpdateBalance(ctx context.Context, orgID, id uint, balance decimal.Decimal) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.accounts[id]
	if !ok || a.OrganizationID != orgID {
		return gorm.ErrRecordNotFound
	}
	a.Balance = balance
	return nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, orgID, id uint) error {
	delete(f.accounts, id)
	return nil
}

type fakeVoucherRepo struct {
	repository.VoucherRepository
	vouchers  []models.Voucher
	accounts  *fakeAccountRepo
	nextID    uint
	createErr error
}

func newFakeVoucherRepo(accounts *fakeAccountRepo) *fakeVoucherRepo {
	return &fakeVoucherRepo{accounts: accounts, nextID: 1}
}

func (f *fakeVoucherRepo) Create(ctx context.Context, voucher *models.Voucher) error {
	if f.createErr != nil {
		return f.createErr
	}
	voucher.ID = f.nextID
	f.nextID++
	f.vouchers = append(f.vouchers, *voucher)
	return nil
}

func (f *fakeVoucherRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Voucher, error) {
	for i := range f.vouchers {
		if f.vouchers[i].ID == id && f.vouchers[i].OrganizationID == orgID {
			cp := f.vouchers[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVoucherRepo) FindByIdempotencyKey(ctx context.Context, orgID uint, key string) (*models.Voucher, error) {
	for i := range f.vouchers {
		v := &f.vouchers[i]
		if v.OrganizationID == orgID && v.IdempotencyKey != nil && *v.IdempotencyKey == key {
			cp := *v
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVoucherRepo) ListByAccount(ctx context.Context, orgID, accountID uint) ([]models.Voucher, error) {
	var out []models.Voucher
	for i := range f.vouchers {
		v := &f.vouchers[i]
		if v.OrganizationID != orgID {
			continue
		}
		if (v.FromAccountID != nil && *v.FromAccountID == accountID) ||
			(v.ToAccountID != nil && *v.ToAccountID == accountID) {
			cp := *v
			if cp.FromAccountID != nil {
				cp.FromAccount, _ = f.accounts.FindByID(ctx, orgID, *cp.FromAccountID)
			}
			if cp.ToAccountID != nil {
				cp.ToAccount, _ = f.accounts.FindByID(ctx, orgID, *cp.ToAccountID)
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeVoucherRepo) ListByDateRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Voucher, error) {
	var out []models.Voucher
	for i := range f.vouchers {
		v := &f.vouchers[i]
		if v.OrganizationID == orgID && !v.VoucherDate.Before(from) && v.VoucherDate.Before(to) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVoucherRepo) SumEffect(ctx context.Context, orgID, accountID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for i := range f.vouchers {
		v := &f.vouchers[i]
		if v.OrganizationID == orgID {
			sum = sum.Add(v.EffectOn(accountID))
		}
	}
	return sum, nil
}

func (f *fakeVoucherRepo) CountByAccount(ctx context.Context, orgID, accountID uint) (int64, error) {
	rows, _ := f.ListByAccount(ctx, orgID, accountID)
	return int64(len(rows)), nil
}

func (f *fakeVoucherRepo) DeleteByReference(ctx context.Context, orgID uint, refType string, refID uint) error {
	kept := f.vouchers[:0]
	for i := range f.vouchers {
		v := f.vouchers[i]
		if v.OrganizationID == orgID && v.ReferenceType != nil && *v.ReferenceType == refType &&
			v.ReferenceID != nil && *v.ReferenceID == refID {
			continue
		}
		kept = append(kept, v)
	}
	f.vouchers = kept
	return nil
}

type fakeBookingRepo struct {
	repository.BookingRepository
	bookings map[uint]*models.Booking
	nextID   uint
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uint]*models.Booking{}, nextID: 1}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = f.nextID
	f.nextID++
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok || b.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) List(ctx context.Context, orgID uint) ([]models.Booking, error) {
	return f.listWhere(orgID, func(b *models.Booking) bool { return true }), nil
}

func (f *fakeBookingRepo) ListWithRecords(ctx context.Context, orgID uint) ([]models.Booking, error) {
	return f.listWhere(orgID, func(b *models.Booking) bool { return true }), nil
}

func (f *fakeBookingRepo) ListByStartRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Booking, error) {
	return f.listWhere(orgID, func(b *models.Booking) bool {
		return !b.StartsAt.Before(from) && b.StartsAt.Before(to)
	}), nil
}

func (f *fakeBookingRepo) ListNotCancelled(ctx context.Context, orgID uint) ([]models.Booking, error) {
	return f.listWhere(orgID, func(b *models.Booking) bool {
		return b.Status != models.BookingStatusCancelled
	}), nil
}

func (f *fakeBookingRepo) FindOverlapping(ctx context.Context, orgID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
	return f.listWhere(orgID, func(b *models.Booking) bool {
		return b.Status != models.BookingStatusCancelled && b.ID != excludeID && b.Overlaps(start, end)
	}), nil
}

func (f *fakeBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) listWhere(orgID uint, keep func(*models.Booking) bool) []models.Booking {
	var out []models.Booking
	for id := uint(1); id < f.nextID; id++ {
		if b, ok := f.bookings[id]; ok && b.OrganizationID == orgID && keep(b) {
			out = append(out, *b)
		}
	}
	return out
}

type fakePaymentRepo struct {
	repository.PaymentRepository
	payments  []models.Payment
	secondary []models.SecondaryIncome
	nextID    uint
	createErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{nextID: 1}
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	payment.ID = f.nextID
	f.nextID++
	f.payments = append(f.payments, *payment)
	return nil
}

func (f *fakePaymentRepo) ListByBooking(ctx context.Context, orgID, bookingID uint) ([]models.Payment, error) {
	var out []models.Payment
	for i := range f.payments {
		p := &f.payments[i]
		if p.OrganizationID == orgID && p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListByDateRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Payment, error) {
	var out []models.Payment
	for i := range f.payments {
		p := &f.payments[i]
		if p.OrganizationID == orgID && !p.PaymentDate.Before(from) && p.PaymentDate.Before(to) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) CreateSecondaryIncome(ctx context.Context, income *models.SecondaryIncome) error {
	income.ID = f.nextID
	f.nextID++
	f.secondary = append(f.secondary, *income)
	return nil
}

func (f *fakePaymentRepo) ListSecondaryByBooking(ctx context.Context, orgID, bookingID uint) ([]models.SecondaryIncome, error) {
	var out []models.SecondaryIncome
	for i := range f.secondary {
		s := &f.secondary[i]
		if s.OrganizationID == orgID && s.BookingID == bookingID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) SumSecondaryByBooking(ctx context.Context, orgID, bookingID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for i := range f.secondary {
		s := &f.secondary[i]
		if s.OrganizationID == orgID && s.BookingID == bookingID {
			sum = sum.Add(s.Amount)
		}
	}
	return sum, nil
}

func (f *fakePaymentRepo) SumAllocatedByBooking(ctx context.Context, orgID, bookingID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for i := range f.secondary {
		s := &f.secondary[i]
		if s.OrganizationID == orgID && s.BookingID == bookingID && s.Allocated() {
			sum = sum.Add(s.Amount)
		}
	}
	return sum, nil
}

type fakeCategoryRepo struct {
	repository.CategoryRepository
	categories map[uint]*models.Category
	nextID     uint
}

// newFakeCategoryRepo seeds the default set the way the store migration
// does, with nil organization ids.
func newFakeCategoryRepo() *fakeCategoryRepo {
	f := &fakeCategoryRepo{categories: map[uint]*models.Category{}, nextID: 1}
	for _, c := range models.DefaultCategories() {
		c := c
		c.ID = f.nextID
		f.nextID++
		f.categories[c.ID] = &c
	}
	return f
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	category.ID = f.nextID
	f.nextID++
	cp := *category
	f.categories[category.ID] = &cp
	return nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok || (c.OrganizationID != nil && *c.OrganizationID != orgID) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) FindByKind(ctx context.Context, orgID uint, kind, categoryType string) (*models.Category, error) {
	var fallback *models.Category
	for id := uint(1); id < f.nextID; id++ {
		c, ok := f.categories[id]
		if !ok || c.Kind != kind || c.CategoryType != categoryType {
			continue
		}
		if c.OrganizationID != nil && *c.OrganizationID == orgID {
			cp := *c
			return &cp, nil
		}
		if c.OrganizationID == nil && fallback == nil {
			cp := *c
			fallback = &cp
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategoryRepo) List(ctx context.Context, orgID uint, categoryType string) ([]models.Category, error) {
	var out []models.Category
	for id := uint(1); id < f.nextID; id++ {
		c, ok := f.categories[id]
		if !ok {
			continue
		}
		if c.OrganizationID != nil && *c.OrganizationID != orgID {
			continue
		}
		if categoryType != "" && c.CategoryType != categoryType {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	cp := *category
	f.categories[category.ID] = &cp
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, orgID, id uint) (int64, error) {
	c, ok := f.categories[id]
	if !ok || c.OrganizationID == nil || *c.OrganizationID != orgID {
		return 0, nil
	}
	delete(f.categories, id)
	return 1, nil
}

func (f *fakeCategoryRepo) SeedDefaults(ctx context.Context) error { return nil }

// byKind resolves a seeded default's id for test setup.
func (f *fakeCategoryRepo) byKind(kind, categoryType string) uint {
	c, err := f.FindByKind(context.Background(), 0, kind, categoryType)
	if err != nil {
		return 0
	}
	return c.ID
}

type fakeVendorRepo struct {
	repository.VendorRepository
	vendors  map[uint]*models.Vendor
	expenses *fakeExpenseRepo
	nextID   uint
}

func newFakeVendorRepo(expenses *fakeExpenseRepo) *fakeVendorRepo {
	return &fakeVendorRepo{vendors: map[uint]*models.Vendor{}, expenses: expenses, nextID: 1}
}

func (f *fakeVendorRepo) Create(ctx context.Context, vendor *models.Vendor) error {
	vendor.ID = f.nextID
	f.nextID++
	cp := *vendor
	f.vendors[vendor.ID] = &cp
	return nil
}

func (f *fakeVendorRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Vendor, error) {
	v, ok := f.vendors[id]
	if !ok || v.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVendorRepo) List(ctx context.Context, orgID uint) ([]models.Vendor, error) {
	var out []models.Vendor
	for id := uint(1); id < f.nextID; id++ {
		if v, ok := f.vendors[id]; ok && v.OrganizationID == orgID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVendorRepo) Update(ctx context.Context, vendor *models.Vendor) error {
	cp := *vendor
	f.vendors[vendor.ID] = &cp
	return nil
}

func (f *fakeVendorRepo) Delete(ctx context.Context, orgID, id uint) error {
	delete(f.vendors, id)
	return nil
}

func (f *fakeVendorRepo) CountUnpaidExpenses(ctx context.Context, orgID, vendorID uint) (int64, error) {
	var count int64
	for i := range f.expenses.expenses {
		e := f.expenses.expenses[i]
		if e.OrganizationID == orgID && e.VendorID != nil && *e.VendorID == vendorID && !e.IsPaid {
			count++
		}
	}
	return count, nil
}

type fakeExpenseRepo struct {
	repository.ExpenseRepository
	expenses map[uint]*models.Expense
	nextID   uint
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: map[uint]*models.Expense{}, nextID: 1}
}

func (f *fakeExpenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	expense.ID = f.nextID
	f.nextID++
	cp := *expense
	f.expenses[expense.ID] = &cp
	return nil
}

func (f *fakeExpenseRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Expense, error) {
	e, ok := f.expenses[id]
	if !ok || e.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeExpenseRepo) List(ctx context.Context, orgID uint) ([]models.Expense, error) {
	return f.listWhere(orgID, func(e *models.Expense) bool { return true }), nil
}

func (f *fakeExpenseRepo) ListPaidByDateRange(ctx context.Context, orgID uint, from, to time.Time) ([]models.Expense, error) {
	return f.listWhere(orgID, func(e *models.Expense) bool {
		return e.IsPaid && !e.ExpenseDate.Before(from) && e.ExpenseDate.Before(to)
	}), nil
}

func (f *fakeExpenseRepo) ListUnpaid(ctx context.Context, orgID uint) ([]models.Expense, error) {
	return f.listWhere(orgID, func(e *models.Expense) bool { return !e.IsPaid }), nil
}

func (f *fakeExpenseRepo) SumUnpaidByVendor(ctx context.Context, orgID uint) ([]repository.VendorPayable, error) {
	totals := map[string]*repository.VendorPayable{}
	var order []string
	for id := uint(1); id < f.nextID; id++ {
		e, ok := f.expenses[id]
		if !ok || e.OrganizationID != orgID || e.IsPaid {
			continue
		}
		row, ok := totals[e.VendorName]
		if !ok {
			row = &repository.VendorPayable{VendorName: e.VendorName, Total: decimal.Zero}
			totals[e.VendorName] = row
			order = append(order, e.VendorName)
		}
		row.BillCount++
		row.Total = row.Total.Add(e.TotalAmount)
	}
	out := make([]repository.VendorPayable, 0, len(order))
	for _, name := range order {
		out = append(out, *totals[name])
	}
	return out, nil
}

func (f *fakeExpenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	cp := *expense
	f.expenses[expense.ID] = &cp
	return nil
}

func (f *fakeExpenseRepo) Delete(ctx context.Context, orgID, id uint) error {
	delete(f.expenses, id)
	return nil
}

func (f *fakeExpenseRepo) listWhere(orgID uint, keep func(*models.Expense) bool) []models.Expense {
	var out []models.Expense
	for id := uint(1); id < f.nextID; id++ {
		if e, ok := f.expenses[id]; ok && e.OrganizationID == orgID && keep(e) {
			out = append(out, *e)
		}
	}
	return out
}

type fakeReportCacheRepo struct {
	repository.ReportCacheRepository
	entries map[string]*models.ReportCache
}

func newFakeReportCacheRepo() *fakeReportCacheRepo {
	return &fakeReportCacheRepo{entries: map[string]*models.ReportCache{}}
}

func cacheMapKey(orgID uint, key string) string {
	return fmt.Sprintf("%d:%s", orgID, key)
}

func (f *fakeReportCacheRepo) Get(ctx context.Context, orgID uint, key string) (*models.ReportCache, error) {
	e, ok := f.entries[cacheMapKey(orgID, key)]
	if !ok || time.Now().After(e.ExpiresAt) {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (f *fakeReportCacheRepo) Set(ctx context.Context, orgID uint, key string, data interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	f.entries[cacheMapKey(orgID, key)] = &models.ReportCache{
		OrganizationID: orgID,
		CacheKey:       key,
		Data:           raw,
		ExpiresAt:      time.Now().Add(ttl),
	}
	return nil
}

func (f *fakeReportCacheRepo) Invalidate(ctx context.Context, orgID uint, keys ...string) error {
	for _, k := range keys {
		delete(f.entries, cacheMapKey(orgID, k))
	}
	return nil
}

func (f *fakeReportCacheRepo) CleanExpired(ctx context.Context) error {
	for k, e := range f.entries {
		if time.Now().After(e.ExpiresAt) {
			delete(f.entries, k)
		}
	}
	return nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users  map[string]*models.User
	tokens map[string]*models.RefreshToken
	orgs   map[uint]*models.Organization
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  map[string]*models.User{},
		tokens: map[string]*models.RefreshToken{},
		orgs:   map[uint]*models.Organization{},
		nextID: 1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	cp := *user
	f.users[user.Email] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	cp := *user
	f.users[user.Email] = &cp
	return nil
}

func (f *fakeUserRepo) CreateOrganization(ctx context.Context, org *models.Organization) error {
	org.ID = f.nextID
	f.nextID++
	cp := *org
	f.orgs[org.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindOrganization(ctx context.Context, id uint) (*models.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	cp := *token
	f.tokens[token.Token] = &cp
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeUserRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeUserRepo) DeleteRefreshTokensByUser(ctx context.Context, userID uint) error {
	for k, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, k)
		}
	}
	return nil
}

// testEnv bundles the fakes with a Repositories value wired to them.
type testEnv struct {
	repos      *repository.Repositories
	accounts   *fakeAccountRepo
	vouchers   *fakeVoucherRepo
	bookings   *fakeBookingRepo
	payments   *fakePaymentRepo
	categories *fakeCategoryRepo
	vendors    *fakeVendorRepo
	expenses   *fakeExpenseRepo
	cache      *fakeReportCacheRepo
	users      *fakeUserRepo
}

func newTestEnv() *testEnv {
	expenses := newFakeExpenseRepo()
	accounts := newFakeAccountRepo()
	env := &testEnv{
		accounts:   accounts,
		vouchers:   newFakeVoucherRepo(accounts),
		bookings:   newFakeBookingRepo(),
		payments:   newFakePaymentRepo(),
		categories: newFakeCategoryRepo(),
		vendors:    newFakeVendorRepo(expenses),
		expenses:   expenses,
		cache:      newFakeReportCacheRepo(),
		users:      newFakeUserRepo(),
	}
	env.repos = &repository.Repositories{
		User:        env.users,
		Account:     env.accounts,
		Voucher:     env.vouchers,
		Booking:     env.bookings,
		Payment:     env.payments,
		Category:    env.categories,
		Vendor:      env.vendors,
		Expense:     env.expenses,
		ReportCache: env.cache,
	}
	return env
}
