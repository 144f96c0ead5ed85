package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hallbook/hallbook-api/internal/fiscal"
	"github.com/hallbook/hallbook-api/internal/models"
	"github.com/hallbook/hallbook-api/internal/repository"
)

// reportCacheTTL bounds how stale a cached report may get even if an
// invalidation is missed.
const reportCacheTTL = 15 * time.Minute

// ReportService folds bookings, payments and expenses into the
// financial-year reports. Results for the current financial year are
// cached per organization; writes that feed a report invalidate its key.
type ReportService struct {
	repos *repository.Repositories
}

// NewReportService creates a new report service
func NewReportService(repos *repository.Repositories) *ReportService {
	return &ReportService{repos: repos}
}

// FYSummary is the headline report for one financial year.
type FYSummary struct {
	Year          fiscal.Year     `json:"year"`
	Label         string          `json:"label"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Receivables   decimal.Decimal `json:"receivables"`
	Payables      decimal.Decimal `json:"payables"`
	Net           decimal.Decimal `json:"net"`
}

// CategoryBreakdown holds independent income and expense totals keyed
// by category display name for one financial year.
type CategoryBreakdown struct {
	Year    fiscal.Year                `json:"year"`
	Income  map[string]decimal.Decimal `json:"income"`
	Expense map[string]decimal.Decimal `json:"expense"`
}

// FinancialYearSummary computes the headline figures for fy. Income is
// bucketed by booking start date: every rupee paid against a booking
// counts in the year the event starts, regardless of when it was paid.
// Expenses are bucketed by expense date and only count once paid.
func (s *ReportService) FinancialYearSummary(ctx context.Context, orgID uint, fy fiscal.Year) (*FYSummary, error) {
	if cached, ok := s.fromCache(ctx, orgID, fy, models.CacheKeyFYSummary); ok {
		var summary FYSummary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return &summary, nil
		}
	}

	bookings, err := s.repos.Booking.ListWithRecords(ctx, orgID)
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	receivables := decimal.Zero
	for i := range bookings {
		b := &bookings[i]
		if !fy.Contains(b.StartsAt) {
			continue
		}
		income = income.Add(paidAmount(b))
		if b.Status != models.BookingStatusCancelled {
			receivables = receivables.Add(b.Receivable())
		}
	}

	expenses, err := s.repos.Expense.ListPaidByDateRange(ctx, orgID, fy.Begin(), fy.EndExclusive())
	if err != nil {
		return nil, err
	}
	totalExpenses := decimal.Zero
	for i := range expenses {
		totalExpenses = totalExpenses.Add(expenses[i].TotalAmount)
	}

	payables, err := s.Payables(ctx, orgID)
	if err != nil {
		return nil, err
	}

	summary := &FYSummary{
		Year:          fy,
		Label:         fy.Label(),
		TotalIncome:   income,
		TotalExpenses: totalExpenses,
		Receivables:   receivables,
		Payables:      payables,
		Net:           income.Sub(totalExpenses),
	}

	s.toCache(ctx, orgID, fy, models.CacheKeyFYSummary, summary)
	return summary, nil
}

// ReceivablesForYear sums the outstanding rent of non-cancelled
// bookings starting in fy. Overpaid bookings contribute zero, never a
// negative.
func (s *ReportService) ReceivablesForYear(ctx context.Context, orgID uint, fy fiscal.Year) (decimal.Decimal, error) {
	bookings, err := s.repos.Booking.ListNotCancelled(ctx, orgID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range bookings {
		if fy.Contains(bookings[i].StartsAt) {
			total = total.Add(bookings[i].Receivable())
		}
	}
	return total, nil
}

// ReceivablesAllTime sums the outstanding rent across every
// non-cancelled booking regardless of year.
func (s *ReportService) ReceivablesAllTime(ctx context.Context, orgID uint) (decimal.Decimal, error) {
	bookings, err := s.repos.Booking.ListNotCancelled(ctx, orgID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range bookings {
		total = total.Add(bookings[i].Receivable())
	}
	return total, nil
}

// VendorPayables returns outstanding expense totals grouped by vendor,
// the drill-down behind the payables headline figure.
func (s *ReportService) VendorPayables(ctx context.Context, orgID uint) ([]repository.VendorPayable, error) {
	if cached, err := s.repos.ReportCache.Get(ctx, orgID, models.CacheKeyVendorPayables); err == nil {
		var rows []repository.VendorPayable
		if err := json.Unmarshal(cached.Data, &rows); err == nil {
			return rows, nil
		}
	}

	rows, err := s.repos.Expense.SumUnpaidByVendor(ctx, orgID)
	if err != nil {
		return nil, err
	}
	_ = s.repos.ReportCache.Set(ctx, orgID, models.CacheKeyVendorPayables, rows, reportCacheTTL)
	return rows, nil
}

// Payables is the total of all unpaid expenses.
func (s *ReportService) Payables(ctx context.Context, orgID uint) (decimal.Decimal, error) {
	rows, err := s.VendorPayables(ctx, orgID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range rows {
		total = total.Add(rows[i].Total)
	}
	return total, nil
}

// Breakdown computes per-category income and expense totals for fy.
// The two maps are independent: income keys never offset expense keys.
func (s *ReportService) Breakdown(ctx context.Context, orgID uint, fy fiscal.Year) (*CategoryBreakdown, error) {
	if cached, ok := s.fromCache(ctx, orgID, fy, models.CacheKeyCategoryBreakdown); ok {
		var breakdown CategoryBreakdown
		if err := json.Unmarshal(cached, &breakdown); err == nil {
			return &breakdown, nil
		}
	}

	breakdown := &CategoryBreakdown{
		Year:    fy,
		Income:  map[string]decimal.Decimal{},
		Expense: map[string]decimal.Decimal{},
	}

	payments, err := s.repos.Payment.ListByDateRange(ctx, orgID, fy.Begin(), fy.EndExclusive())
	if err != nil {
		return nil, err
	}
	for i := range payments {
		p := &payments[i]
		name := p.Category.Name
		if name == "" {
			name = "Uncategorized"
		}
		breakdown.Income[name] = breakdown.Income[name].Add(p.Amount)
	}

	expenses, err := s.repos.Expense.ListPaidByDateRange(ctx, orgID, fy.Begin(), fy.EndExclusive())
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		e := &expenses[i]
		name := e.Category.Name
		if name == "" {
			name = "Uncategorized"
		}
		breakdown.Expense[name] = breakdown.Expense[name].Add(e.TotalAmount)
	}

	s.toCache(ctx, orgID, fy, models.CacheKeyCategoryBreakdown, breakdown)
	return breakdown, nil
}

// paidAmount is everything actually received against a booking: all
// income rows (refunds are negative and net out) plus the secondary
// income table.
func paidAmount(b *models.Booking) decimal.Decimal {
	total := decimal.Zero
	for i := range b.Payments {
		total = total.Add(b.Payments[i].Amount)
	}
	for i := range b.SecondaryIncome {
		total = total.Add(b.SecondaryIncome[i].Amount)
	}
	return total
}

// Only the current financial year is cached: its key is what the write
// paths invalidate, and historic years are cold reads anyway.
func (s *ReportService) fromCache(ctx context.Context, orgID uint, fy fiscal.Year, key string) (json.RawMessage, bool) {
	if fy != fiscal.Current() {
		return nil, false
	}
	cached, err := s.repos.ReportCache.Get(ctx, orgID, key)
	if err != nil {
		return nil, false
	}
	return cached.Data, true
}

func (s *ReportService) toCache(ctx context.Context, orgID uint, fy fiscal.Year, key string, data interface{}) {
	if fy != fiscal.Current() {
		return
	}
	_ = s.repos.ReportCache.Set(ctx, orgID, key, data, reportCacheTTL)
}
