package services

import (
	"github.com/hallbook/hallbook-api/internal/config"
	"github.com/hallbook/hallbook-api/internal/jobs"
	"github.com/hallbook/hallbook-api/internal/repository"
	"github.com/hallbook/hallbook-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth     *AuthService
	Ledger   *LedgerService
	Booking  *BookingService
	Category *CategoryService
	Vendor   *VendorService
	Expense  *ExpenseService
	Report   *ReportService
	Export   *ExportService
	Job      *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config) *Services {
	reportSvc := NewReportService(repos)

	return &Services{
		Auth:     NewAuthService(repos, cfg),
		Ledger:   NewLedgerService(repos),
		Booking:  NewBookingService(repos),
		Category: NewCategoryService(repos),
		Vendor:   NewVendorService(repos),
		Expense:  NewExpenseService(repos, store),
		Report:   reportSvc,
		Export:   NewExportService(reportSvc),
		Job:      NewJobService(worker),
	}
}
