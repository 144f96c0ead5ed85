package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hallbook/hallbook-api/internal/services"
	"github.com/hallbook/hallbook-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Account  *AccountHandler
	Booking  *BookingHandler
	Category *CategoryHandler
	Vendor   *VendorHandler
	Expense  *ExpenseHandler
	Report   *ReportHandler
	Job      *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, store *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(),
		Auth:     NewAuthHandler(svcs.Auth),
		Account:  NewAccountHandler(svcs.Ledger),
		Booking:  NewBookingHandler(svcs.Booking),
		Category: NewCategoryHandler(svcs.Category),
		Vendor:   NewVendorHandler(svcs.Vendor),
		Expense:  NewExpenseHandler(svcs.Expense),
		Report:   NewReportHandler(svcs.Report, svcs.Export),
		Job:      NewJobHandler(svcs.Job),
	}
}

// respondError translates service errors into HTTP status codes.
func respondError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
