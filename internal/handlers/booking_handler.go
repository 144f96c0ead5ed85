package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hallbook/hallbook-api/internal/middleware"
	"github.com/hallbook/hallbook-api/internal/models"
	"github.com/hallbook/hallbook-api/internal/services"
)

type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

type CreateBookingRequest struct {
	EventName     string          `json:"event_name" binding:"required"`
	ClientName    string          `json:"client_name" binding:"required"`
	Phone         string          `json:"phone"`
	StartsAt      time.Time       `json:"starts_at" binding:"required"`
	EndsAt        time.Time       `json:"ends_at" binding:"required"`
	RentFinalized decimal.Decimal `json:"rent_finalized"`
	Notes         *string         `json:"notes"`
}

// Create stores a new booking after the overlap check.
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := BindNestedOrFlat(c, "booking", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), middleware.GetOrganizationID(c), services.CreateBookingInput{
		EventName:     req.EventName,
		ClientName:    req.ClientName,
		Phone:         req.Phone,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		RentFinalized: req.RentFinalized,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking.ToResponse())
}

// Index lists every booking with its derived financials.
func (h *BookingHandler) Index(c *gin.Context) {
	rows, err := h.bookingService.ListWithFinancials(c.Request.Context(), middleware.GetOrganizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(rows))
	for i := range rows {
		resp := rows[i].Booking.ToResponse()
		fin := rows[i].Financials
		resp.Financials = &fin
		responses = append(responses, resp)
	}
	c.JSON(http.StatusOK, gin.H{"bookings": responses})
}

type AddPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	AccountID   uint            `json:"account_id" binding:"required"`
	Description *string         `json:"description"`
}

// AddPayment records money received against a booking.
func (h *BookingHandler) AddPayment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req AddPaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.bookingService.AddPayment(c.Request.Context(), middleware.GetOrganizationID(c), id, services.AddPaymentInput{
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment.ToResponse())
}

// ListPayments returns the income rows recorded against a booking.
func (h *BookingHandler) ListPayments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	payments, err := h.bookingService.ListPayments(c.Request.Context(), middleware.GetOrganizationID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"payments": responses})
}

type RefundRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	AccountID      uint            `json:"account_id" binding:"required"`
	Description    string          `json:"description"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// Refund returns money to the client, bounded by the unallocated
// secondary income.
func (h *BookingHandler) Refund(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req RefundRequest
	if err := BindNestedOrFlat(c, "refund", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.bookingService.ProcessRefund(c.Request.Context(), middleware.GetOrganizationID(c), id, req.Amount, req.AccountID, req.Description, req.IdempotencyKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment.ToResponse())
}

// AvailableToRefund returns the refundable headroom for a booking.
func (h *BookingHandler) AvailableToRefund(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	available, err := h.bookingService.AvailableToRefund(c.Request.Context(), middleware.GetOrganizationID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking_id":          id,
		"available_to_refund": available,
		"formatted":           services.FormatINR(available),
	})
}

type AddSecondaryIncomeRequest struct {
	CategoryID  *uint           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	IncomeDate  time.Time       `json:"income_date"`
	Description *string         `json:"description"`
}

// AddSecondaryIncome records an add-on income row for a booking.
func (h *BookingHandler) AddSecondaryIncome(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req AddSecondaryIncomeRequest
	if err := BindNestedOrFlat(c, "secondary_income", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	income, err := h.bookingService.AddSecondaryIncome(c.Request.Context(), middleware.GetOrganizationID(c), id, services.AddSecondaryIncomeInput{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		IncomeDate:  req.IncomeDate,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, income)
}

// Confirm transitions a pending booking to confirmed.
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.bookingService.Confirm)
}

// Cancel transitions a booking to cancelled.
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.bookingService.Cancel)
}

func (h *BookingHandler) transition(c *gin.Context, fn func(ctx context.Context, orgID, bookingID uint) (*models.Booking, error)) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := fn(c.Request.Context(), middleware.GetOrganizationID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking.ToResponse())
}
