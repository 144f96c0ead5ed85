package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hallbook/hallbook-api/internal/middleware"
	"github.com/hallbook/hallbook-api/internal/services"
)

type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

type ExpenseRequest struct {
	VendorID    *uint           `json:"vendor_id"`
	VendorName  string          `json:"vendor_name"`
	BillNumber  string          `json:"bill_number"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	CGSTPct     decimal.Decimal `json:"cgst_pct"`
	SGSTPct     decimal.Decimal `json:"sgst_pct"`
	ExpenseDate time.Time       `json:"expense_date"`
}

func (r ExpenseRequest) toInput() services.ExpenseInput {
	return services.ExpenseInput{
		VendorID:    r.VendorID,
		VendorName:  r.VendorName,
		BillNumber:  r.BillNumber,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		CGSTPct:     r.CGSTPct,
		SGSTPct:     r.SGSTPct,
		ExpenseDate: r.ExpenseDate,
	}
}

// Create stores an expense and its accrual voucher.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req ExpenseRequest
	if err := BindNestedOrFlat(c, "expense", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), middleware.GetOrganizationID(c), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense.ToResponse())
}

// Index lists the organization's expenses.
func (h *ExpenseHandler) Index(c *gin.Context) {
	expenses, err := h.expenseService.List(c.Request.Context(), middleware.GetOrganizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, expenses[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"expenses": responses})
}

// Show returns one expense.
func (h *ExpenseHandler) Show(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	expense, err := h.expenseService.Get(c.Request.Context(), middleware.GetOrganizationID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense.ToResponse())
}

// Update rewrites an unpaid expense.
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	var req ExpenseRequest
	if err := BindNestedOrFlat(c, "expense", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), middleware.GetOrganizationID(c), id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense.ToResponse())
}

type MarkPaidRequest struct {
	AccountID      uint      `json:"account_id" binding:"required"`
	PaymentDate    time.Time `json:"payment_date"`
	IdempotencyKey string    `json:"idempotency_key"`
}

// MarkPaid settles an expense from an account.
func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.expenseService.MarkPaid(c.Request.Context(), middleware.GetOrganizationID(c), id, req.AccountID, req.PaymentDate, req.IdempotencyKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense.ToResponse())
}

// Delete removes an unpaid expense.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), middleware.GetOrganizationID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense deleted"})
}

// UploadBill attaches a bill file to an expense.
func (h *ExpenseHandler) UploadBill(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	file, header, err := c.Request.FormFile("bill")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bill file is required"})
		return
	}
	defer file.Close()

	expense, err := h.expenseService.AttachBill(c.Request.Context(), middleware.GetOrganizationID(c), id, file, header)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense.ToResponse())
}

// DownloadBill streams the stored bill file.
func (h *ExpenseHandler) DownloadBill(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	f, err := h.expenseService.BillFile(c.Request.Context(), middleware.GetOrganizationID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(f.Name()))
	c.Header("Content-Type", "application/octet-stream")
	if _, err := io.Copy(c.Writer, f); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
