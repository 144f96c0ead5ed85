package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hallbook/hallbook-api/internal/middleware"
	"github.com/hallbook/hallbook-api/internal/services"
)

type AccountHandler struct {
	ledgerService *services.LedgerService
}

func NewAccountHandler(ledgerService *services.LedgerService) *AccountHandler {
	return &AccountHandler{ledgerService: ledgerService}
}

type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	AccountType    string          `json:"account_type" binding:"required"`
	SubType        *string         `json:"sub_type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	IsDefault      bool            `json:"is_default"`
}

// Create stores a new account.
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := BindNestedOrFlat(c, "account", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.ledgerService.CreateAccount(c.Request.Context(), middleware.GetOrganizationID(c), services.CreateAccountInput{
		Name:           req.Name,
		AccountType:    req.AccountType,
		SubType:        req.SubType,
		OpeningBalance: req.OpeningBalance,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account.ToResponse())
}

// Index lists the organization's accounts with fresh balances.
func (h *AccountHandler) Index(c *gin.Context) {
	accounts, err := h.ledgerService.ListAccounts(c.Request.Context(), middleware.GetOrganizationID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, accounts[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"accounts": responses})
}

// Balance returns the computed balance for one account.
func (h *AccountHandler) Balance(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	balance, err := h.ledgerService.Balance(c.Request.Context(), middleware.GetOrganizationID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account_id": id,
		"balance":    balance,
		"formatted":  services.FormatINR(balance),
	})
}

// Ledger returns the account statement with running balances.
func (h *AccountHandler) Ledger(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	lines, err := h.ledgerService.AccountLedger(c.Request.Context(), middleware.GetOrganizationID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ledger": lines})
}

type OpeningBalanceRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// SetOpeningBalance adjusts an account's opening balance and refolds
// the snapshot.
func (h *AccountHandler) SetOpeningBalance(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req OpeningBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.ledgerService.SetOpeningBalance(c.Request.Context(), middleware.GetOrganizationID(c), id, req.OpeningBalance)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account.ToResponse())
}

type TransferRequest struct {
	FromAccountID  uint            `json:"from_account_id" binding:"required"`
	ToAccountID    uint            `json:"to_account_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Date           time.Time       `json:"date"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// Transfer moves money between two accounts.
func (h *AccountHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := BindNestedOrFlat(c, "transfer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	voucher, err := h.ledgerService.Transfer(c.Request.Context(), middleware.GetOrganizationID(c), services.TransferInput{
		FromAccountID:  req.FromAccountID,
		ToAccountID:    req.ToAccountID,
		Amount:         req.Amount,
		Description:    req.Description,
		Date:           req.Date,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, voucher.ToResponseFor(0))
}

type VoucherRequest struct {
	VoucherType   string          `json:"voucher_type" binding:"required"`
	FromAccountID *uint           `json:"from_account_id"`
	ToAccountID   *uint           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	ReferenceType *string         `json:"reference_type"`
	ReferenceID   *uint           `json:"reference_id"`
	IsFinancial   *bool           `json:"is_financial"`
	Date          time.Time       `json:"date"`
}

// CreateVoucher records a manual voucher.
func (h *AccountHandler) CreateVoucher(c *gin.Context) {
	var req VoucherRequest
	if err := BindNestedOrFlat(c, "voucher", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	voucher, err := h.ledgerService.RecordVoucher(c.Request.Context(), middleware.GetOrganizationID(c), services.VoucherInput{
		VoucherType:   req.VoucherType,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Description:   req.Description,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		IsFinancial:   req.IsFinancial,
		Date:          req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, voucher.ToResponseFor(0))
}

// Delete removes an account with no voucher history.
func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	if err := h.ledgerService.DeleteAccount(c.Request.Context(), middleware.GetOrganizationID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// pathID parses a uint path parameter.
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}
