package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novabank/banking/internal/ledger"
	"github.com/novabank/banking/internal/middleware"
	"github.com/novabank/banking/internal/models"
	"github.com/shopspring/decimal"
)

// LedgerCommander defines the money-movement operations used by LedgerHandler.
type LedgerCommander interface {
	Transfer(ctx context.Context, cmd ledger.TransferCommand) (*models.Transaction, error)
	MakePayment(ctx context.Context, cmd ledger.PaymentCommand) (*models.Transaction, error)
}

type LedgerHandler struct {
	commands LedgerCommander
}

func NewLedgerHandler(commands LedgerCommander) *LedgerHandler {
	return &LedgerHandler{commands: commands}
}

type CreateTransferRequest struct {
	FromAccountID string          `json:"fromAccountId" validate:"required"`
	ToAccountID   string          `json:"toAccountId" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Description   string          `json:"description" validate:"max=255"`
}

type CreatePaymentRequest struct {
	FromAccountID string          `json:"fromAccountId" validate:"required"`
	RecipientName string          `json:"recipientName" validate:"required,max=100"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Description   string          `json:"description" validate:"max=255"`
}

func (h *LedgerHandler) CreateTransfer(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transaction, err := h.commands.Transfer(c.Request.Context(), ledger.TransferCommand{
		FromAccountID:    req.FromAccountID,
		ToAccountID:      req.ToAccountID,
		Amount:           req.Amount,
		Description:      req.Description,
		RequestingUserID: userID,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to create transfer")
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

func (h *LedgerHandler) CreatePayment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transaction, err := h.commands.MakePayment(c.Request.Context(), ledger.PaymentCommand{
		FromAccountID:    req.FromAccountID,
		RecipientName:    req.RecipientName,
		Amount:           req.Amount,
		Description:      req.Description,
		RequestingUserID: userID,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to create payment")
		return
	}

	c.JSON(http.StatusCreated, transaction)
}
