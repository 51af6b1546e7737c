package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novabank/banking/internal/middleware"
	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/requests"
	"github.com/shopspring/decimal"
)

// RequestSubmitter defines the user-facing request operations used by RequestHandler.
type RequestSubmitter interface {
	SubmitAccountRequest(ctx context.Context, cmd requests.SubmitAccountRequestCommand) (*models.AccountRequest, error)
	SubmitFundRequest(ctx context.Context, cmd requests.SubmitFundRequestCommand) (*models.FundRequest, error)
}

type RequestHandler struct {
	requests RequestSubmitter
}

func NewRequestHandler(r RequestSubmitter) *RequestHandler {
	return &RequestHandler{requests: r}
}

type SubmitAccountRequestRequest struct {
	AccountType    string          `json:"accountType" validate:"required,oneof=checking savings fixed_deposit"`
	Name           string          `json:"name" validate:"required,max=100"`
	InitialDeposit decimal.Decimal `json:"initialDeposit" validate:"required"`
}

type SubmitFundRequestRequest struct {
	AccountID string          `json:"accountId" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
}

func (h *RequestHandler) SubmitAccountRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req SubmitAccountRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	request, err := h.requests.SubmitAccountRequest(c.Request.Context(), requests.SubmitAccountRequestCommand{
		UserID:         userID,
		AccountType:    req.AccountType,
		Name:           req.Name,
		InitialDeposit: req.InitialDeposit,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to submit account request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *RequestHandler) SubmitFundRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req SubmitFundRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	request, err := h.requests.SubmitFundRequest(c.Request.Context(), requests.SubmitFundRequestCommand{
		UserID:    userID,
		AccountID: req.AccountID,
		Amount:    req.Amount,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to submit fund request")
		return
	}

	c.JSON(http.StatusCreated, request)
}
