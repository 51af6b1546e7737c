package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novabank/banking/internal/middleware"
	"github.com/novabank/banking/internal/models"
)

// AccountQuerier defines the read-side account operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(ctx context.Context, accountID, requestingUserID string) (*models.AccountView, error)
	ListAccounts(ctx context.Context, userID string) ([]models.AccountView, error)
}

// TransactionQuerier defines the read-side transaction operations used by AccountHandler.
type TransactionQuerier interface {
	ListTransactions(ctx context.Context, accountID, requestingUserID string) ([]models.TransactionView, error)
}

// AccountHandler serves account and transaction views.
type AccountHandler struct {
	accounts     AccountQuerier
	transactions TransactionQuerier
}

type ListAccountsResponse struct {
	Accounts []models.AccountView `json:"accounts"`
}

type ListTransactionsResponse struct {
	Transactions []models.TransactionView `json:"transactions"`
}

func NewAccountHandler(accounts AccountQuerier, transactions TransactionQuerier) *AccountHandler {
	return &AccountHandler{accounts: accounts, transactions: transactions}
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.accounts.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, ListAccountsResponse{Accounts: views})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountID := c.Param("accountId")
	userID, _ := middleware.GetUserID(c)

	view, err := h.accounts.GetAccount(c.Request.Context(), accountID, userID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to fetch account")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AccountHandler) ListTransactions(c *gin.Context) {
	accountID := c.Param("accountId")
	userID, _ := middleware.GetUserID(c)

	views, err := h.transactions.ListTransactions(c.Request.Context(), accountID, userID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: views})
}
