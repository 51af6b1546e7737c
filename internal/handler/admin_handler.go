package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novabank/banking/internal/middleware"
	"github.com/novabank/banking/internal/models"
)

// RequestReviewer defines the admin review operations used by AdminHandler.
type RequestReviewer interface {
	ListAccountRequests(ctx context.Context) ([]models.AccountRequestView, error)
	ListFundRequests(ctx context.Context) ([]models.FundRequestView, error)
	ApproveAccountRequest(ctx context.Context, requestID string) (*models.Account, error)
	ApproveFundRequest(ctx context.Context, requestID string) (*models.Transaction, error)
	RejectAccountRequest(ctx context.Context, requestID string) error
	RejectFundRequest(ctx context.Context, requestID string) error
}

// AdminHandler serves the review endpoints. Routes mount behind the admin
// middleware, so every caller here already carries the admin role.
type AdminHandler struct {
	reviewer RequestReviewer
}

type ListAccountRequestsResponse struct {
	Requests []models.AccountRequestView `json:"requests"`
}

type ListFundRequestsResponse struct {
	Requests []models.FundRequestView `json:"requests"`
}

func NewAdminHandler(reviewer RequestReviewer) *AdminHandler {
	return &AdminHandler{reviewer: reviewer}
}

func (h *AdminHandler) ListAccountRequests(c *gin.Context) {
	views, err := h.reviewer.ListAccountRequests(c.Request.Context())
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list account requests")
		return
	}
	c.JSON(http.StatusOK, ListAccountRequestsResponse{Requests: views})
}

func (h *AdminHandler) ListFundRequests(c *gin.Context) {
	views, err := h.reviewer.ListFundRequests(c.Request.Context())
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list fund requests")
		return
	}
	c.JSON(http.StatusOK, ListFundRequestsResponse{Requests: views})
}

func (h *AdminHandler) ApproveAccountRequest(c *gin.Context) {
	account, err := h.reviewer.ApproveAccountRequest(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		respondWithServiceError(c, err, "Failed to approve account request")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AdminHandler) RejectAccountRequest(c *gin.Context) {
	if err := h.reviewer.RejectAccountRequest(c.Request.Context(), c.Param("requestId")); err != nil {
		respondWithServiceError(c, err, "Failed to reject account request")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ApproveFundRequest(c *gin.Context) {
	transaction, err := h.reviewer.ApproveFundRequest(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		respondWithServiceError(c, err, "Failed to approve fund request")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *AdminHandler) RejectFundRequest(c *gin.Context) {
	if err := h.reviewer.RejectFundRequest(c.Request.Context(), c.Param("requestId")); err != nil {
		respondWithServiceError(c, err, "Failed to reject fund request")
		return
	}
	c.Status(http.StatusNoContent)
}
