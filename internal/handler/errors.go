package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novabank/banking/internal/auth"
	"github.com/novabank/banking/internal/ledger"
	"github.com/novabank/banking/internal/middleware"
)

// respondWithServiceError maps the service error taxonomy onto HTTP status
// codes. Unknown errors become a 500 with the handler's fallback message so
// internals never leak to the client.
func respondWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ledger.ErrNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, auth.ErrEmailTaken):
		middleware.RespondWithError(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, ledger.ErrInvalidState):
		middleware.RespondWithError(c, http.StatusConflict, "Request has already been resolved")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Insufficient funds")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
