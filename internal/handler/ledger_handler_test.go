package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novabank/banking/internal/ledger"
	"github.com/novabank/banking/internal/models"
	"github.com/shopspring/decimal"
)

// ---- mock implementations ----

type mockLedgerCommander struct {
	transferFn func(ledger.TransferCommand) (*models.Transaction, error)
	paymentFn  func(ledger.PaymentCommand) (*models.Transaction, error)
}

func (m *mockLedgerCommander) Transfer(ctx context.Context, cmd ledger.TransferCommand) (*models.Transaction, error) {
	if m.transferFn != nil {
		return m.transferFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockLedgerCommander) MakePayment(ctx context.Context, cmd ledger.PaymentCommand) (*models.Transaction, error) {
	if m.paymentFn != nil {
		return m.paymentFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func newLedgerTestRouter(commands LedgerCommander, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(authUserID))
	h := NewLedgerHandler(commands)
	r.POST("/v1/transfers", h.CreateTransfer)
	r.POST("/v1/payments", h.CreatePayment)
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var testTransaction = &models.Transaction{
	ID:            "txn-001",
	FromAccountID: "acc-001",
	ToAccountID:   "acc-002",
	Amount:        decimal.NewFromInt(200),
	Type:          models.TransactionTypeTransfer,
	Status:        models.TransactionStatusCompleted,
	CreatedAt:     time.Now(),
}

func transferBody() map[string]interface{} {
	return map[string]interface{}{
		"fromAccountId": "acc-001",
		"toAccountId":   "acc-002",
		"amount":        200,
		"description":   "Rent share",
	}
}

func paymentBody() map[string]interface{} {
	return map[string]interface{}{
		"fromAccountId": "acc-001",
		"recipientName": "City Power",
		"amount":        120,
	}
}

// ---- tests ----

func TestCreateTransfer(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		transferFn     func(ledger.TransferCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: transferBody(),
			transferFn: func(cmd ledger.TransferCommand) (*models.Transaction, error) {
				return testTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unprocessable entity - insufficient funds",
			body: transferBody(),
			transferFn: func(cmd ledger.TransferCommand) (*models.Transaction, error) {
				return nil, ledger.ErrInsufficientFunds
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "not found - unknown account",
			body: transferBody(),
			transferFn: func(cmd ledger.TransferCommand) (*models.Transaction, error) {
				return nil, ledger.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "bad request - same account rejected by service",
			body: transferBody(),
			transferFn: func(cmd ledger.TransferCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("%w: cannot transfer to the same account", ledger.ErrValidation)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing required fields",
			body:           map[string]interface{}{"amount": 50},
			transferFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "internal error - store failure",
			body: transferBody(),
			transferFn: func(cmd ledger.TransferCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("connection lost")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newLedgerTestRouter(&mockLedgerCommander{transferFn: tt.transferFn}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/transfers", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateTransferPassesCaller(t *testing.T) {
	var captured ledger.TransferCommand
	commands := &mockLedgerCommander{
		transferFn: func(cmd ledger.TransferCommand) (*models.Transaction, error) {
			captured = cmd
			return testTransaction, nil
		},
	}
	router := newLedgerTestRouter(commands, "usr-001")
	w := doRequest(router, http.MethodPost, "/v1/transfers", transferBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d; body: %s", w.Code, w.Body.String())
	}
	if captured.RequestingUserID != "usr-001" {
		t.Errorf("requesting user = %q, want usr-001", captured.RequestingUserID)
	}
	if !captured.Amount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("amount = %s, want 200", captured.Amount)
	}
}

func TestCreatePayment(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		paymentFn      func(ledger.PaymentCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: paymentBody(),
			paymentFn: func(cmd ledger.PaymentCommand) (*models.Transaction, error) {
				return testTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unprocessable entity - insufficient funds",
			body: paymentBody(),
			paymentFn: func(cmd ledger.PaymentCommand) (*models.Transaction, error) {
				return nil, ledger.ErrInsufficientFunds
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "bad request - missing recipient",
			body:           map[string]interface{}{"fromAccountId": "acc-001", "amount": 100},
			paymentFn:      nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newLedgerTestRouter(&mockLedgerCommander{paymentFn: tt.paymentFn}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/payments", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
