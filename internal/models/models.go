package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types.
const (
	AccountTypeChecking     = "checking"
	AccountTypeSavings      = "savings"
	AccountTypeFixedDeposit = "fixed_deposit"
)

// Transaction types.
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeTransfer   = "transfer"
	TransactionTypePayment    = "payment"
)

// Transaction statuses.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Review statuses shared by account and fund requests.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Profile roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Profile struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

type Account struct {
	ID            string          `json:"id"`
	UserID        string          `json:"-"`
	AccountType   string          `json:"accountType"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	AccountNumber string          `json:"accountNumber"`
	CardNumber    string          `json:"cardNumber"`
	CardExpiry    string          `json:"cardExpiry"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdTimestamp"`
	UpdatedAt     time.Time       `json:"updatedTimestamp"`
}

// Transaction is immutable once written. Exactly one of FromAccountID and
// ToAccountID is empty for payments and deposits respectively.
type Transaction struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"fromAccountId,omitempty"`
	ToAccountID   string          `json:"toAccountId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Description   string          `json:"description,omitempty"`
	RecipientName string          `json:"recipientName,omitempty"`
	ReferenceID   string          `json:"referenceId,omitempty"`
	CreatedAt     time.Time       `json:"createdTimestamp"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdTimestamp"`
}

type AccountRequest struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	AccountType    string          `json:"accountType"`
	Name           string          `json:"name"`
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdTimestamp"`
	UpdatedAt      time.Time       `json:"updatedTimestamp"`
}

type FundRequest struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	AccountID     string          `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transactionId,omitempty"`
	CreatedAt     time.Time       `json:"createdTimestamp"`
	UpdatedAt     time.Time       `json:"updatedTimestamp"`
}
