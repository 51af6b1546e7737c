package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountView is the read-optimised projection of an account.
// UserID is populated for ownership checks but never serialised to the API response.
type AccountView struct {
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

// TransactionView is the read-optimised projection of a transaction.
type TransactionView struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"fromAccountId,omitempty"`
	ToAccountID   string          `json:"toAccountId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Description   string          `json:"description,omitempty"`
	RecipientName string          `json:"recipientName,omitempty"`
	CreatedAt     time.Time       `json:"createdTimestamp"`
}

// RequesterSummary is the slice of a profile joined onto request rows for
// the admin review tables.
type RequesterSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// AccountRequestView is an account request joined with its requester.
type AccountRequestView struct {
	AccountRequest
	Requester RequesterSummary `json:"requester"`
}

// FundRequestView is a fund request joined with its requester and the
// target account's display fields.
type FundRequestView struct {
	FundRequest
	Requester     RequesterSummary `json:"requester"`
	AccountName   string           `json:"accountName"`
	AccountNumber string           `json:"accountNumber"`
}
