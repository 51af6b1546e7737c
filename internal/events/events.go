package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	TransferCompleted      = "transfer.completed"
	PaymentCompleted       = "payment.completed"
	AccountRequestApproved = "account_request.approved"
	FundRequestApproved    = "fund_request.approved"
	RequestRejected        = "request.rejected"

	NotificationCreated = "notification.created"
)

// Stream names
const (
	LedgerEventsStream       = "ledger.events"
	NotificationEventsStream = "notification.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Ledger events
type TransferCompletedEvent struct {
	TransactionID string          `json:"transactionId"`
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
}

type PaymentCompletedEvent struct {
	TransactionID string          `json:"transactionId"`
	FromAccountID string          `json:"fromAccountId"`
	RecipientName string          `json:"recipientName"`
	Amount        decimal.Decimal `json:"amount"`
}

type AccountRequestApprovedEvent struct {
	RequestID string          `json:"requestId"`
	AccountID string          `json:"accountId"`
	UserID    string          `json:"userId"`
	Balance   decimal.Decimal `json:"balance"`
}

type FundRequestApprovedEvent struct {
	RequestID     string          `json:"requestId"`
	AccountID     string          `json:"accountId"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
}

type RequestRejectedEvent struct {
	RequestID   string `json:"requestId"`
	RequestKind string `json:"requestKind"`
	UserID      string `json:"userId"`
}

// Notification events
type NotificationCreatedEvent struct {
	NotificationID string `json:"notificationId"`
	UserID         string `json:"userId"`
	Title          string `json:"title"`
	Message        string `json:"message"`
}
