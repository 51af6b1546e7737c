package ledger

import "github.com/shopspring/decimal"

// RequestKind selects which request table RejectRequest operates on.
type RequestKind string

const (
	RequestKindAccount RequestKind = "account"
	RequestKindFund    RequestKind = "fund"
)

type TransferCommand struct {
	FromAccountID    string
	ToAccountID      string
	Amount           decimal.Decimal
	Description      string
	RequestingUserID string
}

type PaymentCommand struct {
	FromAccountID    string
	RecipientName    string
	Amount           decimal.Decimal
	Description      string
	RequestingUserID string
}
