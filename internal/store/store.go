// Package store defines the record-store capability consumed by the ledger
// and request workflow. Two interchangeable adapters implement it: postgres
// (production) and memory (tests). Business rules never live here; the
// adapters only guarantee row-level semantics: conditional debit, atomic
// credit, single pending-to-terminal transitions and commit-or-rollback scopes.
package store

import (
	"context"
	"errors"

	"github.com/novabank/banking/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the referenced row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a unique-constraint violation or an attempted
	// transition out of a terminal request status.
	ErrConflict = errors.New("record conflict")

	// ErrInsufficientBalance indicates a conditional debit matched the
	// account but not the balance guard.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	// IsAdmin reports whether the given user carries the admin role.
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Account, error)
	// Debit decrements the balance as one conditional update:
	// it fails with ErrInsufficientBalance rather than ever writing a
	// negative balance, and never races a concurrent debit.
	Debit(ctx context.Context, id string, amount decimal.Decimal) error
	// Credit increments the balance as one atomic update.
	Credit(ctx context.Context, id string, amount decimal.Decimal) error
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	// ListByAccountID returns transactions touching the account on either
	// side, newest first.
	ListByAccountID(ctx context.Context, accountID string) ([]models.Transaction, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUserID(ctx context.Context, userID string) ([]models.Notification, error)
	// MarkRead sets the read flag. The notification must belong to userID;
	// otherwise ErrNotFound.
	MarkRead(ctx context.Context, id, userID string) error
}

type AccountRequestRepository interface {
	Create(ctx context.Context, request *models.AccountRequest) error
	GetByID(ctx context.Context, id string) (*models.AccountRequest, error)
	// List returns all requests joined with requester profiles, newest first.
	List(ctx context.Context) ([]models.AccountRequestView, error)
	// Transition moves a pending request to a terminal status. A request in
	// any other status yields ErrConflict; a missing request ErrNotFound.
	Transition(ctx context.Context, id, status string) error
}

type FundRequestRepository interface {
	Create(ctx context.Context, request *models.FundRequest) error
	GetByID(ctx context.Context, id string) (*models.FundRequest, error)
	// List returns all requests joined with requester profiles and target
	// account display fields, newest first.
	List(ctx context.Context) ([]models.FundRequestView, error)
	// Approve transitions a pending request to approved and links the
	// created deposit transaction onto it, as one guarded update.
	Approve(ctx context.Context, id, transactionID string) error
	// Transition moves a pending request to a terminal status.
	Transition(ctx context.Context, id, status string) error
}

// Store aggregates the repositories and the transactional scope.
type Store interface {
	Profiles() ProfileRepository
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Notifications() NotificationRepository
	AccountRequests() AccountRequestRepository
	FundRequests() FundRequestRepository

	// WithinTx runs fn against a Store whose writes all commit together or
	// not at all. fn returning an error rolls every write back. Nested
	// calls join the enclosing scope.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
