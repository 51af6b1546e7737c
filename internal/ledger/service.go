// Package ledger implements the balance-mutation rules: peer-to-peer
// transfers, outbound payments and the approval side of account and fund
// requests. Every operation runs its writes in one store transaction scope,
// so a failure at any step leaves no partial effect. Domain events and the
// per-operation notification row are the only observable side effects.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/novabank/banking/internal/events"
	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
	"github.com/novabank/banking/internal/utils"
	"github.com/shopspring/decimal"
)

const accountCreateAttempts = 3

// ViewRefresher lets the query side drop stale account projections after a
// balance changes. A nil refresher is valid.
type ViewRefresher interface {
	InvalidateAccount(ctx context.Context, accountID string)
}

type Service struct {
	store    store.Store
	events   events.Sink
	views    ViewRefresher
	currency string
}

// NewService wires the ledger against a record store. events must not be
// nil (use events.NopSink{}); views may be nil. currency is stamped onto
// accounts created from approved requests.
func NewService(st store.Store, sink events.Sink, views ViewRefresher, currency string) *Service {
	return &Service{store: st, events: sink, views: views, currency: currency}
}

// Transfer moves amount between two accounts. The debit is conditional on
// the source balance, the credit is atomic, and both land in the same
// transaction scope together with the transaction record and the
// notification to the source owner.
func (s *Service) Transfer(ctx context.Context, cmd TransferCommand) (*models.Transaction, error) {
	if !cmd.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	if cmd.FromAccountID == cmd.ToAccountID {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", ErrValidation)
	}

	var (
		transaction  *models.Transaction
		notification *models.Notification
	)
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		from, err := tx.Accounts().GetByID(ctx, cmd.FromAccountID)
		if err != nil {
			return accountErr(err)
		}
		// The source account must be visible to the caller; a transfer out
		// of someone else's account resolves to not-found rather than
		// leaking its existence.
		if cmd.RequestingUserID != "" && from.UserID != cmd.RequestingUserID {
			return ErrNotFound
		}
		to, err := tx.Accounts().GetByID(ctx, cmd.ToAccountID)
		if err != nil {
			return accountErr(err)
		}

		if err := tx.Accounts().Debit(ctx, from.ID, cmd.Amount); err != nil {
			return accountErr(err)
		}
		if err := tx.Accounts().Credit(ctx, to.ID, cmd.Amount); err != nil {
			return accountErr(err)
		}

		transaction = &models.Transaction{
			ID:            uuid.NewString(),
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        cmd.Amount,
			Type:          models.TransactionTypeTransfer,
			Status:        models.TransactionStatusCompleted,
			Description:   cmd.Description,
			RecipientName: to.Name,
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.Transactions().Create(ctx, transaction); err != nil {
			return err
		}

		notification, err = s.notify(ctx, tx, from.UserID, "Transfer Complete",
			fmt.Sprintf("Your transfer of %s to %s has been completed.",
				formatAmount(cmd.Amount, from.Currency), to.Name))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cmd.FromAccountID, cmd.ToAccountID)
	s.publish(ctx, events.LedgerEventsStream, events.TransferCompleted, events.TransferCompletedEvent{
		TransactionID: transaction.ID,
		FromAccountID: cmd.FromAccountID,
		ToAccountID:   cmd.ToAccountID,
		Amount:        cmd.Amount,
	})
	s.publishNotification(ctx, notification)
	return transaction, nil
}

// MakePayment debits the source account for an outbound payment to a named
// recipient outside the bank. No destination account is involved.
func (s *Service) MakePayment(ctx context.Context, cmd PaymentCommand) (*models.Transaction, error) {
	if !cmd.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	if cmd.RecipientName == "" {
		return nil, fmt.Errorf("%w: recipient name is required", ErrValidation)
	}

	var (
		transaction  *models.Transaction
		notification *models.Notification
	)
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		from, err := tx.Accounts().GetByID(ctx, cmd.FromAccountID)
		if err != nil {
			return accountErr(err)
		}
		if cmd.RequestingUserID != "" && from.UserID != cmd.RequestingUserID {
			return ErrNotFound
		}

		if err := tx.Accounts().Debit(ctx, from.ID, cmd.Amount); err != nil {
			return accountErr(err)
		}

		transaction = &models.Transaction{
			ID:            uuid.NewString(),
			FromAccountID: from.ID,
			Amount:        cmd.Amount,
			Type:          models.TransactionTypePayment,
			Status:        models.TransactionStatusCompleted,
			Description:   cmd.Description,
			RecipientName: cmd.RecipientName,
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.Transactions().Create(ctx, transaction); err != nil {
			return err
		}

		notification, err = s.notify(ctx, tx, from.UserID, "Payment Processed",
			fmt.Sprintf("Your payment of %s to %s has been processed.",
				formatAmount(cmd.Amount, from.Currency), cmd.RecipientName))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cmd.FromAccountID)
	s.publish(ctx, events.LedgerEventsStream, events.PaymentCompleted, events.PaymentCompletedEvent{
		TransactionID: transaction.ID,
		FromAccountID: cmd.FromAccountID,
		RecipientName: cmd.RecipientName,
		Amount:        cmd.Amount,
	})
	s.publishNotification(ctx, notification)
	return transaction, nil
}

// ApproveAccountRequest creates the requested account with the initial
// deposit as its opening balance, records the deposit transaction, marks
// the request approved and notifies the requester as one unit.
func (s *Service) ApproveAccountRequest(ctx context.Context, requestID string) (*models.Account, error) {
	var account *models.Account
	var notification *models.Notification
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		request, err := tx.AccountRequests().GetByID(ctx, requestID)
		if err != nil {
			return requestErr(err)
		}
		if request.Status != models.RequestStatusPending {
			return ErrInvalidState
		}

		account, err = s.createAccount(ctx, tx, request)
		if err != nil {
			return err
		}

		deposit := &models.Transaction{
			ID:          uuid.NewString(),
			ToAccountID: account.ID,
			Amount:      request.InitialDeposit,
			Type:        models.TransactionTypeDeposit,
			Status:      models.TransactionStatusCompleted,
			Description: "Initial deposit",
			ReferenceID: request.ID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Transactions().Create(ctx, deposit); err != nil {
			return err
		}

		if err := tx.AccountRequests().Transition(ctx, requestID, models.RequestStatusApproved); err != nil {
			return requestErr(err)
		}

		notification, err = s.notify(ctx, tx, request.UserID, "Account Request Approved",
			fmt.Sprintf("Your request for a new %s account has been approved.", request.AccountType))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.LedgerEventsStream, events.AccountRequestApproved, events.AccountRequestApprovedEvent{
		RequestID: requestID,
		AccountID: account.ID,
		UserID:    account.UserID,
		Balance:   account.Balance,
	})
	s.publishNotification(ctx, notification)
	return account, nil
}

// createAccount generates the opaque account and card identifiers. The
// account number carries a unique constraint; generation retries on a
// collision rather than surfacing it.
func (s *Service) createAccount(ctx context.Context, tx store.Store, request *models.AccountRequest) (*models.Account, error) {
	now := time.Now().UTC()
	for attempt := 0; attempt < accountCreateAttempts; attempt++ {
		account := &models.Account{
			ID:            uuid.NewString(),
			UserID:        request.UserID,
			AccountType:   request.AccountType,
			Name:          request.Name,
			Balance:       request.InitialDeposit,
			Currency:      s.currency,
			AccountNumber: utils.GenerateAccountNumber(),
			CardNumber:    utils.GenerateMaskedCardNumber(),
			CardExpiry:    utils.GenerateCardExpiry(5),
			Status:        "active",
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		err := tx.Accounts().Create(ctx, account)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("failed to allocate a unique account number after %d attempts", accountCreateAttempts)
}

// ApproveFundRequest credits the target account by the requested amount via
// the store-side atomic increment, records the deposit transaction, links
// it onto the request and notifies the requester as one unit.
func (s *Service) ApproveFundRequest(ctx context.Context, requestID string) (*models.Transaction, error) {
	var (
		deposit      *models.Transaction
		notification *models.Notification
		accountID    string
	)
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		request, err := tx.FundRequests().GetByID(ctx, requestID)
		if err != nil {
			return requestErr(err)
		}
		if request.Status != models.RequestStatusPending {
			return ErrInvalidState
		}

		account, err := tx.Accounts().GetByID(ctx, request.AccountID)
		if err != nil {
			return accountErr(err)
		}
		if err := tx.Accounts().Credit(ctx, account.ID, request.Amount); err != nil {
			return accountErr(err)
		}

		deposit = &models.Transaction{
			ID:          uuid.NewString(),
			ToAccountID: account.ID,
			Amount:      request.Amount,
			Type:        models.TransactionTypeDeposit,
			Status:      models.TransactionStatusCompleted,
			Description: "Deposit request",
			ReferenceID: request.ID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Transactions().Create(ctx, deposit); err != nil {
			return err
		}

		if err := tx.FundRequests().Approve(ctx, requestID, deposit.ID); err != nil {
			return requestErr(err)
		}

		accountID = account.ID
		notification, err = s.notify(ctx, tx, request.UserID, "Deposit Approved",
			fmt.Sprintf("Your deposit request of %s has been approved.",
				formatAmount(request.Amount, account.Currency)))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, accountID)
	s.publish(ctx, events.LedgerEventsStream, events.FundRequestApproved, events.FundRequestApprovedEvent{
		RequestID:     requestID,
		AccountID:     accountID,
		TransactionID: deposit.ID,
		Amount:        deposit.Amount,
	})
	s.publishNotification(ctx, notification)
	return deposit, nil
}

// RejectRequest moves a pending request to rejected and notifies the
// requester. Balances and transactions are untouched.
func (s *Service) RejectRequest(ctx context.Context, requestID string, kind RequestKind) error {
	var notification *models.Notification
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		switch kind {
		case RequestKindAccount:
			request, err := tx.AccountRequests().GetByID(ctx, requestID)
			if err != nil {
				return requestErr(err)
			}
			if request.Status != models.RequestStatusPending {
				return ErrInvalidState
			}
			if err := tx.AccountRequests().Transition(ctx, requestID, models.RequestStatusRejected); err != nil {
				return requestErr(err)
			}
			notification, err = s.notify(ctx, tx, request.UserID, "Account Request Rejected",
				"Your account request has been rejected. Please contact customer support for more information.")
			return err
		case RequestKindFund:
			request, err := tx.FundRequests().GetByID(ctx, requestID)
			if err != nil {
				return requestErr(err)
			}
			if request.Status != models.RequestStatusPending {
				return ErrInvalidState
			}
			if err := tx.FundRequests().Transition(ctx, requestID, models.RequestStatusRejected); err != nil {
				return requestErr(err)
			}
			notification, err = s.notify(ctx, tx, request.UserID, "Deposit Request Rejected",
				"Your deposit request has been rejected. Please contact customer support for more information.")
			return err
		default:
			return fmt.Errorf("%w: unknown request kind %q", ErrValidation, kind)
		}
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.LedgerEventsStream, events.RequestRejected, events.RequestRejectedEvent{
		RequestID:   requestID,
		RequestKind: string(kind),
		UserID:      notification.UserID,
	})
	s.publishNotification(ctx, notification)
	return nil
}

// notify inserts the notification row inside the operation's transaction
// scope, so approvals and rejections produce exactly one notification or
// none at all. The returned row feeds the post-commit notification event.
func (s *Service) notify(ctx context.Context, tx store.Store, userID, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Notifications().Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// publish is best-effort and runs after commit: a transport fault must not
// undo a committed ledger write.
func (s *Service) publish(ctx context.Context, stream, eventType string, data any) {
	if err := s.events.Publish(ctx, stream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

func (s *Service) publishNotification(ctx context.Context, notification *models.Notification) {
	s.publish(ctx, events.NotificationEventsStream, events.NotificationCreated, events.NotificationCreatedEvent{
		NotificationID: notification.ID,
		UserID:         notification.UserID,
		Title:          notification.Title,
		Message:        notification.Message,
	})
}

func (s *Service) invalidate(ctx context.Context, accountIDs ...string) {
	if s.views == nil {
		return
	}
	for _, id := range accountIDs {
		s.views.InvalidateAccount(ctx, id)
	}
}

func formatAmount(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + currency
}

// accountErr converts store-level account errors to the ledger taxonomy.
func accountErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrInsufficientBalance):
		return ErrInsufficientFunds
	default:
		return err
	}
}

// requestErr converts store-level request errors to the ledger taxonomy. A
// conflict means the request raced into a terminal status between the
// pending check and the transition.
func requestErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrConflict):
		return ErrInvalidState
	default:
		return err
	}
}
