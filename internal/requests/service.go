// Package requests covers the request lifecycle around the ledger: users
// submit account and fund requests, administrators list and resolve them.
// Approvals and rejections delegate to the ledger service; admin role
// enforcement is a middleware precondition, not re-checked here.
package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/novabank/banking/internal/ledger"
	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
	"github.com/shopspring/decimal"
)

// Review thresholds, in the account currency's major unit.
var (
	MinInitialDeposit = decimal.NewFromInt(1000)
	MinFundAmount     = decimal.NewFromInt(100)
)

// Ledger is the slice of the ledger service the workflow invokes.
type Ledger interface {
	ApproveAccountRequest(ctx context.Context, requestID string) (*models.Account, error)
	ApproveFundRequest(ctx context.Context, requestID string) (*models.Transaction, error)
	RejectRequest(ctx context.Context, requestID string, kind ledger.RequestKind) error
}

type Service struct {
	store  store.Store
	ledger Ledger
}

func NewService(st store.Store, lg Ledger) *Service {
	return &Service{store: st, ledger: lg}
}

type SubmitAccountRequestCommand struct {
	UserID         string
	AccountType    string
	Name           string
	InitialDeposit decimal.Decimal
}

type SubmitFundRequestCommand struct {
	UserID    string
	AccountID string
	Amount    decimal.Decimal
}

// SubmitAccountRequest records a user's proposal for a new account. It
// waits in pending until an administrator resolves it.
func (s *Service) SubmitAccountRequest(ctx context.Context, cmd SubmitAccountRequestCommand) (*models.AccountRequest, error) {
	switch cmd.AccountType {
	case models.AccountTypeChecking, models.AccountTypeSavings, models.AccountTypeFixedDeposit:
	default:
		return nil, fmt.Errorf("%w: unknown account type %q", ledger.ErrValidation, cmd.AccountType)
	}
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: account name is required", ledger.ErrValidation)
	}
	if cmd.InitialDeposit.LessThan(MinInitialDeposit) {
		return nil, fmt.Errorf("%w: minimum initial deposit is %s", ledger.ErrValidation, MinInitialDeposit)
	}

	now := time.Now().UTC()
	request := &models.AccountRequest{
		ID:             uuid.NewString(),
		UserID:         cmd.UserID,
		AccountType:    cmd.AccountType,
		Name:           cmd.Name,
		InitialDeposit: cmd.InitialDeposit,
		Status:         models.RequestStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.AccountRequests().Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// SubmitFundRequest records a user's proposal to deposit into one of their
// own accounts.
func (s *Service) SubmitFundRequest(ctx context.Context, cmd SubmitFundRequestCommand) (*models.FundRequest, error) {
	if cmd.Amount.LessThan(MinFundAmount) {
		return nil, fmt.Errorf("%w: minimum amount is %s", ledger.ErrValidation, MinFundAmount)
	}

	account, err := s.store.Accounts().GetByID(ctx, cmd.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	if account.UserID != cmd.UserID {
		return nil, ledger.ErrNotFound
	}

	now := time.Now().UTC()
	request := &models.FundRequest{
		ID:        uuid.NewString(),
		UserID:    cmd.UserID,
		AccountID: cmd.AccountID,
		Amount:    cmd.Amount,
		Status:    models.RequestStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.FundRequests().Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// ListAccountRequests returns every account request joined with requester
// details, newest first, for the admin review table.
func (s *Service) ListAccountRequests(ctx context.Context) ([]models.AccountRequestView, error) {
	return s.store.AccountRequests().List(ctx)
}

// ListFundRequests returns every fund request joined with requester and
// target account details, newest first.
func (s *Service) ListFundRequests(ctx context.Context) ([]models.FundRequestView, error) {
	return s.store.FundRequests().List(ctx)
}

func (s *Service) ApproveAccountRequest(ctx context.Context, requestID string) (*models.Account, error) {
	return s.ledger.ApproveAccountRequest(ctx, requestID)
}

func (s *Service) ApproveFundRequest(ctx context.Context, requestID string) (*models.Transaction, error) {
	return s.ledger.ApproveFundRequest(ctx, requestID)
}

func (s *Service) RejectAccountRequest(ctx context.Context, requestID string) error {
	return s.ledger.RejectRequest(ctx, requestID, ledger.RequestKindAccount)
}

func (s *Service) RejectFundRequest(ctx context.Context, requestID string) error {
	return s.ledger.RejectRequest(ctx, requestID, ledger.RequestKindFund)
}
