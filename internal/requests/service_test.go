package requests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/novabank/banking/internal/events"
	"github.com/novabank/banking/internal/ledger"
	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
	"github.com/novabank/banking/internal/store/memory"
	"github.com/shopspring/decimal"
)

func newWorkflow(st store.Store) *Service {
	return NewService(st, ledger.NewService(st, events.NopSink{}, nil, "INR"))
}

func seedAccount(t *testing.T, st store.Store, userID string, balance int64) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:            uuid.NewString(),
		UserID:        userID,
		AccountType:   models.AccountTypeChecking,
		Name:          "Main Account",
		Balance:       decimal.NewFromInt(balance),
		Currency:      "INR",
		AccountNumber: uuid.NewString()[:10],
		Status:        "active",
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := st.Accounts().Create(context.Background(), account); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return account
}

func TestSubmitAccountRequest(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cmd     SubmitAccountRequestCommand
		wantErr error
	}{
		{
			name: "success",
			cmd: SubmitAccountRequestCommand{
				UserID: "usr-001", AccountType: models.AccountTypeSavings,
				Name: "Travel Fund", InitialDeposit: decimal.NewFromInt(2000),
			},
		},
		{
			name: "success - exactly at minimum",
			cmd: SubmitAccountRequestCommand{
				UserID: "usr-001", AccountType: models.AccountTypeChecking,
				Name: "Spending", InitialDeposit: decimal.NewFromInt(1000),
			},
		},
		{
			name: "below minimum deposit",
			cmd: SubmitAccountRequestCommand{
				UserID: "usr-001", AccountType: models.AccountTypeSavings,
				Name: "Travel Fund", InitialDeposit: decimal.NewFromInt(999),
			},
			wantErr: ledger.ErrValidation,
		},
		{
			name: "unknown account type",
			cmd: SubmitAccountRequestCommand{
				UserID: "usr-001", AccountType: "offshore",
				Name: "Hidden", InitialDeposit: decimal.NewFromInt(5000),
			},
			wantErr: ledger.ErrValidation,
		},
		{
			name: "missing name",
			cmd: SubmitAccountRequestCommand{
				UserID: "usr-001", AccountType: models.AccountTypeSavings,
				InitialDeposit: decimal.NewFromInt(2000),
			},
			wantErr: ledger.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newWorkflow(memory.New())
			request, err := svc.SubmitAccountRequest(ctx, tt.cmd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if request.Status != models.RequestStatusPending {
				t.Errorf("new request status = %s, want pending", request.Status)
			}
		})
	}
}

func TestSubmitFundRequest(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := newWorkflow(st)
	account := seedAccount(t, st, "usr-001", 300)

	request, err := svc.SubmitFundRequest(ctx, SubmitFundRequestCommand{
		UserID: "usr-001", AccountID: account.ID, Amount: decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Status != models.RequestStatusPending {
		t.Errorf("new request status = %s, want pending", request.Status)
	}
	if request.TransactionID != "" {
		t.Errorf("new request must not carry a transaction link, got %s", request.TransactionID)
	}

	if _, err := svc.SubmitFundRequest(ctx, SubmitFundRequestCommand{
		UserID: "usr-001", AccountID: account.ID, Amount: decimal.NewFromInt(99),
	}); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("below-minimum amount: got %v, want ErrValidation", err)
	}

	if _, err := svc.SubmitFundRequest(ctx, SubmitFundRequestCommand{
		UserID: "usr-002", AccountID: account.ID, Amount: decimal.NewFromInt(150),
	}); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("other user's account: got %v, want ErrNotFound", err)
	}

	if _, err := svc.SubmitFundRequest(ctx, SubmitFundRequestCommand{
		UserID: "usr-001", AccountID: "acc-missing", Amount: decimal.NewFromInt(150),
	}); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("missing account: got %v, want ErrNotFound", err)
	}
}

// End-to-end: submit, review, approve.
func TestAccountRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := newWorkflow(st)

	profile := &models.Profile{
		ID: "usr-001", FirstName: "Asha", LastName: "Rao",
		Email: "asha@example.com", Role: models.RoleUser,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	if err := st.Profiles().Create(ctx, profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	request, err := svc.SubmitAccountRequest(ctx, SubmitAccountRequestCommand{
		UserID: "usr-001", AccountType: models.AccountTypeSavings,
		Name: "Travel Fund", InitialDeposit: decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	views, err := svc.ListAccountRequests(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(views))
	}
	if views[0].Requester.Email != "asha@example.com" {
		t.Errorf("requester email = %q", views[0].Requester.Email)
	}

	account, err := svc.ApproveAccountRequest(ctx, request.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if !account.Balance.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("opening balance = %s, want 2000", account.Balance)
	}

	if err := svc.RejectAccountRequest(ctx, request.ID); !errors.Is(err, ledger.ErrInvalidState) {
		t.Errorf("reject after approve: got %v, want ErrInvalidState", err)
	}
}

func TestFundRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := newWorkflow(st)
	account := seedAccount(t, st, "usr-001", 300)

	request, err := svc.SubmitFundRequest(ctx, SubmitFundRequestCommand{
		UserID: "usr-001", AccountID: account.ID, Amount: decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := svc.RejectFundRequest(ctx, request.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	updated, err := st.FundRequests().GetByID(ctx, request.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if updated.Status != models.RequestStatusRejected {
		t.Errorf("status = %s, want rejected", updated.Status)
	}
	if updated.TransactionID != "" {
		t.Errorf("rejected request carries transaction %s", updated.TransactionID)
	}

	account2, err := st.Accounts().GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !account2.Balance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("balance = %s, rejection must not move funds", account2.Balance)
	}

	if _, err := svc.ApproveFundRequest(ctx, request.ID); !errors.Is(err, ledger.ErrInvalidState) {
		t.Errorf("approve after reject: got %v, want ErrInvalidState", err)
	}
}
