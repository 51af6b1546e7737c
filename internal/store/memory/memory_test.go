package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
	"github.com/shopspring/decimal"
)

func testAccount(id, userID string, balance int64) *models.Account {
	return &models.Account{
		ID:            id,
		UserID:        userID,
		AccountType:   models.AccountTypeChecking,
		Name:          "Main Account",
		Balance:       decimal.NewFromInt(balance),
		Currency:      "INR",
		AccountNumber: "00000" + id,
		Status:        "active",
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}

func TestDebitGuard(t *testing.T) {
	ctx := context.Background()
	st := New()
	if err := st.Accounts().Create(ctx, testAccount("a1", "u1", 100)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := st.Accounts().Debit(ctx, "a1", decimal.NewFromInt(100)); err != nil {
		t.Fatalf("debit to zero should succeed: %v", err)
	}
	if err := st.Accounts().Debit(ctx, "a1", decimal.NewFromInt(1)); !errors.Is(err, store.ErrInsufficientBalance) {
		t.Fatalf("overdraft: got %v, want ErrInsufficientBalance", err)
	}
	if err := st.Accounts().Debit(ctx, "missing", decimal.NewFromInt(1)); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing account: got %v, want ErrNotFound", err)
	}

	account, err := st.Accounts().GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !account.Balance.Equal(decimal.Zero) {
		t.Errorf("balance = %s, want 0", account.Balance)
	}
}

func TestWithinTxRollback(t *testing.T) {
	ctx := context.Background()
	st := New()
	if err := st.Accounts().Create(ctx, testAccount("a1", "u1", 100)); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := st.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.Accounts().Debit(ctx, "a1", decimal.NewFromInt(40)); err != nil {
			return err
		}
		if err := tx.Accounts().Create(ctx, testAccount("a2", "u1", 0)); err != nil {
			return err
		}
		return fmt.Errorf("forced failure")
	})
	if err == nil {
		t.Fatal("expected the scope to fail")
	}

	account, err := st.Accounts().GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !account.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %s after rollback, want 100", account.Balance)
	}
	if _, err := st.Accounts().GetByID(ctx, "a2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("rolled-back create still visible: %v", err)
	}
}

func TestWithinTxCommit(t *testing.T) {
	ctx := context.Background()
	st := New()
	if err := st.Accounts().Create(ctx, testAccount("a1", "u1", 100)); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := st.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.Accounts().Debit(ctx, "a1", decimal.NewFromInt(40)); err != nil {
			return err
		}
		return tx.Accounts().Create(ctx, testAccount("a2", "u1", 40))
	})
	if err != nil {
		t.Fatalf("scope failed: %v", err)
	}

	account, err := st.Accounts().GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !account.Balance.Equal(decimal.NewFromInt(60)) {
		t.Errorf("balance = %s after commit, want 60", account.Balance)
	}
	if _, err := st.Accounts().GetByID(ctx, "a2"); err != nil {
		t.Errorf("committed create not visible: %v", err)
	}
}

func TestRequestTransitionGuards(t *testing.T) {
	ctx := context.Background()
	st := New()

	request := &models.AccountRequest{
		ID: "r1", UserID: "u1", AccountType: models.AccountTypeSavings,
		Name: "Travel Fund", InitialDeposit: decimal.NewFromInt(2000),
		Status:    models.RequestStatusPending,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	if err := st.AccountRequests().Create(ctx, request); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := st.AccountRequests().Transition(ctx, "r1", models.RequestStatusApproved); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	if err := st.AccountRequests().Transition(ctx, "r1", models.RequestStatusRejected); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("terminal transition: got %v, want ErrConflict", err)
	}
	if err := st.AccountRequests().Transition(ctx, "missing", models.RequestStatusApproved); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing request: got %v, want ErrNotFound", err)
	}
}

func TestUniqueEmailConflict(t *testing.T) {
	ctx := context.Background()
	st := New()

	profile := &models.Profile{
		ID: "u1", FirstName: "Asha", LastName: "Rao",
		Email: "asha@example.com", Role: models.RoleUser,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	if err := st.Profiles().Create(ctx, profile); err != nil {
		t.Fatalf("create: %v", err)
	}

	duplicate := *profile
	duplicate.ID = "u2"
	if err := st.Profiles().Create(ctx, &duplicate); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate email: got %v, want ErrConflict", err)
	}
}
