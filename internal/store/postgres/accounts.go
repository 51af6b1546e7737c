package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	q querier
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, account_type, name, balance, currency, account_number, card_number, card_expiry, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.q.ExecContext(ctx, query,
		account.ID, account.UserID, account.AccountType, account.Name,
		account.Balance, account.Currency, account.AccountNumber,
		account.CardNumber, account.CardExpiry, account.Status,
		account.CreatedAt, account.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, user_id, account_type, name, balance, currency, account_number, card_number, card_expiry, status, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var account models.Account
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.UserID, &account.AccountType, &account.Name,
		&account.Balance, &account.Currency, &account.AccountNumber,
		&account.CardNumber, &account.CardExpiry, &account.Status,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) ListByUserID(ctx context.Context, userID string) ([]models.Account, error) {
	query := `
		SELECT id, user_id, account_type, name, balance, currency, account_number, card_number, card_expiry, status, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID, &account.UserID, &account.AccountType, &account.Name,
			&account.Balance, &account.Currency, &account.AccountNumber,
			&account.CardNumber, &account.CardExpiry, &account.Status,
			&account.CreatedAt, &account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Debit is the single conditional update the ledger relies on: the balance
// guard and the decrement are one statement, so a concurrent debit can
// never drive the balance negative.
func (r *accountRepository) Debit(ctx context.Context, id string, amount decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2
	`
	result, err := r.q.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return store.ErrInsufficientBalance
	}
	return nil
}

// Credit is the store-side atomic increment.
func (r *accountRepository) Credit(ctx context.Context, id string, amount decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.q.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}
