package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
)

type transactionRepository struct {
	q querier
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, from_account_id, to_account_id, amount, transaction_type, status, description, recipient_name, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.q.ExecContext(ctx, query,
		transaction.ID,
		nullString(transaction.FromAccountID), nullString(transaction.ToAccountID),
		transaction.Amount, transaction.Type, transaction.Status,
		nullString(transaction.Description), nullString(transaction.RecipientName),
		nullString(transaction.ReferenceID), transaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `
		SELECT id, from_account_id, to_account_id, amount, transaction_type, status, description, recipient_name, reference_id, created_at
		FROM transactions
		WHERE id = $1
	`
	transaction, err := scanTransaction(r.q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

func (r *transactionRepository) ListByAccountID(ctx context.Context, accountID string) ([]models.Transaction, error) {
	query := `
		SELECT id, from_account_id, to_account_id, amount, transaction_type, status, description, recipient_name, reference_id, created_at
		FROM transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var transaction models.Transaction
	var fromID, toID, description, recipient, reference sql.NullString

	err := row.Scan(
		&transaction.ID, &fromID, &toID, &transaction.Amount,
		&transaction.Type, &transaction.Status,
		&description, &recipient, &reference, &transaction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	transaction.FromAccountID = fromID.String
	transaction.ToAccountID = toID.String
	transaction.Description = description.String
	transaction.RecipientName = recipient.String
	transaction.ReferenceID = reference.String
	return &transaction, nil
}
