package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
)

type accountRequestRepository struct {
	q querier
}

func (r *accountRequestRepository) Create(ctx context.Context, request *models.AccountRequest) error {
	query := `
		INSERT INTO account_requests (id, user_id, account_type, name, initial_deposit, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		request.ID, request.UserID, request.AccountType, request.Name,
		request.InitialDeposit, request.Status, request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account request: %w", err)
	}
	return nil
}

func (r *accountRequestRepository) GetByID(ctx context.Context, id string) (*models.AccountRequest, error) {
	query := `
		SELECT id, user_id, account_type, name, initial_deposit, status, created_at, updated_at
		FROM account_requests
		WHERE id = $1
	`
	var request models.AccountRequest
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&request.ID, &request.UserID, &request.AccountType, &request.Name,
		&request.InitialDeposit, &request.Status, &request.CreatedAt, &request.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account request: %w", err)
	}
	return &request, nil
}

func (r *accountRequestRepository) List(ctx context.Context) ([]models.AccountRequestView, error) {
	query := `
		SELECT r.id, r.user_id, r.account_type, r.name, r.initial_deposit, r.status, r.created_at, r.updated_at,
			   p.first_name, p.last_name, p.email
		FROM account_requests r
		JOIN profiles p ON p.id = r.user_id
		ORDER BY r.created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list account requests: %w", err)
	}
	defer rows.Close()

	var views []models.AccountRequestView
	for rows.Next() {
		var view models.AccountRequestView
		if err := rows.Scan(
			&view.ID, &view.UserID, &view.AccountType, &view.Name,
			&view.InitialDeposit, &view.Status, &view.CreatedAt, &view.UpdatedAt,
			&view.Requester.FirstName, &view.Requester.LastName, &view.Requester.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account request: %w", err)
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func (r *accountRequestRepository) Transition(ctx context.Context, id, status string) error {
	query := `
		UPDATE account_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	return transitionRows(ctx, r.q, query, id, status, func() (bool, error) {
		_, err := r.GetByID(ctx, id)
		if err == store.ErrNotFound {
			return false, nil
		}
		return err == nil, err
	})
}

type fundRequestRepository struct {
	q querier
}

func (r *fundRequestRepository) Create(ctx context.Context, request *models.FundRequest) error {
	query := `
		INSERT INTO fund_requests (id, user_id, account_id, amount, status, transaction_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		request.ID, request.UserID, request.AccountID, request.Amount,
		request.Status, nullString(request.TransactionID),
		request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create fund request: %w", err)
	}
	return nil
}

func (r *fundRequestRepository) GetByID(ctx context.Context, id string) (*models.FundRequest, error) {
	query := `
		SELECT id, user_id, account_id, amount, status, transaction_id, created_at, updated_at
		FROM fund_requests
		WHERE id = $1
	`
	var request models.FundRequest
	var transactionID sql.NullString
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&request.ID, &request.UserID, &request.AccountID, &request.Amount,
		&request.Status, &transactionID, &request.CreatedAt, &request.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fund request: %w", err)
	}
	request.TransactionID = transactionID.String
	return &request, nil
}

func (r *fundRequestRepository) List(ctx context.Context) ([]models.FundRequestView, error) {
	query := `
		SELECT r.id, r.user_id, r.account_id, r.amount, r.status, r.transaction_id, r.created_at, r.updated_at,
			   p.first_name, p.last_name, p.email,
			   a.name, a.account_number
		FROM fund_requests r
		JOIN profiles p ON p.id = r.user_id
		JOIN accounts a ON a.id = r.account_id
		ORDER BY r.created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fund requests: %w", err)
	}
	defer rows.Close()

	var views []models.FundRequestView
	for rows.Next() {
		var view models.FundRequestView
		var transactionID sql.NullString
		if err := rows.Scan(
			&view.ID, &view.UserID, &view.AccountID, &view.Amount,
			&view.Status, &transactionID, &view.CreatedAt, &view.UpdatedAt,
			&view.Requester.FirstName, &view.Requester.LastName, &view.Requester.Email,
			&view.AccountName, &view.AccountNumber,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fund request: %w", err)
		}
		view.TransactionID = transactionID.String
		views = append(views, view)
	}
	return views, rows.Err()
}

// Approve sets the terminal status and the transaction link in one guarded
// update, so a concurrent approval can never attach a second transaction.
func (r *fundRequestRepository) Approve(ctx context.Context, id, transactionID string) error {
	query := `
		UPDATE fund_requests
		SET status = 'approved', transaction_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	return transitionRows(ctx, r.q, query, id, transactionID, func() (bool, error) {
		_, err := r.GetByID(ctx, id)
		if err == store.ErrNotFound {
			return false, nil
		}
		return err == nil, err
	})
}

func (r *fundRequestRepository) Transition(ctx context.Context, id, status string) error {
	query := `
		UPDATE fund_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	return transitionRows(ctx, r.q, query, id, status, func() (bool, error) {
		_, err := r.GetByID(ctx, id)
		if err == store.ErrNotFound {
			return false, nil
		}
		return err == nil, err
	})
}

// transitionRows executes a pending-guarded update and distinguishes a
// missing row (ErrNotFound) from a row already in a terminal status
// (ErrConflict) when no rows matched.
func transitionRows(ctx context.Context, q querier, query, id string, arg any, exists func() (bool, error)) error {
	result, err := q.ExecContext(ctx, query, id, arg)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}
	found, err := exists()
	if err != nil {
		return err
	}
	if !found {
		return store.ErrNotFound
	}
	return store.ErrConflict
}
