// Package postgres implements the record store against PostgreSQL.
// It is the production adapter: the source of truth for accounts,
// transactions, requests, notifications and profiles.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/novabank/banking/internal/store"
)

// querier is satisfied by both *sql.DB and *sql.Tx so every repository
// works identically inside and outside a transaction scope.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	q  querier
}

// New creates a Store backed by the given database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Profiles() store.ProfileRepository               { return &profileRepository{q: s.q} }
func (s *Store) Accounts() store.AccountRepository               { return &accountRepository{q: s.q} }
func (s *Store) Transactions() store.TransactionRepository       { return &transactionRepository{q: s.q} }
func (s *Store) Notifications() store.NotificationRepository     { return &notificationRepository{q: s.q} }
func (s *Store) AccountRequests() store.AccountRequestRepository { return &accountRequestRepository{q: s.q} }
func (s *Store) FundRequests() store.FundRequestRepository       { return &fundRequestRepository{q: s.q} }

// WithinTx runs fn against a Store bound to a single database transaction.
// Any error (or panic) rolls the whole scope back. A Store already bound to
// a transaction joins it instead of opening a nested one.
func (s *Store) WithinTx(ctx context.Context, fn func(store.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
