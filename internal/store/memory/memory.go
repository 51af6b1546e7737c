// Package memory implements the record store in process memory. It exists
// for tests and local development; the semantics mirror the postgres
// adapter, including conditional debits and snapshot-rollback transaction
// scopes.
package memory

import (
	"context"
	"sync"

	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
)

// state holds every table as a map of row values. Rows are stored and
// returned by value so callers can never mutate state behind the lock.
type state struct {
	profiles        map[string]models.Profile
	accounts        map[string]models.Account
	transactions    map[string]models.Transaction
	notifications   map[string]models.Notification
	accountRequests map[string]models.AccountRequest
	fundRequests    map[string]models.FundRequest
}

func newState() *state {
	return &state{
		profiles:        make(map[string]models.Profile),
		accounts:        make(map[string]models.Account),
		transactions:    make(map[string]models.Transaction),
		notifications:   make(map[string]models.Notification),
		accountRequests: make(map[string]models.AccountRequest),
		fundRequests:    make(map[string]models.FundRequest),
	}
}

func (st *state) clone() *state {
	cp := newState()
	for k, v := range st.profiles {
		cp.profiles[k] = v
	}
	for k, v := range st.accounts {
		cp.accounts[k] = v
	}
	for k, v := range st.transactions {
		cp.transactions[k] = v
	}
	for k, v := range st.notifications {
		cp.notifications[k] = v
	}
	for k, v := range st.accountRequests {
		cp.accountRequests[k] = v
	}
	for k, v := range st.fundRequests {
		cp.fundRequests[k] = v
	}
	return cp
}

// Store is the exported, lock-guarded adapter.
type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

// access runs fn against live state under the store lock. Repositories
// created inside a WithinTx scope bypass it and hit the snapshot directly;
// the enclosing WithinTx already holds the lock.
type access struct {
	s  *Store // nil inside a transaction scope
	st *state // snapshot, non-nil inside a transaction scope
}

func (a access) do(fn func(st *state) error) error {
	if a.s != nil {
		a.s.mu.Lock()
		defer a.s.mu.Unlock()
		return fn(a.s.st)
	}
	return fn(a.st)
}

func (s *Store) Profiles() store.ProfileRepository           { return &profileRepository{access{s: s}} }
func (s *Store) Accounts() store.AccountRepository           { return &accountRepository{access{s: s}} }
func (s *Store) Transactions() store.TransactionRepository   { return &transactionRepository{access{s: s}} }
func (s *Store) Notifications() store.NotificationRepository { return &notificationRepository{access{s: s}} }
func (s *Store) AccountRequests() store.AccountRequestRepository {
	return &accountRequestRepository{access{s: s}}
}
func (s *Store) FundRequests() store.FundRequestRepository { return &fundRequestRepository{access{s: s}} }

// WithinTx serialises the whole scope under the store lock and runs fn
// against a snapshot. The snapshot replaces live state only when fn
// succeeds, so a failing step leaves no partial effect.
func (s *Store) WithinTx(ctx context.Context, fn func(store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&txStore{st: snapshot}); err != nil {
		return err
	}
	s.st = snapshot
	return nil
}

// txStore operates on a snapshot without locking.
type txStore struct {
	st *state
}

func (t *txStore) Profiles() store.ProfileRepository           { return &profileRepository{access{st: t.st}} }
func (t *txStore) Accounts() store.AccountRepository           { return &accountRepository{access{st: t.st}} }
func (t *txStore) Transactions() store.TransactionRepository   { return &transactionRepository{access{st: t.st}} }
func (t *txStore) Notifications() store.NotificationRepository { return &notificationRepository{access{st: t.st}} }
func (t *txStore) AccountRequests() store.AccountRequestRepository {
	return &accountRequestRepository{access{st: t.st}}
}
func (t *txStore) FundRequests() store.FundRequestRepository {
	return &fundRequestRepository{access{st: t.st}}
}

// WithinTx on a snapshot joins the enclosing scope.
func (t *txStore) WithinTx(ctx context.Context, fn func(store.Store) error) error {
	return fn(t)
}

var (
	_ store.Store = (*Store)(nil)
	_ store.Store = (*txStore)(nil)
)
