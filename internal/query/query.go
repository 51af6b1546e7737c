// Package query is the read side: account and transaction views served from
// a Redis projection cache with the record store as the source of truth.
// Ownership is enforced here so handlers never leak other users' records.
package query

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/novabank/banking/internal/ledger"
	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/redis"
	"github.com/novabank/banking/internal/store"
)

const accountViewKeyPrefix = "account:view:"

// accountCacheEntry is the internal Redis representation of an account.
// Unlike models.AccountView, it serialises UserID so ownership checks work
// on cache hits.
type accountCacheEntry struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	AccountType   string          `json:"accountType"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	AccountNumber string          `json:"accountNumber"`
	CardNumber    string          `json:"cardNumber"`
	CardExpiry    string          `json:"cardExpiry"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdTimestamp"`
	UpdatedAt     time.Time       `json:"updatedTimestamp"`
}

func cacheEntryToView(e *accountCacheEntry) *models.AccountView {
	return &models.AccountView{
		ID:            e.ID,
		UserID:        e.UserID,
		AccountType:   e.AccountType,
		Name:          e.Name,
		Balance:       e.Balance,
		Currency:      e.Currency,
		AccountNumber: e.AccountNumber,
		CardNumber:    e.CardNumber,
		CardExpiry:    e.CardExpiry,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func accountToEntry(a *models.Account) *accountCacheEntry {
	return &accountCacheEntry{
		ID:            a.ID,
		UserID:        a.UserID,
		AccountType:   a.AccountType,
		Name:          a.Name,
		Balance:       a.Balance,
		Currency:      a.Currency,
		AccountNumber: a.AccountNumber,
		CardNumber:    a.CardNumber,
		CardExpiry:    a.CardExpiry,
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountQueryService serves account views, trying Redis first and warming
// the cache on every cold read. A nil redis client disables caching.
type AccountQueryService struct {
	store store.Store
	cache *redis.ViewCache[accountCacheEntry]
}

func NewAccountQueryService(st store.Store, client *goredis.Client, ttl time.Duration) *AccountQueryService {
	s := &AccountQueryService{store: st}
	if client != nil {
		s.cache = redis.NewViewCache[accountCacheEntry](client, ttl)
	}
	return s
}

// GetAccount returns the account view. Accounts owned by other users
// resolve to not-found so their existence is never revealed.
func (s *AccountQueryService) GetAccount(ctx context.Context, accountID, requestingUserID string) (*models.AccountView, error) {
	cacheKey := accountViewKeyPrefix + accountID

	if s.cache != nil {
		if entry, ok := s.cache.Get(ctx, cacheKey); ok {
			if entry.UserID != requestingUserID {
				return nil, ledger.ErrNotFound
			}
			return cacheEntryToView(entry), nil
		}
	}

	account, err := s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}

	entry := accountToEntry(account)
	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, entry)
	}
	if entry.UserID != requestingUserID {
		return nil, ledger.ErrNotFound
	}
	return cacheEntryToView(entry), nil
}

// ListAccounts returns all of the user's accounts straight from the store;
// the listing is not cached.
func (s *AccountQueryService) ListAccounts(ctx context.Context, userID string) ([]models.AccountView, error) {
	accounts, err := s.store.Accounts().ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]models.AccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, *cacheEntryToView(accountToEntry(&accounts[i])))
	}
	return views, nil
}

// InvalidateAccount drops the cached projection after a balance change.
func (s *AccountQueryService) InvalidateAccount(ctx context.Context, accountID string) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, accountViewKeyPrefix+accountID)
}

type TransactionQueryService struct {
	store store.Store
}

func NewTransactionQueryService(st store.Store) *TransactionQueryService {
	return &TransactionQueryService{store: st}
}

// ListTransactions returns the account's transactions newest first. The
// account must belong to the requesting user.
func (s *TransactionQueryService) ListTransactions(ctx context.Context, accountID, requestingUserID string) ([]models.TransactionView, error) {
	account, err := s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	if account.UserID != requestingUserID {
		return nil, ledger.ErrNotFound
	}

	transactions, err := s.store.Transactions().ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	views := make([]models.TransactionView, 0, len(transactions))
	for _, tx := range transactions {
		views = append(views, models.TransactionView{
			ID:            tx.ID,
			FromAccountID: tx.FromAccountID,
			ToAccountID:   tx.ToAccountID,
			Amount:        tx.Amount,
			Type:          tx.Type,
			Status:        tx.Status,
			Description:   tx.Description,
			RecipientName: tx.RecipientName,
			CreatedAt:     tx.CreatedAt,
		})
	}
	return views, nil
}
