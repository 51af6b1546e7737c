package memory

import (
	"context"
	"sort"

	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
	"github.com/shopspring/decimal"
)

type profileRepository struct {
	access
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.do(func(st *state) error {
		for _, p := range st.profiles {
			if p.Email == profile.Email {
				return store.ErrConflict
			}
		}
		st.profiles[profile.ID] = *profile
		return nil
	})
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.do(func(st *state) error {
		p, ok := st.profiles[id]
		if !ok {
			return store.ErrNotFound
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.do(func(st *state) error {
		for _, p := range st.profiles {
			if p.Email == email {
				profile = p
				return nil
			}
		}
		return store.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	profile, err := r.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return profile.Role == models.RoleAdmin, nil
}

type accountRepository struct {
	access
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.do(func(st *state) error {
		for _, a := range st.accounts {
			if a.AccountNumber == account.AccountNumber {
				return store.ErrConflict
			}
		}
		st.accounts[account.ID] = *account
		return nil
	})
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	err := r.do(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return store.ErrNotFound
		}
		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) ListByUserID(ctx context.Context, userID string) ([]models.Account, error) {
	var accounts []models.Account
	err := r.do(func(st *state) error {
		for _, a := range st.accounts {
			if a.UserID == userID {
				accounts = append(accounts, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *accountRepository) Debit(ctx context.Context, id string, amount decimal.Decimal) error {
	return r.do(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return store.ErrNotFound
		}
		if a.Balance.LessThan(amount) {
			return store.ErrInsufficientBalance
		}
		a.Balance = a.Balance.Sub(amount)
		st.accounts[id] = a
		return nil
	})
}

func (r *accountRepository) Credit(ctx context.Context, id string, amount decimal.Decimal) error {
	return r.do(func(st *state) error {
		a, ok := st.accounts[id]
		if !ok {
			return store.ErrNotFound
		}
		a.Balance = a.Balance.Add(amount)
		st.accounts[id] = a
		return nil
	})
}

type transactionRepository struct {
	access
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	return r.do(func(st *state) error {
		st.transactions[transaction.ID] = *transaction
		return nil
	})
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.do(func(st *state) error {
		t, ok := st.transactions[id]
		if !ok {
			return store.ErrNotFound
		}
		transaction = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) ListByAccountID(ctx context.Context, accountID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.do(func(st *state) error {
		for _, t := range st.transactions {
			if t.FromAccountID == accountID || t.ToAccountID == accountID {
				transactions = append(transactions, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions, nil
}

type notificationRepository struct {
	access
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.do(func(st *state) error {
		st.notifications[notification.ID] = *notification
		return nil
	})
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.do(func(st *state) error {
		for _, n := range st.notifications {
			if n.UserID == userID {
				notifications = append(notifications, n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	return r.do(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok || n.UserID != userID {
			return store.ErrNotFound
		}
		n.Read = true
		st.notifications[id] = n
		return nil
	})
}

type accountRequestRepository struct {
	access
}

func (r *accountRequestRepository) Create(ctx context.Context, request *models.AccountRequest) error {
	return r.do(func(st *state) error {
		st.accountRequests[request.ID] = *request
		return nil
	})
}

func (r *accountRequestRepository) GetByID(ctx context.Context, id string) (*models.AccountRequest, error) {
	var request models.AccountRequest
	err := r.do(func(st *state) error {
		req, ok := st.accountRequests[id]
		if !ok {
			return store.ErrNotFound
		}
		request = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *accountRequestRepository) List(ctx context.Context) ([]models.AccountRequestView, error) {
	var views []models.AccountRequestView
	err := r.do(func(st *state) error {
		for _, req := range st.accountRequests {
			view := models.AccountRequestView{AccountRequest: req}
			if p, ok := st.profiles[req.UserID]; ok {
				view.Requester = models.RequesterSummary{
					FirstName: p.FirstName, LastName: p.LastName, Email: p.Email,
				}
			}
			views = append(views, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}

func (r *accountRequestRepository) Transition(ctx context.Context, id, status string) error {
	return r.do(func(st *state) error {
		req, ok := st.accountRequests[id]
		if !ok {
			return store.ErrNotFound
		}
		if req.Status != models.RequestStatusPending {
			return store.ErrConflict
		}
		req.Status = status
		st.accountRequests[id] = req
		return nil
	})
}

type fundRequestRepository struct {
	access
}

func (r *fundRequestRepository) Create(ctx context.Context, request *models.FundRequest) error {
	return r.do(func(st *state) error {
		st.fundRequests[request.ID] = *request
		return nil
	})
}

func (r *fundRequestRepository) GetByID(ctx context.Context, id string) (*models.FundRequest, error) {
	var request models.FundRequest
	err := r.do(func(st *state) error {
		req, ok := st.fundRequests[id]
		if !ok {
			return store.ErrNotFound
		}
		request = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *fundRequestRepository) List(ctx context.Context) ([]models.FundRequestView, error) {
	var views []models.FundRequestView
	err := r.do(func(st *state) error {
		for _, req := range st.fundRequests {
			view := models.FundRequestView{FundRequest: req}
			if p, ok := st.profiles[req.UserID]; ok {
				view.Requester = models.RequesterSummary{
					FirstName: p.FirstName, LastName: p.LastName, Email: p.Email,
				}
			}
			if a, ok := st.accounts[req.AccountID]; ok {
				view.AccountName = a.Name
				view.AccountNumber = a.AccountNumber
			}
			views = append(views, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views, nil
}

func (r *fundRequestRepository) Approve(ctx context.Context, id, transactionID string) error {
	return r.do(func(st *state) error {
		req, ok := st.fundRequests[id]
		if !ok {
			return store.ErrNotFound
		}
		if req.Status != models.RequestStatusPending {
			return store.ErrConflict
		}
		req.Status = models.RequestStatusApproved
		req.TransactionID = transactionID
		st.fundRequests[id] = req
		return nil
	})
}

func (r *fundRequestRepository) Transition(ctx context.Context, id, status string) error {
	return r.do(func(st *state) error {
		req, ok := st.fundRequests[id]
		if !ok {
			return store.ErrNotFound
		}
		if req.Status != models.RequestStatusPending {
			return store.ErrConflict
		}
		req.Status = status
		st.fundRequests[id] = req
		return nil
	})
}
