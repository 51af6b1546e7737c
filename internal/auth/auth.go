// Package auth handles registration, login and token refresh. Registration
// provisions the profile together with a default checking account, its
// opening deposit and a welcome notification in one transactional scope.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
	"github.com/novabank/banking/internal/utils"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCredentials covers both unknown emails and wrong passwords,
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

var defaultOpeningBalance = decimal.NewFromInt(1000)

var (
	jwtSecretOnce sync.Once
	jwtSecretVal  []byte
)

func jwtSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			panic("JWT_SECRET environment variable is not set")
		}
		jwtSecretVal = []byte(secret)
	})
	return jwtSecretVal
}

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type Service struct {
	store    store.Store
	currency string
}

func NewService(st store.Store, currency string) *Service {
	return &Service{store: st, currency: currency}
}

type RegisterCommand struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginCommand struct {
	Email    string
	Password string
}

// Register creates the profile and its starter checking account. The account
// opens with a fixed balance and a matching deposit transaction so the books
// balance from the first row.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*models.Profile, string, error) {
	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	profile := &models.Profile{
		ID:           uuid.NewString(),
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
		Email:        cmd.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.Profiles().Create(ctx, profile); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrEmailTaken
			}
			return err
		}

		account := &models.Account{
			ID:            uuid.NewString(),
			UserID:        profile.ID,
			AccountType:   models.AccountTypeChecking,
			Name:          "Main Account",
			Balance:       defaultOpeningBalance,
			Currency:      s.currency,
			AccountNumber: utils.GenerateAccountNumber(),
			CardNumber:    utils.GenerateMaskedCardNumber(),
			CardExpiry:    utils.GenerateCardExpiry(5),
			Status:        "active",
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Accounts().Create(ctx, account); err != nil {
			return err
		}

		deposit := &models.Transaction{
			ID:          uuid.NewString(),
			ToAccountID: account.ID,
			Amount:      defaultOpeningBalance,
			Type:        models.TransactionTypeDeposit,
			Status:      models.TransactionStatusCompleted,
			Description: "Initial deposit",
			CreatedAt:   now,
		}
		if err := tx.Transactions().Create(ctx, deposit); err != nil {
			return err
		}

		welcome := &models.Notification{
			ID:        uuid.NewString(),
			UserID:    profile.ID,
			Title:     "Welcome to NovaBank",
			Message:   fmt.Sprintf("Hi %s, your account is ready. Your main account has been opened with an initial balance.", cmd.FirstName),
			CreatedAt: now,
		}
		return tx.Notifications().Create(ctx, welcome)
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(profile.ID, profile.Email)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (s *Service) Login(ctx context.Context, cmd LoginCommand) (string, error) {
	profile, err := s.store.Profiles().GetByEmail(ctx, cmd.Email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !utils.CheckPassword(cmd.Password, profile.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.generateToken(profile.ID, profile.Email)
}

// RefreshToken reissues a token for a still-valid one.
func (s *Service) RefreshToken(ctx context.Context, tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	return s.generateToken(claims.UserID, claims.Email)
}

func (s *Service) generateToken(userID, email string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}
