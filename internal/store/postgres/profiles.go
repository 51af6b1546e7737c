package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
)

type profileRepository struct {
	q querier
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, first_name, last_name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		profile.ID, profile.FirstName, profile.LastName, profile.Email,
		profile.PasswordHash, profile.Role, profile.CreatedAt, profile.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *profileRepository) get(ctx context.Context, where string, arg any) (*models.Profile, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role, created_at, updated_at
		FROM profiles
	` + where
	var profile models.Profile
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&profile.ID, &profile.FirstName, &profile.LastName, &profile.Email,
		&profile.PasswordHash, &profile.Role, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// IsAdmin is the role check backing the admin middleware.
func (r *profileRepository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	query := `SELECT role = 'admin' FROM profiles WHERE id = $1`
	var isAdmin bool
	err := r.q.QueryRowContext(ctx, query, userID).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		return false, store.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return isAdmin, nil
}
