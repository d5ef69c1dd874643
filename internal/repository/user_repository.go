package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grattalab/scratch-win-system/internal/model"
)

// UserRepository provides data access for store users and admin users.
type UserRepository struct {
	pool PoolInterface
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a UserRepository with a custom pool
// interface. Primarily used for testing.
func NewUserRepositoryWithPool(pool PoolInterface) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetStoreUserByEmail retrieves an active store user by email.
// Returns nil, nil if no such user exists.
func (r *UserRepository) GetStoreUserByEmail(ctx context.Context, email string) (*model.StoreUser, error) {
	query := `SELECT id, store_id, email, password_hash, name, role, active, created_at, last_login
	          FROM store_users WHERE email = $1 AND active = TRUE`

	var u model.StoreUser
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.StoreID, &u.Email, &u.PasswordHash,
		&u.Name, &u.Role, &u.Active, &u.CreatedAt, &u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store user by email: %w", err)
	}
	return &u, nil
}

// GetAdminByEmail retrieves an active admin user by email.
// Returns nil, nil if no such admin exists.
func (r *UserRepository) GetAdminByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	query := `SELECT id, email, password_hash, name, role, active, created_at
	          FROM admin_users WHERE email = $1 AND active = TRUE`

	var u model.AdminUser
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Active, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return &u, nil
}

// TouchLastLogin records a successful store-user login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE store_users SET last_login = $2 WHERE id = $1`, userID, at)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}
