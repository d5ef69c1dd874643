package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grattalab/scratch-win-system/internal/model"
	"github.com/grattalab/scratch-win-system/internal/service"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// StoreRepository provides data access for stores using pgx.
type StoreRepository struct {
	pool PoolInterface
}

// NewStoreRepository creates a new StoreRepository with the given pool.
func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{pool: pool}
}

// NewStoreRepositoryWithPool creates a StoreRepository with a custom pool
// interface. Primarily used for testing.
func NewStoreRepositoryWithPool(pool PoolInterface) *StoreRepository {
	return &StoreRepository{pool: pool}
}

// Insert inserts a new store.
// Returns service.ErrStoreExists if the slug is already taken.
func (r *StoreRepository) Insert(ctx context.Context, store *model.Store) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO stores (id, name, slug, email, phone, address, logo, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		store.ID, store.Name, store.Slug, store.Email,
		store.Phone, store.Address, store.Logo, store.Active, store.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrStoreExists
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetBySlug retrieves a store by its slug.
// Returns nil, nil if the store is not found (service layer handles this).
func (r *StoreRepository) GetBySlug(ctx context.Context, slug string) (*model.Store, error) {
	query := `SELECT id, name, slug, email, phone, address, logo, active, created_at, updated_at
	          FROM stores WHERE slug = $1`

	var store model.Store
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&store.ID, &store.Name, &store.Slug, &store.Email,
		&store.Phone, &store.Address, &store.Logo, &store.Active,
		&store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store by slug %s: %w", slug, err)
	}
	return &store, nil
}

// GetByID retrieves a store by id.
// Returns nil, nil if the store is not found.
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*model.Store, error) {
	query := `SELECT id, name, slug, email, phone, address, logo, active, created_at, updated_at
	          FROM stores WHERE id = $1`

	var store model.Store
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&store.ID, &store.Name, &store.Slug, &store.Email,
		&store.Phone, &store.Address, &store.Logo, &store.Active,
		&store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store by id %s: %w", id, err)
	}
	return &store, nil
}

// List retrieves all stores, newest first.
func (r *StoreRepository) List(ctx context.Context) ([]model.Store, error) {
	query := `SELECT id, name, slug, email, phone, address, logo, active, created_at, updated_at
	          FROM stores ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	stores := []model.Store{}
	for rows.Next() {
		var store model.Store
		if err := rows.Scan(
			&store.ID, &store.Name, &store.Slug, &store.Email,
			&store.Phone, &store.Address, &store.Logo, &store.Active,
			&store.CreatedAt, &store.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores rows: %w", err)
	}
	return stores, nil
}
