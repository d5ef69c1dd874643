package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grattalab/scratch-win-system/internal/model"
	"github.com/grattalab/scratch-win-system/internal/service"
)

// mockRow implements pgx.Row for testing QueryRow-based lookups.
type mockRow struct {
	scanFn func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.scanFn != nil {
		return m.scanFn(dest...)
	}
	return nil
}

// mockPool implements PoolInterface for testing.
type mockPool struct {
	execFn     func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *mockPool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, arguments...)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return &mockRow{}
}

func (m *mockPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return nil, errors.New("query not mocked")
}

func TestStoreRepository_Insert_Success(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any

	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = arguments
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	repo := NewStoreRepositoryWithPool(mock)
	store := &model.Store{
		ID:        "store_001",
		Name:      "Bar Centrale",
		Slug:      "bar-centrale",
		Email:     "info@barcentrale.it",
		Active:    true,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	err := repo.Insert(context.Background(), store)

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "INSERT INTO stores")
	assert.Equal(t, "store_001", capturedArgs[0])
	assert.Equal(t, "bar-centrale", capturedArgs[2])
}

func TestStoreRepository_Insert_DuplicateSlug(t *testing.T) {
	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			// Simulate PostgreSQL unique violation error (code 23505)
			pgErr := &pgconn.PgError{
				Code:    "23505",
				Message: "duplicate key value violates unique constraint",
			}
			return pgconn.CommandTag{}, pgErr
		},
	}

	repo := NewStoreRepositoryWithPool(mock)

	err := repo.Insert(context.Background(), &model.Store{ID: "store_001", Slug: "bar-centrale"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrStoreExists), "should return ErrStoreExists for duplicate")
}

func TestStoreRepository_Insert_DatabaseError(t *testing.T) {
	dbErr := errors.New("connection refused")
	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, dbErr
		},
	}

	repo := NewStoreRepositoryWithPool(mock)

	err := repo.Insert(context.Background(), &model.Store{ID: "store_001", Slug: "bar-centrale"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrStoreExists), "should not return ErrStoreExists for generic error")
	assert.Contains(t, err.Error(), "insert store")
	assert.True(t, errors.Is(err, dbErr), "should wrap original error")
}

func TestStoreRepository_GetBySlug_NotFound(t *testing.T) {
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				return pgx.ErrNoRows
			}}
		},
	}

	repo := NewStoreRepositoryWithPool(mock)

	store, err := repo.GetBySlug(context.Background(), "bar-sconosciuto")

	require.NoError(t, err, "not found is not an error at the repository layer")
	assert.Nil(t, store)
}

func TestStoreRepository_GetBySlug_Found(t *testing.T) {
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			assert.Contains(t, sql, "FROM stores WHERE slug = $1")
			assert.Equal(t, "bar-centrale", args[0])
			return &mockRow{scanFn: func(dest ...any) error {
				*(dest[0].(*string)) = "store_001"
				*(dest[1].(*string)) = "Bar Centrale"
				*(dest[2].(*string)) = "bar-centrale"
				*(dest[7].(*bool)) = true
				return nil
			}}
		},
	}

	repo := NewStoreRepositoryWithPool(mock)

	store, err := repo.GetBySlug(context.Background(), "bar-centrale")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, "store_001", store.ID)
	assert.True(t, store.Active)
}

func TestStoreRepository_GetByID_QueryError(t *testing.T) {
	dbErr := errors.New("connection reset")
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error {
				return dbErr
			}}
		},
	}

	repo := NewStoreRepositoryWithPool(mock)

	_, err := repo.GetByID(context.Background(), "store_001")

	require.Error(t, err)
	assert.True(t, errors.Is(err, dbErr))
}
