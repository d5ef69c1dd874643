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

// mockTxQuerier implements database.TxQuerier for testing in-transaction writes.
type mockTxQuerier struct {
	execFn     func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *mockTxQuerier) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, arguments...)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockTxQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return &mockRow{}
}

func (m *mockTxQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return nil, errors.New("query not mocked")
}

// mockPrizeRows implements pgx.Rows yielding (prize_won, count) pairs.
type mockPrizeRows struct {
	names  []string
	counts []int
	index  int
}

func (m *mockPrizeRows) Close() {}

func (m *mockPrizeRows) Err() error { return nil }

func (m *mockPrizeRows) Next() bool {
	if m.index < len(m.names) {
		m.index++
		return true
	}
	return false
}

func (m *mockPrizeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = m.names[m.index-1]
	*(dest[1].(*int)) = m.counts[m.index-1]
	return nil
}

func (m *mockPrizeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockPrizeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockPrizeRows) RawValues() [][]byte                          { return nil }
func (m *mockPrizeRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockPrizeRows) Conn() *pgx.Conn                              { return nil }

func TestSessionRepository_Insert_Success(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any
	mockTx := &mockTxQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = arguments
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	prize := "Birra"
	repo := NewSessionRepositoryWithPool(&mockPool{})
	session := &model.GameSession{
		ID:         "sess_001",
		CampaignID: "camp_001",
		StoreID:    "store_001",
		IPAddress:  "203.0.113.7",
		UserEmail:  "anna@example.it",
		PrizeWon:   &prize,
		PlaySeq:    1,
		PlayedAt:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	err := repo.Insert(context.Background(), mockTx, session)

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "INSERT INTO game_sessions")
	assert.Equal(t, "sess_001", capturedArgs[0])
	assert.Equal(t, "camp_001", capturedArgs[1])
	assert.Equal(t, "203.0.113.7", capturedArgs[3])
	assert.Equal(t, 1, capturedArgs[8], "play_seq is the ninth column")
}

func TestSessionRepository_Insert_SlotTaken(t *testing.T) {
	mockTx := &mockTxQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			// Simulate the (campaign_id, ip_address, play_seq) constraint firing
			pgErr := &pgconn.PgError{
				Code:    "23505",
				Message: "duplicate key value violates unique constraint",
			}
			return pgconn.CommandTag{}, pgErr
		},
	}

	repo := NewSessionRepositoryWithPool(&mockPool{})

	err := repo.Insert(context.Background(), mockTx, &model.GameSession{ID: "sess_001", PlaySeq: 1})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrMaxPlaysReached), "a lost slot race is a play-limit denial")
}

func TestSessionRepository_Insert_DatabaseError(t *testing.T) {
	dbErr := errors.New("connection refused")
	mockTx := &mockTxQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, dbErr
		},
	}

	repo := NewSessionRepositoryWithPool(&mockPool{})

	err := repo.Insert(context.Background(), mockTx, &model.GameSession{ID: "sess_001"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrMaxPlaysReached))
	assert.True(t, errors.Is(err, dbErr), "should wrap original error")
}

func TestSessionRepository_Counts(t *testing.T) {
	dayStart := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	mockTx := &mockTxQuerier{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			assert.Contains(t, sql, "FROM game_sessions WHERE campaign_id = $1")
			assert.Equal(t, "camp_001", args[0])
			assert.Equal(t, "203.0.113.7", args[1])
			assert.Equal(t, dayStart, args[2])
			assert.Equal(t, dayEnd, args[3])
			return &mockRow{scanFn: func(dest ...any) error {
				*(dest[0].(*int)) = 1
				*(dest[1].(*int)) = 7
				*(dest[2].(*int)) = 42
				return nil
			}}
		},
	}

	repo := NewSessionRepositoryWithPool(&mockPool{})

	counts, err := repo.Counts(context.Background(), mockTx, "camp_001", "203.0.113.7", dayStart, dayEnd)

	require.NoError(t, err)
	assert.Equal(t, service.PlayCounts{ByIdentity: 1, Today: 7, Total: 42}, counts)
}

func TestSessionRepository_AwardedCounts(t *testing.T) {
	mockTx := &mockTxQuerier{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			assert.Contains(t, sql, "GROUP BY prize_won")
			return &mockPrizeRows{
				names:  []string{"Birra", "Caffè"},
				counts: []int{10, 3},
			}, nil
		},
	}

	repo := NewSessionRepositoryWithPool(&mockPool{})

	counts, err := repo.AwardedCounts(context.Background(), mockTx, "camp_001")

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Birra": 10, "Caffè": 3}, counts)
}

func TestSessionRepository_SetVoucherCode(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any
	mockTx := &mockTxQuerier{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = arguments
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}

	repo := NewSessionRepositoryWithPool(&mockPool{})

	err := repo.SetVoucherCode(context.Background(), mockTx, "sess_001", "AB12CD34-SKT9X1")

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "UPDATE game_sessions SET voucher_code")
	assert.Equal(t, "sess_001", capturedArgs[0])
	assert.Equal(t, "AB12CD34-SKT9X1", capturedArgs[1])
}
