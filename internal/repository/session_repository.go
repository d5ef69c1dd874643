package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grattalab/scratch-win-system/internal/model"
	"github.com/grattalab/scratch-win-system/internal/service"
	"github.com/grattalab/scratch-win-system/pkg/database"
)

// SessionRepository provides data access for game sessions using pgx.
// Methods take a database.TxQuerier because every session write happens
// inside the play transaction.
type SessionRepository struct {
	pool PoolInterface
}

// NewSessionRepository creates a new SessionRepository with the given pool.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// NewSessionRepositoryWithPool creates a SessionRepository with a custom
// pool interface. Primarily used for testing.
func NewSessionRepositoryWithPool(pool PoolInterface) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Counts returns the prior-session counts the eligibility caps are checked
// against, in a single query. The per-day count is scoped to the half-open
// [dayStart, dayEnd) interval.
func (r *SessionRepository) Counts(ctx context.Context, q database.TxQuerier, campaignID, ipAddress string, dayStart, dayEnd time.Time) (service.PlayCounts, error) {
	query := `SELECT
	            COUNT(*) FILTER (WHERE ip_address = $2),
	            COUNT(*) FILTER (WHERE played_at >= $3 AND played_at < $4),
	            COUNT(*)
	          FROM game_sessions WHERE campaign_id = $1`

	var counts service.PlayCounts
	err := q.QueryRow(ctx, query, campaignID, ipAddress, dayStart, dayEnd).Scan(
		&counts.ByIdentity, &counts.Today, &counts.Total,
	)
	if err != nil {
		return service.PlayCounts{}, fmt.Errorf("count sessions for campaign %s: %w", campaignID, err)
	}
	return counts, nil
}

// AwardedCounts returns how many times each prize name has been awarded on
// the campaign. Used to exclude stock-exhausted prizes before the draw.
func (r *SessionRepository) AwardedCounts(ctx context.Context, q database.TxQuerier, campaignID string) (map[string]int, error) {
	query := `SELECT prize_won, COUNT(*) FROM game_sessions
	          WHERE campaign_id = $1 AND prize_won IS NOT NULL GROUP BY prize_won`

	rows, err := q.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("count awarded prizes for campaign %s: %w", campaignID, err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan awarded prize count: %w", err)
		}
		counts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate awarded prize rows: %w", err)
	}
	return counts, nil
}

// Insert inserts a new game session within the play transaction.
// Returns service.ErrMaxPlaysReached when the (campaign_id, ip_address,
// play_seq) uniqueness constraint fires: a concurrent play already took
// this identity's next slot, so the race is lost and the play is denied.
func (r *SessionRepository) Insert(ctx context.Context, q database.TxQuerier, s *model.GameSession) error {
	userData, err := json.Marshal(s.UserData)
	if err != nil {
		return fmt.Errorf("marshal user data: %w", err)
	}

	_, err = q.Exec(ctx,
		`INSERT INTO game_sessions (id, campaign_id, store_id, ip_address, user_email,
		                            user_data, prize_won, voucher_code, play_seq, played_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.CampaignID, s.StoreID, s.IPAddress, s.UserEmail,
		userData, s.PrizeWon, s.VoucherCode, s.PlaySeq, s.PlayedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrMaxPlaysReached
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SetVoucherCode binds the issued voucher code to its session within the
// play transaction. The session is immutable after commit.
func (r *SessionRepository) SetVoucherCode(ctx context.Context, q database.TxQuerier, sessionID, code string) error {
	_, err := q.Exec(ctx,
		`UPDATE game_sessions SET voucher_code = $2 WHERE id = $1`, sessionID, code)
	if err != nil {
		return fmt.Errorf("set session voucher code: %w", err)
	}
	return nil
}
