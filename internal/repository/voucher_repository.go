package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grattalab/scratch-win-system/internal/model"
	"github.com/grattalab/scratch-win-system/internal/service"
	"github.com/grattalab/scratch-win-system/pkg/database"
)

// VoucherRepository provides data access for vouchers using pgx.
// Vouchers are append-only; the only mutation is the one-shot redemption
// update, which is conditioned on the redeemed flag at write time.
type VoucherRepository struct {
	pool PoolInterface
}

// NewVoucherRepository creates a new VoucherRepository with the given pool.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// NewVoucherRepositoryWithPool creates a VoucherRepository with a custom
// pool interface. Primarily used for testing.
func NewVoucherRepositoryWithPool(pool PoolInterface) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// Insert inserts a new voucher within the play transaction.
// Returns service.ErrVoucherCodeTaken if the code already exists; the
// issuer regenerates and retries.
func (r *VoucherRepository) Insert(ctx context.Context, q database.TxQuerier, v *model.Voucher) error {
	_, err := q.Exec(ctx,
		`INSERT INTO vouchers (code, campaign_id, store_id, session_id, prize_name,
		                       prize_description, created_at, expires_at, redeemed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)`,
		v.Code, v.CampaignID, v.StoreID, v.SessionID, v.PrizeName,
		v.PrizeDescription, v.CreatedAt, v.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrVoucherCodeTaken
		}
		return fmt.Errorf("insert voucher: %w", err)
	}
	return nil
}

// GetByCode retrieves a voucher by its code.
// Returns nil, nil if not found.
func (r *VoucherRepository) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	query := `SELECT code, campaign_id, store_id, session_id, prize_name, prize_description,
	                 created_at, expires_at, redeemed, redeemed_at, redeemed_by
	          FROM vouchers WHERE code = $1`

	var v model.Voucher
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&v.Code, &v.CampaignID, &v.StoreID, &v.SessionID, &v.PrizeName, &v.PrizeDescription,
		&v.CreatedAt, &v.ExpiresAt, &v.Redeemed, &v.RedeemedAt, &v.RedeemedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher by code: %w", err)
	}
	return &v, nil
}

// MarkRedeemed performs the conditional redemption update. Returns false
// when no row changed, meaning the voucher was already redeemed by a
// concurrent request; the caller decides the outcome. There is no
// read-modify-write race: the update is conditioned on redeemed = FALSE.
func (r *VoucherRepository) MarkRedeemed(ctx context.Context, code, redeemedBy string, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vouchers SET redeemed = TRUE, redeemed_at = $2, redeemed_by = $3
		 WHERE code = $1 AND redeemed = FALSE`,
		code, at, redeemedBy)
	if err != nil {
		return false, fmt.Errorf("mark voucher redeemed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
