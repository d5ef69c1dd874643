package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grattalab/scratch-win-system/internal/model"
	"github.com/grattalab/scratch-win-system/pkg/database"
	"github.com/grattalab/scratch-win-system/pkg/vouchercode"
)

// SessionRepositoryInterface defines the interface for game session data access.
type SessionRepositoryInterface interface {
	Counts(ctx context.Context, q database.TxQuerier, campaignID, ipAddress string, dayStart, dayEnd time.Time) (PlayCounts, error)
	AwardedCounts(ctx context.Context, q database.TxQuerier, campaignID string) (map[string]int, error)
	Insert(ctx context.Context, q database.TxQuerier, s *model.GameSession) error
	SetVoucherCode(ctx context.Context, q database.TxQuerier, sessionID, code string) error
}

// VoucherRepositoryInterface defines the interface for voucher data access.
type VoucherRepositoryInterface interface {
	Insert(ctx context.Context, q database.TxQuerier, v *model.Voucher) error
	GetByCode(ctx context.Context, code string) (*model.Voucher, error)
	MarkRedeemed(ctx context.Context, code, redeemedBy string, at time.Time) (bool, error)
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PlayConfig carries the issuance knobs.
type PlayConfig struct {
	// VoucherValidity is the fixed window between voucher creation and expiry.
	VoucherValidity time.Duration
	// CodeMaxAttempts bounds voucher code regeneration on collision.
	CodeMaxAttempts int
}

// PlayService is the play engine: eligibility evaluation, the prize draw and
// voucher issuance, performed as a single transaction per play. The
// randomness source and clock are injected so tests can pin outcomes.
type PlayService struct {
	pool        TxBeginner
	db          database.TxQuerier
	sessionRepo SessionRepositoryInterface
	voucherRepo VoucherRepositoryInterface
	rng         Rand
	now         func() time.Time
	cfg         PlayConfig
}

// NewPlayService creates a PlayService backed by the given pool.
func NewPlayService(pool *pgxpool.Pool, sessionRepo SessionRepositoryInterface, voucherRepo VoucherRepositoryInterface, rng Rand, cfg PlayConfig) *PlayService {
	return &PlayService{
		pool:        pool,
		db:          pool,
		sessionRepo: sessionRepo,
		voucherRepo: voucherRepo,
		rng:         rng,
		now:         time.Now,
		cfg:         cfg,
	}
}

// NewPlayServiceWithDeps creates a PlayService with every collaborator
// injected, including the clock. Primarily used for testing.
func NewPlayServiceWithDeps(pool TxBeginner, db database.TxQuerier, sessionRepo SessionRepositoryInterface, voucherRepo VoucherRepositoryInterface, rng Rand, now func() time.Time, cfg PlayConfig) *PlayService {
	return &PlayService{
		pool:        pool,
		db:          db,
		sessionRepo: sessionRepo,
		voucherRepo: voucherRepo,
		rng:         rng,
		now:         now,
		cfg:         cfg,
	}
}

// CheckEligibility is the read-only pre-check used to fail fast before the
// issuance transaction. The transaction re-checks and the storage constraint
// remains the final arbiter.
func (s *PlayService) CheckEligibility(ctx context.Context, campaign *model.Campaign, identity model.Identity) error {
	counts, err := s.playCounts(ctx, s.db, campaign.ID, identity.IP)
	if err != nil {
		return err
	}
	return CheckEligibility(campaign, counts, s.now())
}

// IssuePlay runs one play end to end inside a single transaction:
// re-check eligibility, draw a prize, record the session and, on a win,
// mint a voucher with a collision-checked code.
//
// A lost race on the session uniqueness constraint surfaces as
// ErrMaxPlaysReached, identical to a pre-check denial. On a transient
// storage failure the caller must retry the whole issuance, not just the
// write, so eligibility is re-evaluated.
func (s *PlayService) IssuePlay(ctx context.Context, campaign *model.Campaign, identity model.Identity, userData model.UserData) (*model.PlayResult, error) {
	now := s.now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Re-check eligibility inside the transaction
	counts, err := s.playCounts(ctx, tx, campaign.ID, identity.IP)
	if err != nil {
		return nil, err
	}
	if err := CheckEligibility(campaign, counts, now); err != nil {
		return nil, err
	}

	// 2. Draw a prize over the still-selectable sequence
	selectable, err := s.selectablePrizes(ctx, tx, campaign)
	if err != nil {
		return nil, err
	}
	prize := SelectPrize(selectable, s.rng)

	// 3. Record the session; the uniqueness constraint on
	// (campaign_id, ip_address, play_seq) arbitrates concurrent plays
	session := &model.GameSession{
		ID:         uuid.NewString(),
		CampaignID: campaign.ID,
		StoreID:    campaign.StoreID,
		IPAddress:  identity.IP,
		UserEmail:  identity.Email,
		UserData:   userData,
		PlaySeq:    counts.ByIdentity + 1,
		PlayedAt:   now,
	}
	if prize != nil {
		session.PrizeWon = &prize.Name
	}
	if err := s.sessionRepo.Insert(ctx, tx, session); err != nil {
		if errors.Is(err, ErrMaxPlaysReached) {
			return nil, ErrMaxPlaysReached
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}

	result := &model.PlayResult{SessionID: session.ID, Prize: prize}

	// 4. Mint the voucher for winning plays
	if prize != nil {
		voucher, err := s.mintVoucher(ctx, tx, campaign, session.ID, prize, now)
		if err != nil {
			return nil, err
		}
		if err := s.sessionRepo.SetVoucherCode(ctx, tx, session.ID, voucher.Code); err != nil {
			return nil, err
		}
		result.VoucherCode = &voucher.Code
		result.ExpiresAt = &voucher.ExpiresAt
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}

// mintVoucher inserts a voucher with a freshly generated code, regenerating
// on collision. Exhausting the attempt budget means the code namespace is
// misconfigured and surfaces as ErrCodeSpaceExhausted.
func (s *PlayService) mintVoucher(ctx context.Context, tx database.TxQuerier, campaign *model.Campaign, sessionID string, prize *model.Prize, now time.Time) (*model.Voucher, error) {
	attempts := s.cfg.CodeMaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		voucher := &model.Voucher{
			Code:             vouchercode.Generate(now, s.rng),
			CampaignID:       campaign.ID,
			StoreID:          campaign.StoreID,
			SessionID:        sessionID,
			PrizeName:        prize.Name,
			PrizeDescription: prize.Description,
			CreatedAt:        now,
			ExpiresAt:        now.Add(s.cfg.VoucherValidity),
		}
		err := s.voucherRepo.Insert(ctx, tx, voucher)
		if err == nil {
			return voucher, nil
		}
		if !errors.Is(err, ErrVoucherCodeTaken) {
			return nil, fmt.Errorf("insert voucher: %w", err)
		}
	}
	return nil, ErrCodeSpaceExhausted
}

// selectablePrizes filters out prizes whose stock cap is exhausted. Their
// probability mass joins the uncovered remainder, so an exhausted prize
// becomes a "no prize" outcome rather than inflating the others.
func (s *PlayService) selectablePrizes(ctx context.Context, q database.TxQuerier, campaign *model.Campaign) ([]model.Prize, error) {
	hasCap := false
	for i := range campaign.Prizes {
		if campaign.Prizes[i].Quantity != nil {
			hasCap = true
			break
		}
	}
	if !hasCap {
		return campaign.Prizes, nil
	}

	awarded, err := s.sessionRepo.AwardedCounts(ctx, q, campaign.ID)
	if err != nil {
		return nil, err
	}
	selectable := make([]model.Prize, 0, len(campaign.Prizes))
	for _, p := range campaign.Prizes {
		if p.Quantity != nil && awarded[p.Name] >= *p.Quantity {
			continue
		}
		selectable = append(selectable, p)
	}
	return selectable, nil
}

func (s *PlayService) playCounts(ctx context.Context, q database.TxQuerier, campaignID, ip string) (PlayCounts, error) {
	dayStart, dayEnd := DayBounds(s.now())
	counts, err := s.sessionRepo.Counts(ctx, q, campaignID, ip, dayStart, dayEnd)
	if err != nil {
		return PlayCounts{}, fmt.Errorf("count plays: %w", err)
	}
	return counts, nil
}
