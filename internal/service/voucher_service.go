package service

import (
	"context"
	"fmt"
	"time"

	"github.com/grattalab/scratch-win-system/internal/model"
)

// VoucherService provides voucher lookup and exactly-once redemption.
type VoucherService struct {
	voucherRepo VoucherRepositoryInterface
	now         func() time.Time
}

// NewVoucherService creates a VoucherService with the given repository.
func NewVoucherService(voucherRepo VoucherRepositoryInterface) *VoucherService {
	return &VoucherService{voucherRepo: voucherRepo, now: time.Now}
}

// NewVoucherServiceWithClock creates a VoucherService with an injected
// clock. Primarily used for testing expiry behavior.
func NewVoucherServiceWithClock(voucherRepo VoucherRepositoryInterface, now func() time.Time) *VoucherService {
	return &VoucherService{voucherRepo: voucherRepo, now: now}
}

// GetByCode retrieves a voucher.
// Returns ErrVoucherNotFound if the code is unknown.
func (s *VoucherService) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	voucher, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	return voucher, nil
}

// Redeem redeems a voucher exactly once. Checks run in order: existence,
// expiry, already-redeemed. Expiry is inclusive of the deadline itself:
// a voucher is expired only when now is strictly after ExpiresAt. The
// redeemed flag is flipped by a conditional update, so two concurrent
// redemptions cannot both succeed.
func (s *VoucherService) Redeem(ctx context.Context, code, redeemedBy string) (*model.Voucher, error) {
	voucher, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}

	now := s.now()
	if now.After(voucher.ExpiresAt) {
		return nil, ErrVoucherExpired
	}
	if voucher.Redeemed {
		return nil, ErrVoucherAlreadyRedeemed
	}

	ok, err := s.voucherRepo.MarkRedeemed(ctx, code, redeemedBy, now)
	if err != nil {
		return nil, fmt.Errorf("redeem voucher: %w", err)
	}
	if !ok {
		// Lost the race against a concurrent redemption
		return nil, ErrVoucherAlreadyRedeemed
	}

	voucher.Redeemed = true
	voucher.RedeemedAt = &now
	voucher.RedeemedBy = &redeemedBy
	return voucher, nil
}
