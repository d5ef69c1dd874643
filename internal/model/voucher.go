package model

import "time"

// Voucher is a redeemable proof of win. The prize name and description are
// snapshotted at issue time so later edits to the campaign never alter an
// issued voucher. Vouchers are append-only; only the redemption fields ever
// change, and only once.
type Voucher struct {
	Code             string     `json:"code"`
	CampaignID       string     `json:"campaign_id"`
	StoreID          string     `json:"store_id"`
	SessionID        string     `json:"session_id"`
	PrizeName        string     `json:"prize_name"`
	PrizeDescription string     `json:"prize_description"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	Redeemed         bool       `json:"redeemed"`
	RedeemedAt       *time.Time `json:"redeemed_at,omitempty"`
	RedeemedBy       *string    `json:"redeemed_by,omitempty"`
}

// RedeemVoucherRequest is the DTO for redeeming a voucher.
type RedeemVoucherRequest struct {
	Code       string `json:"code" validate:"required,notblank,max=64"`
	RedeemedBy string `json:"redeemed_by" validate:"required,notblank,max=100"`
}
