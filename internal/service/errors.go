package service

import "errors"

var (
	// ErrStoreExists is returned when creating a store whose slug is taken
	ErrStoreExists = errors.New("store already exists")

	// ErrStoreNotFound is returned when a store cannot be found
	ErrStoreNotFound = errors.New("store not found")

	// ErrCampaignExists is returned when a campaign slug is already taken within the store
	ErrCampaignExists = errors.New("campaign already exists")

	// ErrCampaignNotFound is returned when a campaign cannot be found
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrCampaignInactive is returned when playing a campaign whose active flag is off
	ErrCampaignInactive = errors.New("campaign is inactive")

	// ErrCampaignNotStarted is returned when playing before the campaign window opens
	ErrCampaignNotStarted = errors.New("campaign has not started")

	// ErrCampaignEnded is returned when playing on or after the campaign window close
	ErrCampaignEnded = errors.New("campaign has ended")

	// ErrMaxPlaysReached is returned when any play cap denies the request,
	// including a lost race on the session uniqueness constraint
	ErrMaxPlaysReached = errors.New("maximum plays reached")

	// ErrVoucherNotFound is returned when a voucher code is unknown
	ErrVoucherNotFound = errors.New("voucher not found")

	// ErrVoucherExpired is returned when redeeming past the voucher expiry
	ErrVoucherExpired = errors.New("voucher expired")

	// ErrVoucherAlreadyRedeemed is returned when a voucher was already redeemed
	ErrVoucherAlreadyRedeemed = errors.New("voucher already redeemed")

	// ErrInvalidCredentials is returned on failed login
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrVoucherCodeTaken is returned by the voucher repository when a
	// generated code collides with an existing one; the issuer retries
	ErrVoucherCodeTaken = errors.New("voucher code already taken")

	// ErrCodeSpaceExhausted is returned when voucher code generation keeps
	// colliding. This is a fatal configuration error and should never occur
	// at realistic volumes.
	ErrCodeSpaceExhausted = errors.New("voucher code space exhausted")
)
