package model

import "time"

// Identity is the deduplication key for play limits. The IP address is the
// constraint key at the storage layer; the email is recorded on the session
// for audit but does not widen the key.
type Identity struct {
	IP    string
	Email string
}

// UserData holds the player fields a campaign collects via RequiredFields.
type UserData struct {
	Name  string `json:"name,omitempty" validate:"max=100"`
	Phone string `json:"phone,omitempty" validate:"max=30"`
	Age   *int   `json:"age,omitempty" validate:"omitempty,gte=0,lte=130"`
}

// GameSession records one play. Immutable after creation. PlaySeq is the
// 1-based position of this play among the identity's plays on the campaign;
// (campaign_id, ip_address, play_seq) is unique at the storage layer so two
// racing plays can never both take the same slot.
type GameSession struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaign_id"`
	StoreID     string    `json:"store_id"`
	IPAddress   string    `json:"-"`
	UserEmail   string    `json:"user_email"`
	UserData    UserData  `json:"user_data"`
	PrizeWon    *string   `json:"prize_won"`
	VoucherCode *string   `json:"voucher_code"`
	PlaySeq     int       `json:"-"`
	PlayedAt    time.Time `json:"played_at"`
}

// PlayRequest is the DTO for a public play submission.
type PlayRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	UserData UserData `json:"user_data"`
}

// PlayResult is the outcome of an allowed play.
type PlayResult struct {
	SessionID   string     `json:"session_id"`
	Prize       *Prize     `json:"prize"`
	VoucherCode *string    `json:"voucher_code"`
	ExpiresAt   *time.Time `json:"expires_at"`
}
