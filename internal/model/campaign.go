package model

import "time"

// Prize is one weighted outcome of a campaign. Probability is a percentage
// point weight in [0, 100], not a fraction; declaration order is preserved
// because it breaks ties in the cumulative draw. Quantity, when set, caps how
// many times the prize may be awarded over the campaign lifetime.
type Prize struct {
	Name        string  `json:"name" validate:"required,notblank,max=100"`
	Emoji       string  `json:"emoji"`
	Probability float64 `json:"probability" validate:"gte=0,lte=100"`
	Description string  `json:"description" validate:"max=500"`
	Quantity    *int    `json:"quantity,omitempty" validate:"omitempty,gte=0"`
}

// Campaign represents a scratch-and-win campaign owned by a store.
// The activity window is half-open: a play at exactly StartDate is inside,
// a play at exactly EndDate is outside.
type Campaign struct {
	ID              string    `json:"id"`
	StoreID         string    `json:"store_id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	RequiredFields  []string  `json:"required_fields"`
	Prizes          []Prize   `json:"prizes"`
	Active          bool      `json:"active"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	MaxPlaysPerDay  *int      `json:"max_plays_per_day,omitempty"`
	MaxTotalPlays   *int      `json:"max_total_plays,omitempty"`
	MaxPlaysPerUser *int      `json:"max_plays_per_user,omitempty"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// PlaysPerUserCap returns the per-identity play cap, defaulting to a single
// play per campaign lifetime when none is configured.
func (c *Campaign) PlaysPerUserCap() int {
	if c.MaxPlaysPerUser != nil && *c.MaxPlaysPerUser > 0 {
		return *c.MaxPlaysPerUser
	}
	return 1
}

// CreateCampaignRequest is the DTO for creating a campaign.
type CreateCampaignRequest struct {
	Name            string    `json:"name" validate:"required,notblank,max=100"`
	Slug            string    `json:"slug" validate:"required,slug,max=100"`
	Description     string    `json:"description" validate:"max=1000"`
	RequiredFields  []string  `json:"required_fields" validate:"dive,oneof=name phone age"`
	Prizes          []Prize   `json:"prizes" validate:"required,min=1,dive"`
	Active          *bool     `json:"active"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required"`
	MaxPlaysPerDay  *int      `json:"max_plays_per_day" validate:"omitempty,gte=1"`
	MaxTotalPlays   *int      `json:"max_total_plays" validate:"omitempty,gte=1"`
	MaxPlaysPerUser *int      `json:"max_plays_per_user" validate:"omitempty,gte=1"`
}

// PublicPrize is the sanitized prize view served to players. Probabilities
// and stock are deliberately omitted.
type PublicPrize struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// PublicCampaignResponse is the campaign card served on the public play page.
type PublicCampaignResponse struct {
	Name           string        `json:"name"`
	Slug           string        `json:"slug"`
	Description    string        `json:"description"`
	RequiredFields []string      `json:"required_fields"`
	Prizes         []PublicPrize `json:"prizes"`
}
