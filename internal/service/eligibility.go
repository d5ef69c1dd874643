package service

import (
	"time"

	"github.com/grattalab/scratch-win-system/internal/model"
)

// PlayCounts captures the prior-session counts the play caps are checked
// against. ByIdentity counts sessions for the (identity, campaign) pair;
// Today and Total count sessions campaign-wide.
type PlayCounts struct {
	ByIdentity int
	Today      int
	Total      int
}

// CheckEligibility decides whether a play is allowed. Returns nil to allow,
// or one of ErrCampaignInactive, ErrCampaignNotStarted, ErrCampaignEnded,
// ErrMaxPlaysReached.
//
// The activity window is half-open: a play at exactly StartDate is allowed,
// a play at exactly EndDate is denied. When several caps are configured,
// every one of them must pass independently. Read-only; the storage
// uniqueness constraint remains the final backstop against races.
func CheckEligibility(c *model.Campaign, counts PlayCounts, now time.Time) error {
	if !c.Active {
		return ErrCampaignInactive
	}
	if now.Before(c.StartDate) {
		return ErrCampaignNotStarted
	}
	if !now.Before(c.EndDate) {
		return ErrCampaignEnded
	}
	if counts.ByIdentity >= c.PlaysPerUserCap() {
		return ErrMaxPlaysReached
	}
	if c.MaxPlaysPerDay != nil && counts.Today >= *c.MaxPlaysPerDay {
		return ErrMaxPlaysReached
	}
	if c.MaxTotalPlays != nil && counts.Total >= *c.MaxTotalPlays {
		return ErrMaxPlaysReached
	}
	return nil
}

// DayBounds returns the UTC calendar day containing now as a half-open
// [start, end) interval. The per-day cap is scoped to this interval.
func DayBounds(now time.Time) (time.Time, time.Time) {
	u := now.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
