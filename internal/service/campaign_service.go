package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grattalab/scratch-win-system/internal/model"
)

// StoreRepositoryInterface defines the interface for store data access.
type StoreRepositoryInterface interface {
	Insert(ctx context.Context, store *model.Store) error
	GetBySlug(ctx context.Context, slug string) (*model.Store, error)
	GetByID(ctx context.Context, id string) (*model.Store, error)
	List(ctx context.Context) ([]model.Store, error)
}

// CampaignRepositoryInterface defines the interface for campaign data access.
type CampaignRepositoryInterface interface {
	Insert(ctx context.Context, c *model.Campaign) error
	GetBySlug(ctx context.Context, storeID, slug string) (*model.Campaign, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	ListByStore(ctx context.Context, storeID string) ([]model.Campaign, error)
}

// CampaignService provides business logic for campaign management and
// public campaign lookup.
type CampaignService struct {
	storeRepo    StoreRepositoryInterface
	campaignRepo CampaignRepositoryInterface
	now          func() time.Time
}

// NewCampaignService creates a CampaignService with the given repositories.
func NewCampaignService(storeRepo StoreRepositoryInterface, campaignRepo CampaignRepositoryInterface) *CampaignService {
	return &CampaignService{storeRepo: storeRepo, campaignRepo: campaignRepo, now: time.Now}
}

// Create creates a campaign under the given store.
// Returns ErrStoreNotFound for an unknown store, ErrInvalidRequest when the
// date window is inverted, ErrCampaignExists on a slug collision.
func (s *CampaignService) Create(ctx context.Context, storeID string, req *model.CreateCampaignRequest) (*model.Campaign, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, ErrInvalidRequest
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	requiredFields := req.RequiredFields
	if requiredFields == nil {
		requiredFields = []string{}
	}

	campaign := &model.Campaign{
		ID:              uuid.NewString(),
		StoreID:         storeID,
		Name:            req.Name,
		Slug:            req.Slug,
		Description:     req.Description,
		RequiredFields:  requiredFields,
		Prizes:          req.Prizes,
		Active:          active,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MaxPlaysPerDay:  req.MaxPlaysPerDay,
		MaxTotalPlays:   req.MaxTotalPlays,
		MaxPlaysPerUser: req.MaxPlaysPerUser,
		CreatedAt:       s.now(),
	}
	if err := s.campaignRepo.Insert(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// ListByStore retrieves all campaigns of a store.
func (s *CampaignService) ListByStore(ctx context.Context, storeID string) ([]model.Campaign, error) {
	campaigns, err := s.campaignRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}

// GetForPlay resolves a public play URL (store slug + campaign slug) to the
// campaign. Returns ErrStoreNotFound / ErrCampaignNotFound; an inactive
// store hides its campaigns.
func (s *CampaignService) GetForPlay(ctx context.Context, storeSlug, campaignSlug string) (*model.Campaign, error) {
	store, err := s.storeRepo.GetBySlug(ctx, storeSlug)
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	if store == nil || !store.Active {
		return nil, ErrStoreNotFound
	}

	campaign, err := s.campaignRepo.GetBySlug(ctx, store.ID, campaignSlug)
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// PublicView builds the sanitized campaign card served to players.
// Prize probabilities and stock never leave the backend.
func PublicView(c *model.Campaign) *model.PublicCampaignResponse {
	prizes := make([]model.PublicPrize, 0, len(c.Prizes))
	for _, p := range c.Prizes {
		prizes = append(prizes, model.PublicPrize{Name: p.Name, Emoji: p.Emoji})
	}
	return &model.PublicCampaignResponse{
		Name:           c.Name,
		Slug:           c.Slug,
		Description:    c.Description,
		RequiredFields: c.RequiredFields,
		Prizes:         prizes,
	}
}
