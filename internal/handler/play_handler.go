package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/grattalab/scratch-win-system/internal/model"
	"github.com/grattalab/scratch-win-system/internal/service"
)

// CampaignResolverInterface resolves public play URLs to campaigns.
type CampaignResolverInterface interface {
	GetForPlay(ctx context.Context, storeSlug, campaignSlug string) (*model.Campaign, error)
}

// PlayServiceInterface defines the interface for the play engine.
type PlayServiceInterface interface {
	CheckEligibility(ctx context.Context, campaign *model.Campaign, identity model.Identity) error
	IssuePlay(ctx context.Context, campaign *model.Campaign, identity model.Identity, userData model.UserData) (*model.PlayResult, error)
}

// PlayHandler handles the public play surface.
type PlayHandler struct {
	campaigns CampaignResolverInterface
	plays     PlayServiceInterface
	validator *validator.Validate
}

// NewPlayHandler creates a PlayHandler with the given services and validator.
func NewPlayHandler(campaigns CampaignResolverInterface, plays PlayServiceInterface, v *validator.Validate) *PlayHandler {
	return &PlayHandler{campaigns: campaigns, plays: plays, validator: v}
}

// GetCampaign handles GET /api/play/:storeSlug/:campaignSlug and serves the
// sanitized campaign card.
func (h *PlayHandler) GetCampaign(c *fiber.Ctx) error {
	campaign, err := h.campaigns.GetForPlay(c.Context(), c.Params("storeSlug"), c.Params("campaignSlug"))
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) || errors.Is(err, service.ErrCampaignNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "campaign not found"})
		}
		log.Error().Err(err).Str("request_id", c.GetRespHeader("X-Request-ID")).Msg("failed to resolve campaign")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(service.PublicView(campaign))
}

// Play handles POST /api/play/:storeSlug/:campaignSlug. The requester IP is
// taken from the connection; together with the submitted email it forms the
// play identity.
func (h *PlayHandler) Play(c *fiber.Ctx) error {
	var req model.PlayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	campaign, err := h.campaigns.GetForPlay(c.Context(), c.Params("storeSlug"), c.Params("campaignSlug"))
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) || errors.Is(err, service.ErrCampaignNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "campaign not found"})
		}
		log.Error().Err(err).Str("request_id", c.GetRespHeader("X-Request-ID")).Msg("failed to resolve campaign")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	if msg := missingRequiredField(campaign, req.UserData); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	identity := model.Identity{IP: c.IP(), Email: req.Email}
	result, err := h.plays.IssuePlay(c.Context(), campaign, identity, req.UserData)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignInactive),
			errors.Is(err, service.ErrCampaignNotStarted),
			errors.Is(err, service.ErrCampaignEnded):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrMaxPlaysReached):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "maximum plays reached"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("campaign_id", campaign.ID).
			Msg("failed to issue play")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("campaign_id", campaign.ID).
		Str("session_id", result.SessionID).
		Bool("won", result.Prize != nil).
		Msg("play issued")

	return c.Status(fiber.StatusCreated).JSON(result)
}

// missingRequiredField checks the campaign's required player fields against
// the submitted data. Returns an empty string when everything is present.
func missingRequiredField(campaign *model.Campaign, data model.UserData) string {
	for _, f := range campaign.RequiredFields {
		switch f {
		case "name":
			if data.Name == "" {
				return "invalid request: name is required"
			}
		case "phone":
			if data.Phone == "" {
				return "invalid request: phone is required"
			}
		case "age":
			if data.Age == nil {
				return "invalid request: age is required"
			}
		}
	}
	return ""
}
