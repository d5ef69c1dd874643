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

// CampaignServiceInterface defines the interface for campaign management.
type CampaignServiceInterface interface {
	Create(ctx context.Context, storeID string, req *model.CreateCampaignRequest) (*model.Campaign, error)
	ListByStore(ctx context.Context, storeID string) ([]model.Campaign, error)
}

// CampaignHandler handles the store-scoped campaign management API.
type CampaignHandler struct {
	service   CampaignServiceInterface
	validator *validator.Validate
}

// NewCampaignHandler creates a CampaignHandler with the given service and validator.
func NewCampaignHandler(svc CampaignServiceInterface, v *validator.Validate) *CampaignHandler {
	return &CampaignHandler{service: svc, validator: v}
}

// CreateCampaign handles POST /api/stores/:storeID/campaigns.
func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req model.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	campaign, err := h.service.Create(c.Context(), c.Params("storeID"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "store not found"})
		case errors.Is(err, service.ErrCampaignExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "campaign already exists"})
		case errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: end_date must be after start_date"})
		}
		log.Error().Err(err).Str("request_id", c.GetRespHeader("X-Request-ID")).Msg("failed to create campaign")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// ListCampaigns handles GET /api/stores/:storeID/campaigns.
func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.service.ListByStore(c.Context(), c.Params("storeID"))
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetRespHeader("X-Request-ID")).Msg("failed to list campaigns")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(campaigns)
}
