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

// StoreServiceInterface defines the interface for store management and login.
type StoreServiceInterface interface {
	Create(ctx context.Context, req *model.CreateStoreRequest) (*model.Store, error)
	List(ctx context.Context) ([]model.Store, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

// StoreHandler handles the platform-admin store API and account login.
type StoreHandler struct {
	service   StoreServiceInterface
	validator *validator.Validate
}

// NewStoreHandler creates a StoreHandler with the given service and validator.
func NewStoreHandler(svc StoreServiceInterface, v *validator.Validate) *StoreHandler {
	return &StoreHandler{service: svc, validator: v}
}

// CreateStore handles POST /api/admin/stores.
func (h *StoreHandler) CreateStore(c *fiber.Ctx) error {
	var req model.CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	store, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrStoreExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "store already exists"})
		}
		log.Error().Err(err).Str("request_id", c.GetRespHeader("X-Request-ID")).Str("store_slug", req.Slug).Msg("failed to create store")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(store)
}

// ListStores handles GET /api/admin/stores.
func (h *StoreHandler) ListStores(c *fiber.Ctx) error {
	stores, err := h.service.List(c.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetRespHeader("X-Request-ID")).Msg("failed to list stores")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(stores)
}

// Login handles POST /api/auth/login for store users and platform admins.
func (h *StoreHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.Login(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		log.Error().Err(err).Str("request_id", c.GetRespHeader("X-Request-ID")).Msg("login failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("user_id", resp.User.ID).
		Str("role", resp.User.Role).
		Msg("login succeeded")

	return c.JSON(resp)
}
