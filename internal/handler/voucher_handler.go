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

// VoucherServiceInterface defines the interface for voucher business logic.
type VoucherServiceInterface interface {
	GetByCode(ctx context.Context, code string) (*model.Voucher, error)
	Redeem(ctx context.Context, code, redeemedBy string) (*model.Voucher, error)
}

// VoucherHandler handles voucher lookup and redemption for store staff.
type VoucherHandler struct {
	service   VoucherServiceInterface
	validator *validator.Validate
}

// NewVoucherHandler creates a VoucherHandler with the given service and validator.
func NewVoucherHandler(svc VoucherServiceInterface, v *validator.Validate) *VoucherHandler {
	return &VoucherHandler{service: svc, validator: v}
}

// GetVoucher handles GET /api/vouchers/:code. Only principals authorized
// for the voucher's store may see it.
func (h *VoucherHandler) GetVoucher(c *fiber.Ctx) error {
	code := c.Params("code")
	voucher, err := h.service.GetByCode(c.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrVoucherNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "voucher not found"})
		}
		log.Error().Err(err).Str("request_id", c.GetRespHeader("X-Request-ID")).Msg("failed to get voucher")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	claims := claimsFrom(c)
	if claims == nil || !claims.AuthorizedFor(voucher.StoreID) {
		// Indistinguishable from an unknown code for outsiders
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "voucher not found"})
	}
	return c.JSON(voucher)
}

// RedeemVoucher handles POST /api/vouchers/redeem.
func (h *VoucherHandler) RedeemVoucher(c *fiber.Ctx) error {
	var req model.RedeemVoucherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	existing, err := h.service.GetByCode(c.Context(), req.Code)
	if err != nil {
		if errors.Is(err, service.ErrVoucherNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "voucher not found"})
		}
		log.Error().Err(err).Str("request_id", c.GetRespHeader("X-Request-ID")).Msg("failed to get voucher")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	claims := claimsFrom(c)
	if claims == nil || !claims.AuthorizedFor(existing.StoreID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "voucher not found"})
	}

	voucher, err := h.service.Redeem(c.Context(), req.Code, req.RedeemedBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVoucherNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "voucher not found"})
		case errors.Is(err, service.ErrVoucherExpired):
			return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "voucher expired"})
		case errors.Is(err, service.ErrVoucherAlreadyRedeemed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "voucher already redeemed"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("voucher_code", req.Code).
			Msg("failed to redeem voucher")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("voucher_code", voucher.Code).
		Str("redeemed_by", req.RedeemedBy).
		Msg("voucher redeemed")

	return c.JSON(voucher)
}
