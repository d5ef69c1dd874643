package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grattalab/scratch-win-system/internal/auth"
	"github.com/grattalab/scratch-win-system/internal/model"
	"github.com/grattalab/scratch-win-system/internal/service"
	appvalidator "github.com/grattalab/scratch-win-system/internal/validator"
)

// mockVoucherService is a mock implementation of VoucherServiceInterface.
type mockVoucherService struct {
	getByCodeFn func(ctx context.Context, code string) (*model.Voucher, error)
	redeemFn    func(ctx context.Context, code, redeemedBy string) (*model.Voucher, error)
}

func (m *mockVoucherService) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, service.ErrVoucherNotFound
}

func (m *mockVoucherService) Redeem(ctx context.Context, code, redeemedBy string) (*model.Voucher, error) {
	if m.redeemFn != nil {
		return m.redeemFn(ctx, code, redeemedBy)
	}
	return nil, service.ErrVoucherNotFound
}

func testVoucher() *model.Voucher {
	return &model.Voucher{
		Code:             "AB12CD34-SKT9X1",
		CampaignID:       "camp_001",
		StoreID:          "store_001",
		SessionID:        "sess_001",
		PrizeName:        "Birra",
		PrizeDescription: "Una birra media",
		CreatedAt:        time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		ExpiresAt:        time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
	}
}

// setupVoucherApp wires the handler behind a stub auth middleware carrying
// the given claims, the way RequireAuth does in production.
func setupVoucherApp(svc *mockVoucherService, claims *auth.Claims) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals(claimsKey, claims)
		}
		return c.Next()
	})
	h := NewVoucherHandler(svc, appvalidator.New())
	app.Get("/api/vouchers/:code", h.GetVoucher)
	app.Post("/api/vouchers/redeem", h.RedeemVoucher)
	return app
}

func storeClaims(storeID string) *auth.Claims {
	return &auth.Claims{Email: "anna@bar.it", Name: "Anna", Role: "store_admin", StoreID: storeID}
}

func superadminClaims() *auth.Claims {
	return &auth.Claims{Email: "root@platform.it", Name: "Root", Role: auth.RoleSuperadmin}
}

func TestGetVoucher_OwnStore(t *testing.T) {
	svc := &mockVoucherService{
		getByCodeFn: func(ctx context.Context, code string) (*model.Voucher, error) {
			return testVoucher(), nil
		},
	}
	app := setupVoucherApp(svc, storeClaims("store_001"))

	req := httptest.NewRequest(http.MethodGet, "/api/vouchers/AB12CD34-SKT9X1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var voucher model.Voucher
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&voucher))
	assert.Equal(t, "Birra", voucher.PrizeName)
}

func TestGetVoucher_OtherStoreLooksUnknown(t *testing.T) {
	svc := &mockVoucherService{
		getByCodeFn: func(ctx context.Context, code string) (*model.Voucher, error) {
			return testVoucher(), nil
		},
	}
	app := setupVoucherApp(svc, storeClaims("store_999"))

	req := httptest.NewRequest(http.MethodGet, "/api/vouchers/AB12CD34-SKT9X1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode,
		"another store's voucher must be indistinguishable from an unknown code")
}

func TestGetVoucher_SuperadminSeesAll(t *testing.T) {
	svc := &mockVoucherService{
		getByCodeFn: func(ctx context.Context, code string) (*model.Voucher, error) {
			return testVoucher(), nil
		},
	}
	app := setupVoucherApp(svc, superadminClaims())

	req := httptest.NewRequest(http.MethodGet, "/api/vouchers/AB12CD34-SKT9X1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetVoucher_UnknownCode(t *testing.T) {
	app := setupVoucherApp(&mockVoucherService{}, storeClaims("store_001"))

	req := httptest.NewRequest(http.MethodGet, "/api/vouchers/UNKNOWN0-000000", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRedeemVoucher_Success(t *testing.T) {
	redeemedAt := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	redeemedBy := "anna@bar.it"
	svc := &mockVoucherService{
		getByCodeFn: func(ctx context.Context, code string) (*model.Voucher, error) {
			return testVoucher(), nil
		},
		redeemFn: func(ctx context.Context, code, by string) (*model.Voucher, error) {
			v := testVoucher()
			v.Redeemed = true
			v.RedeemedAt = &redeemedAt
			v.RedeemedBy = &redeemedBy
			return v, nil
		},
	}
	app := setupVoucherApp(svc, storeClaims("store_001"))

	body := `{"code": "AB12CD34-SKT9X1", "redeemed_by": "anna@bar.it"}`
	req := httptest.NewRequest(http.MethodPost, "/api/vouchers/redeem", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var voucher model.Voucher
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&voucher))
	assert.True(t, voucher.Redeemed)
	require.NotNil(t, voucher.RedeemedBy)
	assert.Equal(t, "anna@bar.it", *voucher.RedeemedBy)
}

func TestRedeemVoucher_Expired(t *testing.T) {
	svc := &mockVoucherService{
		getByCodeFn: func(ctx context.Context, code string) (*model.Voucher, error) {
			return testVoucher(), nil
		},
		redeemFn: func(ctx context.Context, code, by string) (*model.Voucher, error) {
			return nil, service.ErrVoucherExpired
		},
	}
	app := setupVoucherApp(svc, storeClaims("store_001"))

	body := `{"code": "AB12CD34-SKT9X1", "redeemed_by": "anna@bar.it"}`
	req := httptest.NewRequest(http.MethodPost, "/api/vouchers/redeem", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusGone, resp.StatusCode)
}

func TestRedeemVoucher_AlreadyRedeemed(t *testing.T) {
	svc := &mockVoucherService{
		getByCodeFn: func(ctx context.Context, code string) (*model.Voucher, error) {
			return testVoucher(), nil
		},
		redeemFn: func(ctx context.Context, code, by string) (*model.Voucher, error) {
			return nil, service.ErrVoucherAlreadyRedeemed
		},
	}
	app := setupVoucherApp(svc, storeClaims("store_001"))

	body := `{"code": "AB12CD34-SKT9X1", "redeemed_by": "anna@bar.it"}`
	req := httptest.NewRequest(http.MethodPost, "/api/vouchers/redeem", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRedeemVoucher_OtherStoreCannotRedeem(t *testing.T) {
	redeemed := false
	svc := &mockVoucherService{
		getByCodeFn: func(ctx context.Context, code string) (*model.Voucher, error) {
			return testVoucher(), nil
		},
		redeemFn: func(ctx context.Context, code, by string) (*model.Voucher, error) {
			redeemed = true
			return testVoucher(), nil
		},
	}
	app := setupVoucherApp(svc, storeClaims("store_999"))

	body := `{"code": "AB12CD34-SKT9X1", "redeemed_by": "mallory@altrobar.it"}`
	req := httptest.NewRequest(http.MethodPost, "/api/vouchers/redeem", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.False(t, redeemed, "the redemption must never run for an unauthorized store")
}

func TestRedeemVoucher_MissingCode(t *testing.T) {
	app := setupVoucherApp(&mockVoucherService{}, storeClaims("store_001"))

	body := `{"redeemed_by": "anna@bar.it"}`
	req := httptest.NewRequest(http.MethodPost, "/api/vouchers/redeem", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "invalid request: code is required", result["error"])
}
