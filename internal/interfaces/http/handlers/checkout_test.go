package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bayt-organic/storefront/internal/domain/checkout"
	"github.com/bayt-organic/storefront/internal/domain/discount"
	"github.com/bayt-organic/storefront/internal/interfaces/http/middleware"
	"github.com/bayt-organic/storefront/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCodes map[string]*discount.Code

func (s stubCodes) FindByCode(_ context.Context, code string) (*discount.Code, error) {
	if c, ok := s[code]; ok {
		return c, nil
	}
	return nil, discount.ErrNotFound
}

func testCodes() stubCodes {
	now := time.Now()
	minimum := decimal.NewFromInt(500)
	return stubCodes{
		"WELCOME10": {
			Code: "WELCOME10", Type: discount.TypePercentage, Value: decimal.NewFromInt(10),
			MinOrderAmount: &minimum, StartDate: now.Add(-24 * time.Hour), EndDate: now.Add(24 * time.Hour), IsActive: true,
		},
		"RAMADAN": {
			Code: "RAMADAN", Type: discount.TypeFixed, Value: decimal.NewFromInt(50),
			StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-time.Hour), IsActive: true,
		},
	}
}

func newCheckoutRouter(carts stubCarts, zones stubZones) *gin.Engine {
	quoter := newQuoter(zones)
	validator := discount.NewValidator(testCodes(), logger.Discard())
	h := NewCheckoutHandler(carts, checkout.NewService(quoter, validator), quoter, validator, testConfig())

	r := gin.New()
	r.GET("/shipping/quote", h.GetShippingQuote)
	r.POST("/discounts/validate", h.ValidateDiscount)
	r.POST("/checkout/summary", middleware.OptionalAuthMiddleware(tokens), h.GetSummary)
	return r
}

func TestValidateDiscountAccepted(t *testing.T) {
	r := newCheckoutRouter(stubCarts{}, testZones())

	w := orderCall{method: http.MethodPost, path: "/discounts/validate", body: gin.H{"code": " welcome10 ", "subtotal": "1000"}}.do(r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Discount code applied", decode(t, w)["message"])
	result := responseData(t, w)
	assert.Equal(t, true, result["ok"])
	assert.Equal(t, "WELCOME10", result["code"])
	assert.Equal(t, "100", result["amount"])
}

func TestValidateDiscountRejectionIsNotAnError(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		subtotal string
		reason   discount.Reason
	}{
		{"unknown code", "NOPE", "1000", discount.ReasonInvalidCode},
		{"expired", "ramadan", "1000", discount.ReasonExpired},
		{"below minimum", "WELCOME10", "100", discount.ReasonBelowMinimum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCheckoutRouter(stubCarts{}, testZones())

			w := orderCall{method: http.MethodPost, path: "/discounts/validate", body: gin.H{"code": tt.code, "subtotal": tt.subtotal}}.do(r)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "Discount code rejected", decode(t, w)["message"])
			result := responseData(t, w)
			assert.Equal(t, false, result["ok"])
			assert.Equal(t, string(tt.reason), result["reason"])
		})
	}
}

func TestValidateDiscountRequiresCode(t *testing.T) {
	r := newCheckoutRouter(stubCarts{}, testZones())

	w := orderCall{method: http.MethodPost, path: "/discounts/validate", body: gin.H{"subtotal": "1000"}}.do(r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetShippingQuote(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		zones    stubZones
		region   string
		cost     string
		fallback bool
	}{
		{"region zone", "?subtotal=1000&region=amman", testZones(), "AMMAN", "100", false},
		{"free over threshold", "?subtotal=1500&region=Amman", testZones(), "AMMAN", "0", false},
		{"catch-all zone", "?subtotal=1000&region=irbid", testZones(), "*", "150", false},
		{"zones unavailable", "?subtotal=1000&region=amman", stubZones{err: errors.New("connection refused")}, "AMMAN", "150", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCheckoutRouter(stubCarts{}, tt.zones)

			w := orderCall{method: http.MethodGet, path: "/shipping/quote" + tt.query}.do(r)

			require.Equal(t, http.StatusOK, w.Code)
			quote := responseData(t, w)
			assert.Equal(t, tt.region, quote["region"])
			assert.Equal(t, tt.cost, quote["shipping_cost"])
			assert.Equal(t, tt.fallback, quote["fallback"])
			if tt.fallback {
				assert.NotEmpty(t, quote["warning"])
			}
		})
	}
}

func TestGetShippingQuoteRejectsBadSubtotal(t *testing.T) {
	r := newCheckoutRouter(stubCarts{}, testZones())

	for _, query := range []string{"?subtotal=abc", "?subtotal=-5"} {
		w := orderCall{method: http.MethodGet, path: "/shipping/quote" + query}.do(r)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestCheckoutSummary(t *testing.T) {
	tests := []struct {
		name     string
		coupon   string
		discount string
		total    string
		reason   any
	}{
		{"no code", "", "0", "1000", nil},
		{"accepted code", "WELCOME10", "90", "910", nil},
		{"rejected code", "RAMADAN", "0", "1000", string(discount.ReasonExpired)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCheckoutRouter(stubCarts{"sess-1": honeyLine(2)}, testZones())

			w := orderCall{
				method:  http.MethodPost,
				path:    "/checkout/summary",
				session: "sess-1",
				body:    gin.H{"region": "amman", "coupon_code": tt.coupon},
			}.do(r)

			require.Equal(t, http.StatusOK, w.Code)
			summary := responseData(t, w)
			assert.Equal(t, "900", summary["subtotal"])
			assert.Equal(t, tt.discount, summary["discount_amount"])
			assert.Equal(t, tt.total, summary["total"])
			assert.Equal(t, "100", summary["shipping"].(map[string]any)["shipping_cost"])

			if tt.coupon == "" {
				assert.NotContains(t, summary, "discount")
				return
			}
			assert.Equal(t, tt.reason, summary["discount"].(map[string]any)["reason"])
		})
	}
}

func TestCheckoutSummaryEmptyCart(t *testing.T) {
	r := newCheckoutRouter(stubCarts{}, testZones())

	w := orderCall{method: http.MethodPost, path: "/checkout/summary", session: "sess-1", body: gin.H{}}.do(r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", decode(t, w)["error"])
}
