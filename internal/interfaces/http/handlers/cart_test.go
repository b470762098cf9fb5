package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/bayt-organic/storefront/internal/domain/cart"
	"github.com/bayt-organic/storefront/internal/domain/checkout"
	"github.com/bayt-organic/storefront/internal/domain/product"
	"github.com/bayt-organic/storefront/internal/domain/shipping"
	"github.com/bayt-organic/storefront/internal/interfaces/http/middleware"
	"github.com/bayt-organic/storefront/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s stubCarts) AddProduct(ctx context.Context, userID, sessionID string, req *cart.AddToCartRequest) (*cart.Store, error) {
	if req.ProductID != honeyID {
		return nil, product.ErrNotFound
	}
	store, err := s.Open(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	line := cart.Line{ProductID: honeyID, Name: "Sidr Honey", UnitPrice: decimal.NewFromInt(450), Quantity: req.Quantity}
	if err := store.Add(ctx, line); err != nil {
		return nil, err
	}
	return store, nil
}

type stubZones struct {
	zones map[string]*shipping.Zone
	err   error
}

func (z stubZones) FindZone(_ context.Context, region string) (*shipping.Zone, error) {
	if z.err != nil {
		return nil, z.err
	}
	if zone, ok := z.zones[region]; ok {
		return zone, nil
	}
	return nil, shipping.ErrZoneNotFound
}

func testZones() stubZones {
	ammanFree := decimal.NewFromInt(1500)
	anywhereFree := decimal.NewFromInt(2000)
	zones := map[string]*shipping.Zone{}
	for _, z := range []*shipping.Zone{
		{Region: "AMMAN", BaseRate: decimal.NewFromInt(100), FreeShippingThreshold: &ammanFree, IsActive: true},
		{Region: shipping.CatchAllRegion, BaseRate: decimal.NewFromInt(150), FreeShippingThreshold: &anywhereFree, IsActive: true},
	} {
		zones[z.Region] = z
	}
	return stubZones{zones: zones}
}

func newQuoter(zones stubZones) *shipping.Calculator {
	return shipping.NewCalculator(zones, config.ShippingConfig{
		DefaultCost:   decimal.NewFromInt(150),
		DefaultRegion: "Amman",
	}, logger.Discard())
}

func testConfig() *config.Config {
	return &config.Config{Cart: config.CartConfig{CookieName: "session_id", AnonymousTTL: time.Hour}}
}

func newCartRouter(carts stubCarts, quoter checkout.ShippingQuoter) *gin.Engine {
	h := NewCartHandler(carts, quoter, testConfig())

	r := gin.New()
	group := r.Group("/cart", middleware.OptionalAuthMiddleware(tokens))
	group.GET("", h.GetCart)
	group.DELETE("", h.ClearCart)
	group.POST("/items", h.AddToCart)
	group.PUT("/items/:lineId", h.UpdateCartItem)
	group.DELETE("/items/:lineId", h.RemoveCartItem)
	return r
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out, ok := decode(t, w)["data"].(map[string]any)
	require.True(t, ok, "response has no data object")
	return out
}

func honeyLine(quantity int) *lineBackend {
	return &lineBackend{lines: []cart.Line{
		{LineID: "l1", ProductID: honeyID, Name: "Sidr Honey", UnitPrice: decimal.NewFromInt(450), Quantity: quantity},
	}}
}

func TestUpdateCartItemQuantityFloor(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{"zero ignored", 0, 2},
		{"negative ignored", -3, 2},
		{"raised", 5, 5},
		{"lowered", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guest := honeyLine(2)
			r := newCartRouter(stubCarts{"sess-1": guest}, newQuoter(testZones()))

			w := orderCall{
				method:  http.MethodPut,
				path:    "/cart/items/l1",
				session: "sess-1",
				body:    gin.H{"quantity": tt.quantity},
			}.do(r)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, guest.lines[0].Quantity)
			assert.EqualValues(t, tt.want, responseData(t, w)["item_count"])
		})
	}
}

func TestUpdateCartItemUnknownLine(t *testing.T) {
	r := newCartRouter(stubCarts{"sess-1": honeyLine(2)}, newQuoter(testZones()))

	w := orderCall{method: http.MethodPut, path: "/cart/items/missing", session: "sess-1", body: gin.H{"quantity": 3}}.do(r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cart item not found", decode(t, w)["error"])
}

func TestAddToCartIssuesSessionCookie(t *testing.T) {
	carts := stubCarts{}
	r := newCartRouter(carts, newQuoter(testZones()))

	w := orderCall{method: http.MethodPost, path: "/cart/items", body: gin.H{"product_id": honeyID, "quantity": 2}}.do(r)
	require.Equal(t, http.StatusOK, w.Code)

	var session string
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" {
			session = c.Value
		}
	}
	require.NotEmpty(t, session)
	require.Contains(t, carts, session)
	assert.Len(t, carts[session].lines, 1)

	view := responseData(t, w)
	assert.Equal(t, "900", view["subtotal"])
	assert.Equal(t, "100", view["estimated_shipping"])
	assert.Equal(t, "1000", view["total"])
}

func TestAddToCartSumsSameProduct(t *testing.T) {
	carts := stubCarts{}
	r := newCartRouter(carts, newQuoter(testZones()))

	for _, qty := range []int{1, 2} {
		w := orderCall{method: http.MethodPost, path: "/cart/items", token: "customer", body: gin.H{"product_id": honeyID, "quantity": qty}}.do(r)
		require.Equal(t, http.StatusOK, w.Code)
	}

	require.Len(t, carts[customerID].lines, 1)
	assert.Equal(t, 3, carts[customerID].lines[0].Quantity)
}

func TestAddToCartErrors(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"unknown product", gin.H{"product_id": "3e8c3041-a06d-4db1-af9e-4c5d6e7f8091", "quantity": 1}, http.StatusNotFound},
		{"zero quantity", gin.H{"product_id": honeyID, "quantity": 0}, http.StatusBadRequest},
		{"missing product", gin.H{"quantity": 1}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCartRouter(stubCarts{}, newQuoter(testZones()))

			w := orderCall{method: http.MethodPost, path: "/cart/items", session: "sess-1", body: tt.body}.do(r)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGetCartShippingEstimate(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		zones    stubZones
		shipping string
		total    string
	}{
		{"below threshold", 2, testZones(), "100", "1000"},
		{"free over threshold", 4, testZones(), "0", "1800"},
		{"zones unavailable", 2, stubZones{err: errors.New("connection refused")}, "150", "1050"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCartRouter(stubCarts{"sess-1": honeyLine(tt.quantity)}, newQuoter(tt.zones))

			w := orderCall{method: http.MethodGet, path: "/cart", session: "sess-1"}.do(r)

			require.Equal(t, http.StatusOK, w.Code)
			view := responseData(t, w)
			assert.Equal(t, tt.shipping, view["estimated_shipping"])
			assert.Equal(t, tt.total, view["total"])
		})
	}
}

func TestRemoveAndClearCart(t *testing.T) {
	guest := &lineBackend{lines: []cart.Line{
		{LineID: "l1", ProductID: honeyID, UnitPrice: decimal.NewFromInt(450), Quantity: 1},
		{LineID: "l2", ProductID: "dates", UnitPrice: decimal.NewFromInt(200), Quantity: 1},
	}}
	r := newCartRouter(stubCarts{"sess-1": guest}, newQuoter(testZones()))

	w := orderCall{method: http.MethodDelete, path: "/cart/items/l1", session: "sess-1"}.do(r)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, guest.lines, 1)
	assert.Equal(t, "l2", guest.lines[0].LineID)

	w = orderCall{method: http.MethodDelete, path: "/cart", session: "sess-1"}.do(r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, guest.cleared)
	assert.Empty(t, responseData(t, w)["lines"])
}
