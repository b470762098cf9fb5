package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bayt-organic/storefront/internal/domain/product"
	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/bayt-organic/storefront/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProducts map[string]*product.Product

func (s stubProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, product.ErrNotFound
}

func newTestService(client *redis.Client, products stubProducts, remote map[string]*memBackend) *Service {
	return &Service{
		products: products,
		log:      logger.Discard(),
		local: func(sessionID string) Backend {
			return NewLocalStore(client, "cart:session:", sessionID, time.Hour)
		},
		remote: func(userID string) Backend {
			b, ok := remote[userID]
			if !ok {
				b = &memBackend{}
				remote[userID] = b
			}
			return b
		},
	}
}

func TestAddProductSnapshotsCatalogueData(t *testing.T) {
	_, client := newRedis(t)
	discounted := decimal.NewFromInt(80)
	p := &product.Product{
		ID:              entityid.New(),
		Name:            "Black seed oil",
		Price:           decimal.NewFromInt(100),
		DiscountedPrice: &discounted,
		IsActive:        true,
		WeightLabel:     "250ml",
		Images:          []product.ProductImage{{URL: "oil.jpg"}},
	}
	svc := newTestService(client, stubProducts{p.ID: p}, map[string]*memBackend{})

	store, err := svc.AddProduct(context.Background(), "", "sess", &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Black seed oil", lines[0].Name)
	assert.Equal(t, "oil.jpg", lines[0].ImageRef)
	assert.Equal(t, "250ml", lines[0].WeightLabel)
	assert.True(t, store.Subtotal().Equal(decimal.NewFromInt(160)))
}

func TestAddProductRejectsUnknownOrInactive(t *testing.T) {
	_, client := newRedis(t)
	inactive := &product.Product{ID: entityid.New(), Price: decimal.NewFromInt(1)}
	svc := newTestService(client, stubProducts{inactive.ID: inactive}, map[string]*memBackend{})
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "", "sess", &AddToCartRequest{ProductID: "bad", Quantity: 1})
	assert.ErrorIs(t, err, product.ErrNotFound)

	_, err = svc.AddProduct(ctx, "", "sess", &AddToCartRequest{ProductID: entityid.New(), Quantity: 1})
	assert.ErrorIs(t, err, product.ErrNotFound)

	_, err = svc.AddProduct(ctx, "", "sess", &AddToCartRequest{ProductID: inactive.ID, Quantity: 1})
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestOpenSelectsBackend(t *testing.T) {
	_, client := newRedis(t)
	userID := entityid.New()
	remote := map[string]*memBackend{userID: {lines: []Line{{LineID: "r1", ProductID: "p", Quantity: 1}}}}
	svc := newTestService(client, stubProducts{}, remote)
	ctx := context.Background()

	userCart, err := svc.Open(ctx, userID, "sess")
	require.NoError(t, err)
	assert.Len(t, userCart.Lines(), 1)

	guestCart, err := svc.Open(ctx, "", "sess")
	require.NoError(t, err)
	assert.Empty(t, guestCart.Lines())

	_, err = svc.Open(ctx, "", "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMergeSumsQuantitiesAndClearsSession(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	userID := entityid.New()
	remote := map[string]*memBackend{userID: {lines: []Line{{LineID: "r1", ProductID: "honey", Quantity: 1}}}}
	svc := newTestService(client, stubProducts{}, remote)

	guest, err := svc.Open(ctx, "", "sess")
	require.NoError(t, err)
	require.NoError(t, guest.Add(ctx, line("honey", 10, 2)))
	require.NoError(t, guest.Add(ctx, line("dates", 4, 1)))

	require.NoError(t, svc.Merge(ctx, userID, "sess"))

	owned := remote[userID].lines
	require.Len(t, owned, 2)
	assert.Equal(t, 3, owned[0].Quantity)
	assert.Equal(t, "dates", owned[1].ProductID)
	assert.False(t, mr.Exists("cart:session:sess"))
}

func TestMergeRetryAfterPartialFailure(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	userID := entityid.New()
	remote := map[string]*memBackend{userID: {
		lines:          []Line{{LineID: "r1", ProductID: "honey", Quantity: 1}},
		failInsertOnce: errors.New("db blip"),
	}}
	svc := newTestService(client, stubProducts{}, remote)

	guest, err := svc.Open(ctx, "", "sess")
	require.NoError(t, err)
	require.NoError(t, guest.Add(ctx, line("honey", 10, 2)))
	require.NoError(t, guest.Add(ctx, line("dates", 4, 1)))

	err = svc.Merge(ctx, userID, "sess")
	require.ErrorContains(t, err, "db blip")

	left, err := svc.Open(ctx, "", "sess")
	require.NoError(t, err)
	require.Len(t, left.Lines(), 1)
	assert.Equal(t, "dates", left.Lines()[0].ProductID)

	require.NoError(t, svc.Merge(ctx, userID, "sess"))

	owned := remote[userID].lines
	require.Len(t, owned, 2)
	assert.Equal(t, "honey", owned[0].ProductID)
	assert.Equal(t, 3, owned[0].Quantity)
	assert.Equal(t, "dates", owned[1].ProductID)
	assert.Equal(t, 1, owned[1].Quantity)
	assert.False(t, mr.Exists("cart:session:sess"))
}

func TestClearUserCart(t *testing.T) {
	_, client := newRedis(t)
	userID := entityid.New()
	remote := map[string]*memBackend{userID: {lines: []Line{{LineID: "r1", ProductID: "p", Quantity: 1}}}}
	svc := newTestService(client, stubProducts{}, remote)

	require.NoError(t, svc.ClearUserCart(context.Background(), userID))
	assert.Empty(t, remote[userID].lines)

	require.NoError(t, svc.ClearUserCart(context.Background(), "guest"))
}
