// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/bayt-organic/storefront/internal/domain/product"
	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNoSession is returned when a request has neither a user nor a session
var ErrNoSession = errors.New("session ID required for guest cart")

// ProductLookup finds catalogue products
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

// Service opens carts for requests. A valid user id selects the user's
// database cart; otherwise the session's Redis cart is used.
type Service struct {
	products ProductLookup
	log      logrus.FieldLogger
	local    func(sessionID string) Backend
	remote   func(userID string) Backend
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, products ProductLookup, log logrus.FieldLogger) *Service {
	return &Service{
		products: products,
		log:      log,
		local: func(sessionID string) Backend {
			return NewLocalStore(redisClient, cfg.Cart.KeyPrefix, sessionID, cfg.Cart.AnonymousTTL)
		},
		remote: func(userID string) Backend {
			return NewRemoteStore(db, userID)
		},
	}
}

// AddToCartRequest represents add to cart data
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item data
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// Open loads the cart for a user or, when userID is empty or malformed, for a session
func (s *Service) Open(ctx context.Context, userID, sessionID string) (*Store, error) {
	backend, err := s.backendFor(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return Open(ctx, backend)
}

// AddProduct adds a catalogue product to the cart, capturing its current price
func (s *Service) AddProduct(ctx context.Context, userID, sessionID string, req *AddToCartRequest) (*Store, error) {
	if !entityid.IsValid(req.ProductID) {
		return nil, product.ErrNotFound
	}

	p, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, product.ErrNotFound
	}

	store, err := s.Open(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	line := Line{
		ProductID:           p.ID,
		Name:                p.Name,
		UnitPrice:           p.Price,
		DiscountedUnitPrice: p.DiscountedPrice,
		Quantity:            req.Quantity,
		ImageRef:            p.PrimaryImage(),
		WeightLabel:         p.WeightLabel,
	}
	if err := store.Add(ctx, line); err != nil {
		return nil, err
	}
	return store, nil
}

// Merge moves a session's anonymous cart into the user's cart after login.
// Lines for the same product have their quantities summed. Each guest line is
// removed once merged, so a retry after a partial failure only merges what is
// left.
func (s *Service) Merge(ctx context.Context, userID, sessionID string) error {
	if !entityid.IsValid(userID) || sessionID == "" {
		return nil
	}

	guest, err := Open(ctx, s.local(sessionID))
	if err != nil {
		return err
	}
	if len(guest.lines) == 0 {
		return nil
	}

	owned, err := Open(ctx, s.remote(userID))
	if err != nil {
		return err
	}

	merged := 0
	for _, line := range guest.Lines() {
		if err := owned.Add(ctx, line); err != nil {
			return fmt.Errorf("failed to merge product %s: %w", line.ProductID, err)
		}
		if err := guest.Remove(ctx, line.LineID); err != nil {
			return fmt.Errorf("failed to drop merged product %s: %w", line.ProductID, err)
		}
		merged++
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"lines":   merged,
	}).Info("merged session cart into user cart")

	return guest.Clear(ctx)
}

// ClearUserCart empties a user's persisted cart
func (s *Service) ClearUserCart(ctx context.Context, userID string) error {
	if !entityid.IsValid(userID) {
		return nil
	}
	return s.remote(userID).Clear(ctx)
}

func (s *Service) backendFor(userID, sessionID string) (Backend, error) {
	if entityid.IsValid(userID) {
		return s.remote(userID), nil
	}
	if sessionID == "" {
		return nil, ErrNoSession
	}
	return s.local(sessionID), nil
}
