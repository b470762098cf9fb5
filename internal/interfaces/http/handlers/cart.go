// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/bayt-organic/storefront/internal/domain/cart"
	"github.com/bayt-organic/storefront/internal/domain/checkout"
	"github.com/bayt-organic/storefront/internal/domain/product"
	"github.com/bayt-organic/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CartService opens carts and adds catalogue products to them
type CartService interface {
	CartOpener
	AddProduct(ctx context.Context, userID, sessionID string, req *cart.AddToCartRequest) (*cart.Store, error)
}

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService CartService
	quoter      checkout.ShippingQuoter
	session     sessionCookie
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService CartService, quoter checkout.ShippingQuoter, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		quoter:      quoter,
		session:     newSessionCookie(cfg),
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, ok := h.open(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, "Cart retrieved successfully", store)
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	sessionID := h.session.getOrCreate(c)

	store, err := h.cartService.AddProduct(c.Request.Context(), userID, sessionID, &req)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, cart.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		}
		return
	}

	h.respond(c, http.StatusOK, "Item added to cart", store)
}

// UpdateCartItem handles PUT /cart/items/:lineId. Quantities below one leave the line unchanged.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store, ok := h.open(c)
	if !ok {
		return
	}

	if err := store.UpdateQuantity(c.Request.Context(), c.Param("lineId"), req.Quantity); err != nil {
		h.lineError(c, err, "Failed to update cart item")
		return
	}

	h.respond(c, http.StatusOK, "Cart item updated", store)
}

// RemoveCartItem handles DELETE /cart/items/:lineId
func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	store, ok := h.open(c)
	if !ok {
		return
	}

	if err := store.Remove(c.Request.Context(), c.Param("lineId")); err != nil {
		h.lineError(c, err, "Failed to remove cart item")
		return
	}

	h.respond(c, http.StatusOK, "Cart item removed", store)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, ok := h.open(c)
	if !ok {
		return
	}

	if err := store.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	h.respond(c, http.StatusOK, "Cart cleared", store)
}

func (h *CartHandler) open(c *gin.Context) (*cart.Store, bool) {
	userID, _ := middleware.GetUserIDFromContext(c)
	sessionID := h.session.getOrCreate(c)

	store, err := h.cartService.Open(c.Request.Context(), userID, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart"})
		return nil, false
	}
	return store, true
}

func (h *CartHandler) lineError(c *gin.Context, err error, message string) {
	if errors.Is(err, cart.ErrLineNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// respond renders the cart with a shipping estimate for the default region
func (h *CartHandler) respond(c *gin.Context, status int, message string, store *cart.Store) {
	quote := h.quoter.CalculateWithFallback(c.Request.Context(), store.Subtotal(), "")
	c.JSON(status, gin.H{
		"message": message,
		"data":    store.View(quote.ShippingCost),
	})
}
