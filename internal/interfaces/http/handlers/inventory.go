// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/bayt-organic/storefront/internal/domain/inventory"
	"github.com/bayt-organic/storefront/internal/infrastructure/cache"
	"github.com/bayt-organic/storefront/internal/interfaces/http/middleware"
	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/gin-gonic/gin"
)

// ListingRevalidator drops cached listings by tag
type ListingRevalidator interface {
	Revalidate(ctx context.Context, tags ...string) error
}

// InventoryHandler handles admin stock endpoints
type InventoryHandler struct {
	ledger   *inventory.Ledger
	listings ListingRevalidator
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(ledger *inventory.Ledger, listings ListingRevalidator) *InventoryHandler {
	return &InventoryHandler{
		ledger:   ledger,
		listings: listings,
	}
}

// AdjustStockRequest is an admin stock correction
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// GetStockMovements handles GET /admin/products/:id/stock-movements
func (h *InventoryHandler) GetStockMovements(c *gin.Context) {
	productID := c.Param("id")
	if !entityid.IsValid(productID) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	movements, err := h.ledger.Movements(c.Request.Context(), productID, limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stock movements",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock movements retrieved successfully",
		"data":    movements,
	})
}

// AdjustStock handles POST /admin/products/:id/stock-adjustments
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	productID := c.Param("id")
	if !entityid.IsValid(productID) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	adminID, _ := middleware.GetUserIDFromContext(c)
	err := h.ledger.Adjust(c.Request.Context(), productID, req.Delta, adminID)
	switch {
	case errors.Is(err, inventory.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	case errors.Is(err, inventory.ErrZeroAdjustment):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to adjust stock",
		})
		return
	}

	if err := h.listings.Revalidate(c.Request.Context(), cache.TagProducts); err != nil {
		_ = c.Error(err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjusted successfully",
	})
}
