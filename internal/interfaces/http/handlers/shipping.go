// internal/interfaces/http/handlers/shipping.go
package handlers

import (
	"net/http"

	"github.com/bayt-organic/storefront/internal/domain/shipping"
	"github.com/gin-gonic/gin"
)

// ShippingHandler handles admin shipping zone endpoints
type ShippingHandler struct {
	shippingService *shipping.Service
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(shippingService *shipping.Service) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService}
}

// ListZones handles GET /admin/shipping/zones
func (h *ShippingHandler) ListZones(c *gin.Context) {
	zones, err := h.shippingService.ListZones(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve shipping zones",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping zones retrieved successfully",
		"data":    zones,
	})
}

// UpsertZone handles PUT /admin/shipping/zones
func (h *ShippingHandler) UpsertZone(c *gin.Context) {
	var req shipping.UpsertZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	zone, err := h.shippingService.UpsertZone(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping zone saved successfully",
		"data":    zone,
	})
}
