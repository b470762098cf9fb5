// internal/interfaces/http/handlers/discount.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/bayt-organic/storefront/internal/domain/discount"
	"github.com/gin-gonic/gin"
)

// DiscountHandler handles admin discount code endpoints
type DiscountHandler struct {
	discountService *discount.Service
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *discount.Service) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// ListCodes handles GET /admin/discounts
func (h *DiscountHandler) ListCodes(c *gin.Context) {
	codes, err := h.discountService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve discount codes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Discount codes retrieved successfully",
		"data":    codes,
	})
}

// CreateCode handles POST /admin/discounts
func (h *DiscountHandler) CreateCode(c *gin.Context) {
	var req discount.CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	code, err := h.discountService.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(statusForDiscountError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Discount code created successfully",
		"data":    code,
	})
}

// UpdateCode handles PUT /admin/discounts/:id
func (h *DiscountHandler) UpdateCode(c *gin.Context) {
	var req discount.CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	code, err := h.discountService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.JSON(statusForDiscountError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Discount code updated successfully",
		"data":    code,
	})
}

// DeleteCode handles DELETE /admin/discounts/:id
func (h *DiscountHandler) DeleteCode(c *gin.Context) {
	if err := h.discountService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusForDiscountError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Discount code deleted successfully",
	})
}

func statusForDiscountError(err error) int {
	switch {
	case errors.Is(err, discount.ErrDuplicateCode):
		return http.StatusConflict
	case errors.Is(err, discount.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
