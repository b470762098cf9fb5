// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/bayt-organic/storefront/internal/domain/checkout"
	"github.com/bayt-organic/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CheckoutHandler handles checkout pricing endpoints
type CheckoutHandler struct {
	cartService     CartOpener
	checkoutService *checkout.Service
	quoter          checkout.ShippingQuoter
	discounts       checkout.DiscountValidator
	session         sessionCookie
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(
	cartService CartOpener,
	checkoutService *checkout.Service,
	quoter checkout.ShippingQuoter,
	discounts checkout.DiscountValidator,
	cfg *config.Config,
) *CheckoutHandler {
	return &CheckoutHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		quoter:          quoter,
		discounts:       discounts,
		session:         newSessionCookie(cfg),
	}
}

// ValidateDiscountRequest is a discount code check against a subtotal
type ValidateDiscountRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// GetSummary handles POST /checkout/summary for the caller's cart
func (h *CheckoutHandler) GetSummary(c *gin.Context) {
	var req checkout.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	store, err := h.cartService.Open(c.Request.Context(), userID, h.session.getOrCreate(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	if store.ItemCount() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
		return
	}

	summary := h.checkoutService.Summarize(c.Request.Context(), store.Lines(), req)

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout summary calculated",
		"data":    summary,
	})
}

// GetShippingQuote handles GET /shipping/quote?subtotal=&region=
func (h *CheckoutHandler) GetShippingQuote(c *gin.Context) {
	subtotal, err := decimal.NewFromString(c.DefaultQuery("subtotal", "0"))
	if err != nil || subtotal.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid subtotal",
		})
		return
	}

	quote := h.quoter.CalculateWithFallback(c.Request.Context(), subtotal, c.Query("region"))

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping quote calculated",
		"data":    quote,
	})
}

// ValidateDiscount handles POST /discounts/validate. A rejected code is a
// successful response carrying the reason.
func (h *CheckoutHandler) ValidateDiscount(c *gin.Context) {
	var req ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result := h.discounts.Validate(c.Request.Context(), req.Code, req.Subtotal)

	message := "Discount code applied"
	if !result.OK {
		message = "Discount code rejected"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    result,
	})
}

// GetPaymentMethods handles GET /checkout/payment-methods
func (h *CheckoutHandler) GetPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment methods retrieved successfully",
		"data":    checkout.PaymentMethods(),
	})
}
