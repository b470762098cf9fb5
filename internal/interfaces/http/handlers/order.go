// internal/interfaces/http/handlers/order.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/bayt-organic/storefront/internal/domain/cart"
	"github.com/bayt-organic/storefront/internal/domain/order"
	"github.com/bayt-organic/storefront/internal/domain/user"
	"github.com/bayt-organic/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// OrderService places and queries orders
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req *order.CreateOrderRequest) (*order.Order, error)
	GetOrder(ctx context.Context, id string) (*order.Order, error)
	GetUserOrder(ctx context.Context, userID, id string) (*order.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Order, error)
	GetUserOrders(ctx context.Context, userID string, page, limit int) (*order.OrderResponse, error)
	ListOrders(ctx context.Context, req *order.OrderListRequest) (*order.OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, id string, status order.Status, changedBy string) error
	UpdatePaymentStatus(ctx context.Context, id string, status order.PaymentStatus, changedBy string) error
}

// CartOpener opens the caller's cart
type CartOpener interface {
	Open(ctx context.Context, userID, sessionID string) (*cart.Store, error)
}

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService OrderService
	carts        CartOpener
	session      sessionCookie
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService OrderService, carts CartOpener, cfg *config.Config) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		carts:        carts,
		session:      newSessionCookie(cfg),
	}
}

// CreateOrder handles POST /orders for guests and signed-in users.
// When the request carries no items the caller's cart is used.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Failed to place order: invalid request data",
		})
		return
	}

	ctx := c.Request.Context()
	userID, _ := middleware.GetUserIDFromContext(c)
	sessionID := h.session.get(c)

	var guestCart *cart.Store
	if len(req.Items) == 0 {
		store, err := h.carts.Open(ctx, userID, sessionID)
		if err != nil && !errors.Is(err, cart.ErrNoSession) {
			h.orderFailed(c, http.StatusInternalServerError, err)
			return
		}
		if store != nil {
			req.Items = itemsFromCart(store.Lines())
			if userID == "" {
				guestCart = store
			}
		}
	}

	placed, err := h.orderService.CreateOrder(ctx, userID, &req)
	if err != nil {
		h.orderFailed(c, statusForOrderError(err), err)
		return
	}

	// Signed-in carts are cleared by the order service.
	if guestCart != nil {
		if err := guestCart.Clear(ctx); err != nil {
			_ = c.Error(err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    placed,
	})
}

func (h *OrderHandler) orderFailed(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"success": false,
		"error":   "Failed to place order: " + err.Error(),
	})
}

func statusForOrderError(err error) int {
	var validationErr *user.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, order.ErrNoValidItems),
		errors.Is(err, order.ErrTotalMismatch):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrAllItemsFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func itemsFromCart(lines []cart.Line) []order.ItemInput {
	items := make([]order.ItemInput, 0, len(lines))
	for _, line := range lines {
		items = append(items, order.ItemInput{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.EffectivePrice(),
			Quantity:  line.Quantity,
		})
	}
	return items
}

// GetOrders handles GET /orders (user's own orders)
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	response, err := h.orderService.GetUserOrders(c.Request.Context(), userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// GetOrder handles GET /orders/:id. Orders of other users are reported as missing.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	o, err := h.orderService.GetUserOrder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.lookupFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// --- ADMIN ENDPOINTS ---

// AdminGetOrders handles GET /admin/orders
func (h *OrderHandler) AdminGetOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.orderService.ListOrders(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, order.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// AdminGetOrder handles GET /admin/orders/:id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	o, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// AdminGetOrderByNumber handles GET /admin/orders/number/:orderNumber
func (h *OrderHandler) AdminGetOrderByNumber(c *gin.Context) {
	o, err := h.orderService.GetOrderByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.lookupFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// UpdateOrderStatusRequest represents an order status change
type UpdateOrderStatusRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest represents a payment status change
type UpdatePaymentStatusRequest struct {
	PaymentStatus order.PaymentStatus `json:"payment_status" binding:"required"`
}

// AdminUpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) AdminUpdateOrderStatus(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	err := h.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status, adminID)
	h.statusUpdated(c, err, "Order status updated successfully")
}

// AdminUpdatePaymentStatus handles PUT /admin/orders/:id/payment-status
func (h *OrderHandler) AdminUpdatePaymentStatus(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	err := h.orderService.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.PaymentStatus, adminID)
	h.statusUpdated(c, err, "Payment status updated successfully")
}

func (h *OrderHandler) statusUpdated(c *gin.Context, err error, message string) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": message})
	case errors.Is(err, order.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
	}
}

func (h *OrderHandler) lookupFailed(c *gin.Context, err error) {
	if errors.Is(err, order.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
}
