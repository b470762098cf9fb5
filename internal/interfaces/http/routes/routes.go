// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/bayt-organic/storefront/internal/interfaces/http/handlers"
	"github.com/bayt-organic/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted under the API prefix
type Handlers struct {
	Auth      *handlers.AuthHandler
	Product   *handlers.ProductHandler
	Inventory *handlers.InventoryHandler
	Cart      *handlers.CartHandler
	Checkout  *handlers.CheckoutHandler
	Order     *handlers.OrderHandler
	Address   *handlers.UserAddressHandler
	Discount  *handlers.DiscountHandler
	Shipping  *handlers.ShippingHandler
	Analytics *handlers.AnalyticsHandler
}

// SetupRoutes mounts all API routes on rg
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, tokens middleware.TokenValidator) {
	SetupAuthRoutes(rg, h, tokens)
	SetupProductRoutes(rg, h)
	SetupCartRoutes(rg, h, tokens)
	SetupCheckoutRoutes(rg, h, tokens)
	SetupOrderRoutes(rg, h, tokens)
	SetupUserRoutes(rg, h, tokens)
	SetupAdminRoutes(rg, h, tokens)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *Handlers, tokens middleware.TokenValidator) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.AuthMiddleware(tokens), h.Auth.Me)
	}
}

// SetupProductRoutes sets up public catalogue routes
func SetupProductRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.GET("", h.Product.GetProducts)
		products.GET("/:id", h.Product.GetProduct)
	}
}

// SetupCartRoutes sets up cart routes. Guests are identified by the session cookie.
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers, tokens middleware.TokenValidator) {
	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(tokens))
	{
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.ClearCart)
		cart.POST("/items", h.Cart.AddToCart)
		cart.PUT("/items/:lineId", h.Cart.UpdateCartItem)
		cart.DELETE("/items/:lineId", h.Cart.RemoveCartItem)
	}
}

// SetupCheckoutRoutes sets up checkout pricing routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, h *Handlers, tokens middleware.TokenValidator) {
	rg.GET("/shipping/quote", h.Checkout.GetShippingQuote)
	rg.POST("/discounts/validate", h.Checkout.ValidateDiscount)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.OptionalAuthMiddleware(tokens))
	{
		checkout.POST("/summary", h.Checkout.GetSummary)
		checkout.GET("/payment-methods", h.Checkout.GetPaymentMethods)
	}
}

// SetupOrderRoutes sets up order routes. Placing an order does not require an account.
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers, tokens middleware.TokenValidator) {
	orders := rg.Group("/orders")
	{
		orders.POST("", middleware.OptionalAuthMiddleware(tokens), h.Order.CreateOrder)

		protected := orders.Group("")
		protected.Use(middleware.AuthMiddleware(tokens))
		{
			protected.GET("", h.Order.GetOrders)
			protected.GET("/:id", h.Order.GetOrder)
		}
	}
}

// SetupUserRoutes sets up user related routes
func SetupUserRoutes(rg *gin.RouterGroup, h *Handlers, tokens middleware.TokenValidator) {
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(tokens))
	{
		users.GET("/addresses", h.Address.GetAddresses)
	}
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *Handlers, tokens middleware.TokenValidator) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens))
	admin.Use(middleware.AdminMiddleware())
	{
		orders := admin.Group("/orders")
		{
			orders.GET("", h.Order.AdminGetOrders)
			orders.GET("/number/:orderNumber", h.Order.AdminGetOrderByNumber)
			orders.GET("/:id", h.Order.AdminGetOrder)
			orders.PUT("/:id/status", h.Order.AdminUpdateOrderStatus)
			orders.PUT("/:id/payment-status", h.Order.AdminUpdatePaymentStatus)
		}

		discounts := admin.Group("/discounts")
		{
			discounts.GET("", h.Discount.ListCodes)
			discounts.POST("", h.Discount.CreateCode)
			discounts.PUT("/:id", h.Discount.UpdateCode)
			discounts.DELETE("/:id", h.Discount.DeleteCode)
		}

		shipping := admin.Group("/shipping")
		{
			shipping.GET("/zones", h.Shipping.ListZones)
			shipping.PUT("/zones", h.Shipping.UpsertZone)
		}

		products := admin.Group("/products")
		{
			products.POST("", h.Product.AdminCreateProduct)
			products.PUT("/:id", h.Product.AdminUpdateProduct)
			products.GET("/:id/stock-movements", h.Inventory.GetStockMovements)
			products.POST("/:id/stock-adjustments", h.Inventory.AdjustStock)
		}

		admin.GET("/analytics/reconciliation", h.Analytics.GetReconciliation)
	}
}
