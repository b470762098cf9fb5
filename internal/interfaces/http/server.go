// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/bayt-organic/storefront/internal/domain/analytics"
	"github.com/bayt-organic/storefront/internal/domain/cart"
	"github.com/bayt-organic/storefront/internal/domain/checkout"
	"github.com/bayt-organic/storefront/internal/domain/discount"
	"github.com/bayt-organic/storefront/internal/domain/inventory"
	"github.com/bayt-organic/storefront/internal/domain/order"
	"github.com/bayt-organic/storefront/internal/domain/product"
	"github.com/bayt-organic/storefront/internal/domain/shipping"
	"github.com/bayt-organic/storefront/internal/domain/user"
	"github.com/bayt-organic/storefront/internal/infrastructure/cache"
	"github.com/bayt-organic/storefront/internal/infrastructure/database/postgres"
	"github.com/bayt-organic/storefront/internal/infrastructure/database/redis"
	"github.com/bayt-organic/storefront/internal/infrastructure/messaging/kafka"
	"github.com/bayt-organic/storefront/internal/interfaces/http/handlers"
	"github.com/bayt-organic/storefront/internal/interfaces/http/middleware"
	"github.com/bayt-organic/storefront/internal/interfaces/http/routes"
	"github.com/bayt-organic/storefront/internal/pkg/auth"
	"github.com/bayt-organic/storefront/internal/pkg/email"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	log        logrus.FieldLogger
	gin        *gin.Engine
	httpServer *http.Server
	db         *postgres.Database
	redis      *redis.Client
	events     *kafka.Writer
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, db *postgres.Database, redisClient *redis.Client, log logrus.FieldLogger) *Server {
	return &Server{
		config: cfg,
		log:    log,
		db:     db,
		redis:  redisClient,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.gin = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	s.startedAt = time.Now()

	s.log.WithFields(logrus.Fields{
		"port":        s.config.Server.Port,
		"environment": s.config.App.Environment,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			s.log.WithError(err).Warn("failed to close order event writer")
		}
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.log))
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders(s.config.App.Name))
	s.gin.Use(middleware.RateLimit(s.redis.GetClient(), s.config.Security.RateLimitPerMinute, s.log))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	jwtManager := auth.NewJWTManager(s.config)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, s.buildHandlers(jwtManager), jwtManager)
}

// buildHandlers wires repositories, services and handlers
func (s *Server) buildHandlers(jwtManager *auth.JWTManager) *routes.Handlers {
	db := s.db.GetDB()
	redisClient := s.redis.GetClient()
	listings := cache.NewListingCache(redisClient, s.config.Cache.ListingTTL)

	userService := user.NewService(
		user.NewRepository(db),
		auth.NewPasswordManager(s.config),
		jwtManager,
		s.config.JWT.AccessTokenExpiry,
		s.log,
	)
	addressService := user.NewAddressService(user.NewAddressStore(db), s.log)

	productService := product.NewService(product.NewRepository(db), listings, s.log)
	ledger := inventory.NewLedger(db)
	cartService := cart.NewService(db, redisClient, s.config, productService, s.log)

	shippingRepo := shipping.NewRepository(db)
	calculator := shipping.NewCalculator(shippingRepo, s.config.Shipping, s.log)
	discountRepo := discount.NewRepository(db)
	validator := discount.NewValidator(discountRepo, s.log)
	checkoutService := checkout.NewService(calculator, validator)

	orderService := order.NewService(
		order.NewRepository(db),
		addressService,
		productService,
		ledger,
		cartService,
		userService,
		listings,
		s.log,
	)
	orderService.Use(
		order.RevalidateListings(listings),
		order.SendConfirmation(email.NewEmailService(s.config, s.log)),
	)
	if s.config.KafkaEnabled() {
		s.events = kafka.NewWriter(s.config.Kafka.Brokers, s.config.Kafka.OrderTopic)
		orderService.Use(order.PublishCreated(s.events))
	}

	return &routes.Handlers{
		Auth:      handlers.NewAuthHandler(userService, cartService, s.config),
		Product:   handlers.NewProductHandler(productService),
		Inventory: handlers.NewInventoryHandler(ledger, listings),
		Cart:      handlers.NewCartHandler(cartService, calculator, s.config),
		Checkout:  handlers.NewCheckoutHandler(cartService, checkoutService, calculator, validator, s.config),
		Order:     handlers.NewOrderHandler(orderService, cartService, s.config),
		Address:   handlers.NewUserAddressHandler(addressService),
		Discount:  handlers.NewDiscountHandler(discount.NewService(discountRepo)),
		Shipping:  handlers.NewShippingHandler(shipping.NewService(shippingRepo)),
		Analytics: handlers.NewAnalyticsHandler(analytics.NewService(db)),
	}
}

// healthCheck handles liveness requests
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck reports whether postgres and redis are reachable
func (s *Server) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := s.db.Health(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "database ping failed",
		})
		return
	}

	if err := s.redis.Health(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "redis ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).String(),
	})
}
