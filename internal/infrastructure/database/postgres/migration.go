// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/bayt-organic/storefront/internal/domain/cart"
	"github.com/bayt-organic/storefront/internal/domain/discount"
	"github.com/bayt-organic/storefront/internal/domain/inventory"
	"github.com/bayt-organic/storefront/internal/domain/order"
	"github.com/bayt-organic/storefront/internal/domain/product"
	"github.com/bayt-organic/storefront/internal/domain/shipping"
	"github.com/bayt-organic/storefront/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db         *gorm.DB
	log        logrus.FieldLogger
	bcryptCost int
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, bcryptCost int, log logrus.FieldLogger) *Migration {
	return &Migration{
		db:         db,
		log:        log,
		bcryptCost: bcryptCost,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("running database auto-migrations")

	// Dependency order
	models := []interface{}{
		&user.User{},
		&user.Address{},

		&product.Product{},
		&product.ProductImage{},
		&inventory.Movement{},

		&cart.CartItem{},

		&shipping.Zone{},
		&discount.Code{},

		&order.Order{},
		&order.OrderItem{},
		&order.StatusChange{},
	}

	for _, model := range models {
		m.log.Debugf("migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for listing queries
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_active_created ON products(is_active, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements(product_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_shipping_addresses_owner_created ON shipping_addresses(owner_user_id, created_at)",
	}

	failCount := 0
	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			m.log.WithError(err).Warn("failed to create index")
			failCount++
		}
	}

	if failCount > 0 {
		return fmt.Errorf("%d of %d indexes failed", failCount, len(indexes))
	}
	return nil
}

// SeedInitialData inserts development data. Existing rows are left alone.
func (m *Migration) SeedInitialData() error {
	m.log.Info("seeding initial data")

	if err := m.seedUser("admin@baytorganic.com", "admin12345", "Store", "Admin", true); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedUser("customer@baytorganic.com", "customer123", "Test", "Customer", false); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}
	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if err := m.seedShippingZones(); err != nil {
		return fmt.Errorf("failed to seed shipping zones: %w", err)
	}
	if err := m.seedDiscountCodes(); err != nil {
		return fmt.Errorf("failed to seed discount codes: %w", err)
	}

	m.log.Info("initial data seeded")
	return nil
}

func (m *Migration) seedUser(email, password, firstName, lastName string, isAdmin bool) error {
	var existing user.User
	err := m.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
		IsAdmin:   isAdmin,
	}
	if err := m.db.Create(&u).Error; err != nil {
		return err
	}

	m.log.WithFields(logrus.Fields{"email": email, "admin": isAdmin}).Info("created seed user")
	return nil
}

func (m *Migration) seedProducts() error {
	var count int64
	if err := m.db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	sale := decimal.NewFromInt(850)
	products := []product.Product{
		{
			Name:            "Sidr Honey",
			Slug:            "sidr-honey",
			Description:     "Raw sidr honey from the Hadramout valley.",
			Price:           decimal.NewFromInt(950),
			DiscountedPrice: &sale,
			Stock:           40,
			WeightLabel:     "500 g",
			IsActive:        true,
		},
		{
			Name:        "Medjool Dates",
			Slug:        "medjool-dates",
			Description: "Large soft Medjool dates.",
			Price:       decimal.NewFromInt(420),
			Stock:       120,
			WeightLabel: "1 kg",
			IsActive:    true,
		},
		{
			Name:        "Cold Pressed Olive Oil",
			Slug:        "cold-pressed-olive-oil",
			Description: "Extra virgin olive oil, first cold pressing.",
			Price:       decimal.NewFromInt(680),
			Stock:       60,
			WeightLabel: "750 ml",
			IsActive:    true,
		},
		{
			Name:        "Za'atar Blend",
			Slug:        "zaatar-blend",
			Description: "Wild thyme, sumac and toasted sesame.",
			Price:       decimal.NewFromInt(240),
			Stock:       80,
			WeightLabel: "250 g",
			IsActive:    true,
		},
	}

	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			m.log.WithError(err).WithField("slug", products[i].Slug).Warn("failed to create seed product")
		}
	}
	return nil
}

func (m *Migration) seedShippingZones() error {
	threshold := decimal.NewFromInt(2000)
	zones := []shipping.Zone{
		{
			Region:                shipping.CatchAllRegion,
			BaseRate:              decimal.NewFromInt(150),
			FreeShippingThreshold: &threshold,
			Carrier:               "Standard Courier",
			EstimatedDays:         "3-5",
			IsActive:              true,
		},
	}

	for i := range zones {
		var existing shipping.Zone
		err := m.db.Where("region = ?", zones[i].Region).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := m.db.Create(&zones[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration) seedDiscountCodes() error {
	var existing discount.Code
	err := m.db.Where("code = ?", "WELCOME10").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	code := discount.Code{
		Code:        "WELCOME10",
		Description: "10% off your first order",
		Type:        discount.TypePercentage,
		Value:       decimal.NewFromInt(10),
		StartDate:   now,
		EndDate:     now.AddDate(1, 0, 0),
		IsActive:    true,
		AppliesTo:   discount.AppliesToAll,
	}
	return m.db.Create(&code).Error
}
