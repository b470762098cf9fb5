// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Line is one product and quantity in a cart, with the price captured when it was added
type Line struct {
	LineID              string           `json:"line_id"`
	ProductID           string           `json:"product_id"`
	Name                string           `json:"name"`
	UnitPrice           decimal.Decimal  `json:"unit_price"`
	DiscountedUnitPrice *decimal.Decimal `json:"discounted_unit_price,omitempty"`
	Quantity            int              `json:"quantity"`
	ImageRef            string           `json:"image_ref"`
	WeightLabel         string           `json:"weight_label"`
}

// EffectivePrice is the discounted unit price when set, otherwise the unit price
func (l Line) EffectivePrice() decimal.Decimal {
	if l.DiscountedUnitPrice != nil {
		return *l.DiscountedUnitPrice
	}
	return l.UnitPrice
}

// LineTotal returns the effective price times the quantity
func (l Line) LineTotal() decimal.Decimal {
	return l.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartItem is a persisted cart line for an authenticated user.
// A user's cart is the set of their rows.
type CartItem struct {
	ID                  string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              string           `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID           string           `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Name                string           `gorm:"size:255;not null" json:"name"`
	UnitPrice           decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	DiscountedUnitPrice *decimal.Decimal `gorm:"type:numeric(12,2)" json:"discounted_unit_price,omitempty"`
	Quantity            int              `gorm:"not null;check:quantity >= 1" json:"quantity"`
	ImageRef            string           `gorm:"size:500" json:"image_ref"`
	WeightLabel         string           `gorm:"size:50" json:"weight_label"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// BeforeCreate assigns an identifier when none is set
func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = entityid.New()
	}
	return nil
}

func (c CartItem) toLine() Line {
	return Line{
		LineID:              c.ID,
		ProductID:           c.ProductID,
		Name:                c.Name,
		UnitPrice:           c.UnitPrice,
		DiscountedUnitPrice: c.DiscountedUnitPrice,
		Quantity:            c.Quantity,
		ImageRef:            c.ImageRef,
		WeightLabel:         c.WeightLabel,
	}
}

// SessionCart is an anonymous cart stored in Redis
type SessionCart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View is the cart as shown to the shopper
type View struct {
	Lines             []Line          `json:"lines"`
	ItemCount         int             `json:"item_count"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	EstimatedShipping decimal.Decimal `json:"estimated_shipping"`
	Total             decimal.Decimal `json:"total"`
}
