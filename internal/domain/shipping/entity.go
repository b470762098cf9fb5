// internal/domain/shipping/entity.go
package shipping

import (
	"time"

	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatchAllRegion is the zone used for any region without its own zone
const CatchAllRegion = "*"

// Zone holds the shipping rate for a destination region
type Zone struct {
	ID                    string           `gorm:"type:uuid;primaryKey" json:"id"`
	Region                string           `gorm:"uniqueIndex;not null;size:100" json:"region"`
	BaseRate              decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"base_rate"`
	FreeShippingThreshold *decimal.Decimal `gorm:"type:numeric(12,2)" json:"free_shipping_threshold,omitempty"`
	Carrier               string           `gorm:"size:100" json:"carrier"`
	EstimatedDays         string           `gorm:"size:50" json:"estimated_days"`
	IsActive              bool             `gorm:"not null" json:"is_active"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// TableName overrides the table name
func (Zone) TableName() string {
	return "shipping_zones"
}

// BeforeCreate assigns an identifier when none is set
func (z *Zone) BeforeCreate(tx *gorm.DB) error {
	if z.ID == "" {
		z.ID = entityid.New()
	}
	return nil
}

// Quote is the shipping cost for a subtotal and region
type Quote struct {
	Region                string           `json:"region"`
	ShippingCost          decimal.Decimal  `json:"shipping_cost"`
	Message               string           `json:"message,omitempty"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold,omitempty"`
	Carrier               string           `json:"carrier,omitempty"`
	EstimatedDays         string           `json:"estimated_days,omitempty"`
	Fallback              bool             `json:"fallback"`
	Warning               string           `json:"warning,omitempty"`
}
