// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"gorm.io/gorm"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementTypeInbound  MovementType = "inbound"
	MovementTypeOutbound MovementType = "outbound"
)

// MovementReason represents the reason for a stock movement
type MovementReason string

const (
	ReasonSale       MovementReason = "sale"
	ReasonAdjustment MovementReason = "adjustment"
)

// Movement is an audit record of a change to a product's stock
type Movement struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID     string         `gorm:"type:uuid;not null;index" json:"product_id"`
	MovementType  MovementType   `gorm:"not null;size:20" json:"movement_type"`
	Reason        MovementReason `gorm:"not null;size:20" json:"reason"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	ReferenceType string         `gorm:"size:50" json:"reference_type"`
	ReferenceID   string         `gorm:"size:64;index" json:"reference_id"`
	CreatedAt     time.Time      `json:"created_at"`
}

// TableName overrides
func (Movement) TableName() string { return "stock_movements" }

// BeforeCreate assigns an identifier when none is set
func (m *Movement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = entityid.New()
	}
	return nil
}
