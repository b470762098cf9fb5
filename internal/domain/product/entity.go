// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalogue product
type Product struct {
	ID              string           `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string           `gorm:"not null;size:255" json:"name"`
	Slug            string           `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description     string           `gorm:"type:text" json:"description"`
	Price           decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	DiscountedPrice *decimal.Decimal `gorm:"type:numeric(12,2)" json:"discounted_price,omitempty"`
	Stock           int              `gorm:"not null;default:0" json:"stock"`
	WeightLabel     string           `gorm:"size:50" json:"weight_label"`
	IsActive        bool             `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Relationships
	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// ProductImage represents product images
type ProductImage struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID string    `gorm:"type:uuid;not null;index" json:"product_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	AltText   string    `gorm:"size:255" json:"alt_text"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Product) TableName() string      { return "products" }
func (ProductImage) TableName() string { return "product_images" }

// BeforeCreate assigns an identifier when none is set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = entityid.New()
	}
	return nil
}

// BeforeCreate assigns an identifier when none is set
func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = entityid.New()
	}
	return nil
}

// EffectivePrice is the price a shopper pays per unit
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// PrimaryImage returns the first image URL, or "" when the product has none
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	best := p.Images[0]
	for _, img := range p.Images[1:] {
		if img.SortOrder < best.SortOrder {
			best = img
		}
	}
	return best.URL
}
