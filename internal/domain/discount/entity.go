// internal/domain/discount/entity.go
package discount

import (
	"strings"
	"time"

	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Type is how a discount value is applied
type Type string

const (
	TypePercentage Type = "PERCENTAGE"
	TypeFixed      Type = "FIXED"
)

// AppliesTo is the scope of a discount
type AppliesTo string

const (
	AppliesToAll         AppliesTo = "ALL"
	AppliesToProducts    AppliesTo = "PRODUCTS"
	AppliesToCollections AppliesTo = "COLLECTIONS"
)

// Reason explains why a code was rejected
type Reason string

const (
	ReasonInvalidCode   Reason = "INVALID_CODE"
	ReasonInactive      Reason = "INACTIVE"
	ReasonNotYetStarted Reason = "NOT_YET_STARTED"
	ReasonExpired       Reason = "EXPIRED"
	ReasonUsageLimit    Reason = "USAGE_LIMIT_REACHED"
	ReasonBelowMinimum  Reason = "BELOW_MINIMUM"
	ReasonUnavailable   Reason = "UNAVAILABLE"
)

// Code is a discount code. Codes are stored upper-case and matched case-insensitively.
type Code struct {
	ID             string           `gorm:"type:uuid;primaryKey" json:"id"`
	Code           string           `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Description    string           `gorm:"size:255" json:"description"`
	Type           Type             `gorm:"not null;size:20" json:"type"`
	Value          decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"value"`
	MinOrderAmount *decimal.Decimal `gorm:"type:numeric(12,2)" json:"min_order_amount,omitempty"`
	StartDate      time.Time        `gorm:"not null" json:"start_date"`
	EndDate        time.Time        `gorm:"not null" json:"end_date"`
	UsageLimit     *int             `json:"usage_limit,omitempty"`
	UsageCount     int              `gorm:"not null;default:0" json:"usage_count"`
	IsActive       bool             `gorm:"not null" json:"is_active"`
	AppliesTo      AppliesTo        `gorm:"not null;size:20;default:'ALL'" json:"applies_to"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TableName overrides the table name
func (Code) TableName() string {
	return "discount_codes"
}

// BeforeSave normalises the code and assigns an identifier
func (c *Code) BeforeSave(tx *gorm.DB) error {
	c.Code = NormaliseCode(c.Code)
	if c.ID == "" {
		c.ID = entityid.New()
	}
	return nil
}

// NormaliseCode upper-cases and trims a discount code
func NormaliseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Amount is the discount on subtotal. A fixed discount never exceeds the subtotal.
func (c *Code) Amount(subtotal decimal.Decimal) decimal.Decimal {
	switch c.Type {
	case TypePercentage:
		return subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	case TypeFixed:
		return decimal.Min(c.Value, subtotal)
	}
	return decimal.Zero
}

// Result is the outcome of validating a code against a subtotal
type Result struct {
	OK     bool            `json:"ok"`
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
	Type   Type            `json:"type,omitempty"`
	Value  decimal.Decimal `json:"value"`
	Reason Reason          `json:"reason,omitempty"`
}
