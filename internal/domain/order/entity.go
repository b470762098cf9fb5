// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/bayt-organic/storefront/internal/domain/checkout"
	"github.com/bayt-organic/storefront/internal/domain/user"
	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status represents the fulfilment status of an order
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Fields recorded in the status history
const (
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
)

// Order is an order header. Items are attached one at a time after the header exists,
// so an order may hold fewer items than the cart it came from. RequestedItems keeps
// the number of valid lines submitted so short orders can be found later.
type Order struct {
	ID                string        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber       string        `gorm:"uniqueIndex;not null;size:40" json:"order_number"`
	UserID            *string       `gorm:"type:uuid;index" json:"user_id"` // Nullable for guest orders
	Email             string        `gorm:"size:255" json:"email"`
	ShippingAddressID string        `gorm:"type:uuid;not null;index" json:"shipping_address_id"`
	ShippingAddress   *user.Address `gorm:"foreignKey:ShippingAddressID" json:"shipping_address,omitempty"`
	Status            Status        `gorm:"not null;size:20;index" json:"status"`
	PaymentStatus     PaymentStatus `gorm:"not null;size:20" json:"payment_status"`
	PaymentMethod     string        `gorm:"not null;size:30" json:"payment_method"`
	RequestedItems    int           `gorm:"not null;default:0" json:"requested_items"`

	// Financial Information
	Subtotal       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	ShippingCost   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_cost"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount_amount"`
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	CouponCode     string          `gorm:"size:50" json:"coupon_code,omitempty"`

	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Items         []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusChange `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem is a committed order line. It always refers to a product that existed
// when the order was placed.
type OrderItem struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string          `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID string          `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string          `gorm:"not null;size:255" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

// StatusChange records an admin change to an order's status or payment status
type StatusChange struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string    `gorm:"type:uuid;not null;index" json:"order_id"`
	Field     string    `gorm:"not null;size:20" json:"field"`
	From      string    `gorm:"column:from_value;size:20" json:"from"`
	To        string    `gorm:"column:to_value;not null;size:20" json:"to"`
	ChangedBy *string   `gorm:"type:uuid" json:"changed_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string        { return "orders" }
func (OrderItem) TableName() string    { return "order_items" }
func (StatusChange) TableName() string { return "order_status_history" }

// BeforeCreate assigns an identifier when none is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = entityid.New()
	}
	return nil
}

// BeforeCreate assigns an identifier when none is set
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = entityid.New()
	}
	return nil
}

// BeforeCreate assigns an identifier when none is set
func (c *StatusChange) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = entityid.New()
	}
	return nil
}

// LineTotal returns unit price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemCount returns the number of units across all items
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// NewOrderNumber generates a human-readable order number.
// Format: BO-YYYYMMDD-HHMMSS-XXXXXX. Collisions are not retried.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(entityid.New(), "-", "")[:6])
	return fmt.Sprintf("BO-%s-%s", now.UTC().Format("20060102-150405"), suffix)
}

// PaymentStatusFor returns the initial payment status for a payment method.
// Cash on delivery is collected later, every other method is paid at checkout.
func PaymentStatusFor(method string) PaymentStatus {
	if strings.EqualFold(method, checkout.PaymentMethodCOD) {
		return PaymentStatusPending
	}
	return PaymentStatusPaid
}

// Valid reports whether s is a known order status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Valid reports whether s is a known payment status
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}
