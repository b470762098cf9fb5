// internal/domain/inventory/ledger.go
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/bayt-organic/storefront/internal/domain/product"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when the product to move stock for does not exist
var ErrProductNotFound = errors.New("product not found")

// Ledger applies stock movements to products.
//
// Decrement is unconditional: there is no floor at zero and no row lock, so two
// concurrent orders for the last unit both succeed and stock goes negative.
// Nothing restocks a cancelled order.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a new stock ledger
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ErrZeroAdjustment is returned when an adjustment would not change stock
var ErrZeroAdjustment = errors.New("stock adjustment must be non-zero")

// Decrement removes qty units from a product's stock on behalf of an order
func (l *Ledger) Decrement(ctx context.Context, productID string, qty int, orderID string) error {
	return l.apply(ctx, productID, -qty, &Movement{
		MovementType:  MovementTypeOutbound,
		Reason:        ReasonSale,
		Quantity:      qty,
		ReferenceType: "order",
		ReferenceID:   orderID,
	})
}

// Adjust applies an admin correction to a product's stock. A positive delta
// restocks, a negative one writes stock off.
func (l *Ledger) Adjust(ctx context.Context, productID string, delta int, adjustedBy string) error {
	if delta == 0 {
		return ErrZeroAdjustment
	}

	movement := &Movement{
		MovementType:  MovementTypeInbound,
		Reason:        ReasonAdjustment,
		Quantity:      delta,
		ReferenceType: "admin",
		ReferenceID:   adjustedBy,
	}
	if delta < 0 {
		movement.MovementType = MovementTypeOutbound
		movement.Quantity = -delta
	}
	return l.apply(ctx, productID, delta, movement)
}

func (l *Ledger) apply(ctx context.Context, productID string, delta int, movement *Movement) error {
	tx := l.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin stock transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	result := tx.Model(&product.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return ErrProductNotFound
	}

	movement.ProductID = productID
	if err := tx.Create(movement).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record stock movement: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit stock movement: %w", err)
	}
	return nil
}

// Movements returns the most recent stock movements for a product
func (l *Ledger) Movements(ctx context.Context, productID string, limit int) ([]Movement, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var movements []Movement
	err := l.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}
	return movements, nil
}
