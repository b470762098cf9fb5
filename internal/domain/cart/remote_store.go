// internal/domain/cart/remote_store.go
package cart

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// RemoteStore keeps an authenticated user's cart in the cart_items table
type RemoteStore struct {
	db     *gorm.DB
	userID string
}

// NewRemoteStore creates a database backend for the given user
func NewRemoteStore(db *gorm.DB, userID string) *RemoteStore {
	return &RemoteStore{db: db, userID: userID}
}

// Load returns the user's lines in the order they were added
func (s *RemoteStore) Load(ctx context.Context) ([]Line, error) {
	var items []CartItem
	if err := s.db.WithContext(ctx).Where("user_id = ?", s.userID).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}

	lines := make([]Line, len(items))
	for i, item := range items {
		lines[i] = item.toLine()
	}
	return lines, nil
}

// Insert creates a cart row and returns the line with the row id
func (s *RemoteStore) Insert(ctx context.Context, line Line) (Line, error) {
	item := CartItem{
		UserID:              s.userID,
		ProductID:           line.ProductID,
		Name:                line.Name,
		UnitPrice:           line.UnitPrice,
		DiscountedUnitPrice: line.DiscountedUnitPrice,
		Quantity:            line.Quantity,
		ImageRef:            line.ImageRef,
		WeightLabel:         line.WeightLabel,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return Line{}, fmt.Errorf("failed to create cart item: %w", err)
	}
	return item.toLine(), nil
}

// SetQuantity changes the quantity of one of the user's rows
func (s *RemoteStore) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	result := s.db.WithContext(ctx).Model(&CartItem{}).
		Where("id = ? AND user_id = ?", lineID, s.userID).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLineNotFound
	}
	return nil
}

// Delete removes one of the user's rows
func (s *RemoteStore) Delete(ctx context.Context, lineID string) error {
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", lineID, s.userID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// Clear removes all of the user's rows
func (s *RemoteStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", s.userID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
