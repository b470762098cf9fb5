// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when an order does not exist
var ErrNotFound = errors.New("order not found")

// ListFilter narrows an order listing
type ListFilter struct {
	UserID string
	Status Status
	Page   int
	Limit  int
}

// Repository persists orders
type Repository interface {
	CreateHeader(ctx context.Context, o *Order) error
	CreateItem(ctx context.Context, item *OrderItem) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, int64, error)
	UpdateField(ctx context.Context, id, field, value string, changedBy *string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm backed order repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// CreateHeader inserts the order row only. Items are written separately.
func (r *gormRepository) CreateHeader(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

func (r *gormRepository) CreateItem(ctx context.Context, item *OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormRepository) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return r.first(ctx, "order_number = ?", number)
}

func (r *gormRepository) first(ctx context.Context, query string, arg string) (*Order, error) {
	var o Order
	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("ShippingAddress").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where(query, arg).
		First(&o)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

func (r *gormRepository) List(ctx context.Context, filter ListFilter) ([]Order, int64, error) {
	var orders []Order
	var total int64

	query := r.db.WithContext(ctx).Model(&Order{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return orders, total, nil
}

// UpdateField sets status or payment_status and records the change in one transaction
func (r *gormRepository) UpdateField(ctx context.Context, id, field, value string, changedBy *string) error {
	tx := r.db.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var current Order
	if err := tx.Select("id", field).Where("id = ?", id).First(&current).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load order: %w", err)
	}

	from := string(current.Status)
	if field == FieldPaymentStatus {
		from = string(current.PaymentStatus)
	}

	if err := tx.Model(&Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		field:        value,
		"updated_at": time.Now().UTC(),
	}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update order %s: %w", field, err)
	}

	change := StatusChange{
		OrderID:   id,
		Field:     field,
		From:      from,
		To:        value,
		ChangedBy: changedBy,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&change).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create status history: %w", err)
	}

	return tx.Commit().Error
}
