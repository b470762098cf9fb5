// internal/domain/discount/repository.go
package discount

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a discount code does not exist
var ErrNotFound = errors.New("discount code not found")

// Registry looks up discount codes
type Registry interface {
	FindByCode(ctx context.Context, code string) (*Code, error)
}

// Repository persists discount codes
type Repository interface {
	Registry
	GetByID(ctx context.Context, id string) (*Code, error)
	List(ctx context.Context) ([]Code, error)
	Create(ctx context.Context, code *Code) error
	Save(ctx context.Context, code *Code) error
	Delete(ctx context.Context, id string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed discount code repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindByCode(ctx context.Context, code string) (*Code, error) {
	return r.first(ctx, "code = ?", NormaliseCode(code))
}

func (r *gormRepository) GetByID(ctx context.Context, id string) (*Code, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormRepository) first(ctx context.Context, query string, arg interface{}) (*Code, error) {
	var c Code
	if err := r.db.WithContext(ctx).Where(query, arg).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve discount code: %w", err)
	}
	return &c, nil
}

func (r *gormRepository) List(ctx context.Context) ([]Code, error) {
	var codes []Code
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve discount codes: %w", err)
	}
	return codes, nil
}

func (r *gormRepository) Create(ctx context.Context, code *Code) error {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return fmt.Errorf("failed to create discount code: %w", err)
	}
	return nil
}

func (r *gormRepository) Save(ctx context.Context, code *Code) error {
	if err := r.db.WithContext(ctx).Save(code).Error; err != nil {
		return fmt.Errorf("failed to update discount code: %w", err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Code{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete discount code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
