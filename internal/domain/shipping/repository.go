// internal/domain/shipping/repository.go
package shipping

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrZoneNotFound is returned when no active zone exists for a region
var ErrZoneNotFound = errors.New("shipping zone not found")

// ZoneSource looks up shipping zones
type ZoneSource interface {
	FindZone(ctx context.Context, region string) (*Zone, error)
}

// Repository persists shipping zones
type Repository interface {
	ZoneSource
	List(ctx context.Context) ([]Zone, error)
	Upsert(ctx context.Context, zone *Zone) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed shipping zone repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindZone(ctx context.Context, region string) (*Zone, error) {
	var zone Zone
	err := r.db.WithContext(ctx).Where("region = ? AND is_active = ?", region, true).First(&zone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("failed to retrieve shipping zone: %w", err)
	}
	return &zone, nil
}

func (r *gormRepository) List(ctx context.Context) ([]Zone, error) {
	var zones []Zone
	if err := r.db.WithContext(ctx).Order("region ASC").Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve shipping zones: %w", err)
	}
	return zones, nil
}

func (r *gormRepository) Upsert(ctx context.Context, zone *Zone) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "region"}},
		DoUpdates: clause.AssignmentColumns([]string{"base_rate", "free_shipping_threshold", "carrier", "estimated_days", "is_active", "updated_at"}),
	}).Create(zone).Error
	if err != nil {
		return fmt.Errorf("failed to save shipping zone: %w", err)
	}
	return nil
}
