// internal/domain/user/repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a user does not exist
	ErrNotFound = errors.New("user not found")
	// ErrAddressNotFound is returned when an address does not exist or belongs to someone else
	ErrAddressNotFound = errors.New("address not found")
)

// Repository persists users
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// AddressStore persists shipping addresses
type AddressStore interface {
	FindOwned(ctx context.Context, id, ownerID string) (*Address, error)
	CountOwned(ctx context.Context, ownerID string) (int64, error)
	ListOwned(ctx context.Context, ownerID string) ([]Address, error)
	Create(ctx context.Context, address *Address) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed user repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

func (r *gormRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

type gormAddressStore struct {
	db *gorm.DB
}

// NewAddressStore creates a gorm-backed address store
func NewAddressStore(db *gorm.DB) AddressStore {
	return &gormAddressStore{db: db}
}

func (s *gormAddressStore) FindOwned(ctx context.Context, id, ownerID string) (*Address, error) {
	var address Address
	err := s.db.WithContext(ctx).Where("id = ? AND owner_user_id = ?", id, ownerID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}
	return &address, nil
}

func (s *gormAddressStore) CountOwned(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Address{}).Where("owner_user_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (s *gormAddressStore) ListOwned(ctx context.Context, ownerID string) ([]Address, error) {
	var addresses []Address
	err := s.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve addresses: %w", err)
	}
	return addresses, nil
}

func (s *gormAddressStore) Create(ctx context.Context, address *Address) error {
	return s.db.WithContext(ctx).Create(address).Error
}
