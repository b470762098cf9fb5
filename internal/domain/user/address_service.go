// internal/domain/user/address_service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/sirupsen/logrus"
)

// ErrPersistence is returned when a shipping address cannot be saved or read
var ErrPersistence = errors.New("PERSISTENCE_ERROR")

// ValidationError names the first missing shipping field
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("VALIDATION_ERROR: %s is required", e.Field)
}

// AddressFields is an inline shipping form
type AddressFields struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

// ResolveInput selects a saved address or carries an inline one.
// An empty UserID means guest checkout.
type ResolveInput struct {
	UserID         string
	SavedAddressID string
	Fields         AddressFields
}

// AddressService handles address business logic
type AddressService struct {
	store AddressStore
	log   logrus.FieldLogger
}

// NewAddressService creates a new address service
func NewAddressService(store AddressStore, log logrus.FieldLogger) *AddressService {
	return &AddressService{
		store: store,
		log:   log,
	}
}

// Resolve returns the shipping address for a checkout.
//
// A saved address is reused unchanged when it belongs to the requesting user.
// Otherwise a new address is created from the inline fields, owned by the user
// when there is one and ownerless for guests. A user's first address becomes
// their default.
func (s *AddressService) Resolve(ctx context.Context, input ResolveInput) (*Address, error) {
	userID := input.UserID
	if !entityid.IsValid(userID) {
		userID = ""
	}

	if userID != "" && entityid.IsValid(input.SavedAddressID) {
		saved, err := s.store.FindOwned(ctx, input.SavedAddressID, userID)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, ErrAddressNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		s.log.WithFields(logrus.Fields{
			"user_id":    userID,
			"address_id": input.SavedAddressID,
		}).Info("saved address not found for user, using inline address")
	}

	fields := normalise(input.Fields)
	if err := fields.validate(); err != nil {
		return nil, err
	}

	address := &Address{
		RecipientName: fields.RecipientName,
		Phone:         fields.Phone,
		Street:        fields.Street,
		City:          fields.City,
		State:         fields.State,
		PostalCode:    fields.PostalCode,
		Country:       fields.Country,
	}

	if userID != "" {
		owned, err := s.store.CountOwned(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		owner := userID
		address.OwnerUserID = &owner
		address.IsDefault = owned == 0
	}

	if err := s.store.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return address, nil
}

// GetUserAddresses retrieves all saved addresses for a user
func (s *AddressService) GetUserAddresses(ctx context.Context, userID string) ([]Address, error) {
	if !entityid.IsValid(userID) {
		return []Address{}, nil
	}
	return s.store.ListOwned(ctx, userID)
}

func normalise(f AddressFields) AddressFields {
	return AddressFields{
		RecipientName: strings.TrimSpace(f.RecipientName),
		Phone:         strings.TrimSpace(f.Phone),
		Street:        strings.TrimSpace(f.Street),
		City:          strings.TrimSpace(f.City),
		State:         strings.TrimSpace(f.State),
		PostalCode:    strings.TrimSpace(f.PostalCode),
		Country:       strings.TrimSpace(f.Country),
	}
}

func (f AddressFields) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"recipient_name", f.RecipientName},
		{"phone", f.Phone},
		{"street", f.Street},
		{"city", f.City},
		{"state", f.State},
		{"postal_code", f.PostalCode},
		{"country", f.Country},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.name}
		}
	}
	return nil
}
