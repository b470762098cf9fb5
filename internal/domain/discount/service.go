// internal/domain/discount/service.go
package discount

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/shopspring/decimal"
)

// ErrDuplicateCode is returned when a code already exists
var ErrDuplicateCode = errors.New("discount code already exists")

// Service administers discount codes
type Service struct {
	repo Repository
}

// NewService creates a new discount service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CodeRequest represents discount code data for create and update
type CodeRequest struct {
	Code           string           `json:"code" binding:"required"`
	Description    string           `json:"description"`
	Type           Type             `json:"type" binding:"required,oneof=PERCENTAGE FIXED"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	StartDate      time.Time        `json:"start_date" binding:"required"`
	EndDate        time.Time        `json:"end_date" binding:"required"`
	UsageLimit     *int             `json:"usage_limit"`
	IsActive       *bool            `json:"is_active"`
	AppliesTo      AppliesTo        `json:"applies_to"`
}

// List returns all discount codes
func (s *Service) List(ctx context.Context) ([]Code, error) {
	return s.repo.List(ctx)
}

// Create adds a discount code
func (s *Service) Create(ctx context.Context, req *CodeRequest) (*Code, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, ErrDuplicateCode
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	c := &Code{}
	apply(c, req)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces a discount code's settings. The usage count is kept.
func (s *Service) Update(ctx context.Context, id string, req *CodeRequest) (*Code, error) {
	if !entityid.IsValid(id) {
		return nil, ErrNotFound
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if other, err := s.repo.FindByCode(ctx, req.Code); err == nil && other.ID != c.ID {
		return nil, ErrDuplicateCode
	}

	apply(c, req)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a discount code
func (s *Service) Delete(ctx context.Context, id string) error {
	if !entityid.IsValid(id) {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func apply(c *Code, req *CodeRequest) {
	c.Code = NormaliseCode(req.Code)
	c.Description = req.Description
	c.Type = req.Type
	c.Value = req.Value
	c.MinOrderAmount = req.MinOrderAmount
	c.StartDate = req.StartDate
	c.EndDate = req.EndDate
	c.UsageLimit = req.UsageLimit
	c.IsActive = true
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.AppliesTo = req.AppliesTo
	if c.AppliesTo == "" {
		c.AppliesTo = AppliesToAll
	}
}

func validate(req *CodeRequest) error {
	if NormaliseCode(req.Code) == "" {
		return fmt.Errorf("code is required")
	}

	switch req.Type {
	case TypePercentage:
		if !req.Value.IsPositive() || req.Value.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("percentage value must be greater than 0 and at most 100")
		}
	case TypeFixed:
		if !req.Value.IsPositive() {
			return fmt.Errorf("fixed value must be greater than 0")
		}
	default:
		return fmt.Errorf("invalid discount type: %s", req.Type)
	}

	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("end date must not be before start date")
	}
	if req.MinOrderAmount != nil && req.MinOrderAmount.IsNegative() {
		return fmt.Errorf("minimum order amount cannot be negative")
	}
	if req.UsageLimit != nil && *req.UsageLimit < 0 {
		return fmt.Errorf("usage limit cannot be negative")
	}

	switch req.AppliesTo {
	case "", AppliesToAll, AppliesToProducts, AppliesToCollections:
	default:
		return fmt.Errorf("invalid applies_to: %s", req.AppliesTo)
	}
	return nil
}
