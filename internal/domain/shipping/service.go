// internal/domain/shipping/service.go
package shipping

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Service administers shipping zones
type Service struct {
	repo Repository
}

// NewService creates a new shipping zone service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertZoneRequest represents shipping zone data
type UpsertZoneRequest struct {
	Region                string           `json:"region" binding:"required"`
	BaseRate              decimal.Decimal  `json:"base_rate"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold"`
	Carrier               string           `json:"carrier"`
	EstimatedDays         string           `json:"estimated_days"`
	IsActive              *bool            `json:"is_active"`
}

// ListZones returns all shipping zones
func (s *Service) ListZones(ctx context.Context) ([]Zone, error) {
	return s.repo.List(ctx)
}

// UpsertZone creates or replaces the zone for a region
func (s *Service) UpsertZone(ctx context.Context, req *UpsertZoneRequest) (*Zone, error) {
	region := NormaliseRegion(req.Region)
	if region == "" {
		return nil, fmt.Errorf("region is required")
	}
	if req.BaseRate.IsNegative() {
		return nil, fmt.Errorf("base rate cannot be negative")
	}
	if req.FreeShippingThreshold != nil && req.FreeShippingThreshold.IsNegative() {
		return nil, fmt.Errorf("free shipping threshold cannot be negative")
	}

	zone := &Zone{
		Region:                region,
		BaseRate:              req.BaseRate,
		FreeShippingThreshold: req.FreeShippingThreshold,
		Carrier:               req.Carrier,
		EstimatedDays:         req.EstimatedDays,
		IsActive:              true,
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}

	if err := s.repo.Upsert(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}
