// internal/domain/product/service.go
package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/bayt-organic/storefront/internal/infrastructure/cache"
	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ListingCache stores rendered product listings
type ListingCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, tag, key string, value any) error
	Revalidate(ctx context.Context, tags ...string) error
}

// Service handles product business logic
type Service struct {
	repo  Repository
	cache ListingCache
	log   logrus.FieldLogger
}

// NewService creates a new product service
func NewService(repo Repository, listingCache ListingCache, log logrus.FieldLogger) *Service {
	return &Service{
		repo:  repo,
		cache: listingCache,
		log:   log,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Search string `form:"search"`
}

// ProductListResponse represents a page of products
type ProductListResponse struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int64     `json:"total"`
}

// CreateProductRequest represents admin product creation data
type CreateProductRequest struct {
	Name            string           `json:"name" binding:"required"`
	Slug            string           `json:"slug" binding:"required"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price" binding:"required"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
	Stock           int              `json:"stock"`
	WeightLabel     string           `json:"weight_label"`
	Images          []string         `json:"images"`
}

// UpdateProductRequest represents admin product update data.
// Stock changes go through the stock ledger.
type UpdateProductRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
	WeightLabel     *string          `json:"weight_label"`
	IsActive        *bool            `json:"is_active"`
}

// GetByID returns a product. Malformed ids are reported as not found.
func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	if !entityid.IsValid(id) {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List returns active products, served from the listing cache when possible
func (s *Service) List(ctx context.Context, req *ProductListRequest) (*ProductListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	key := fmt.Sprintf("products:page=%d:limit=%d:q=%s", req.Page, req.Limit, strings.ToLower(req.Search))

	var cached ProductListResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).Warn("product listing cache read failed")
	}
	if hit {
		return &cached, nil
	}

	products, total, err := s.repo.List(ctx, ListFilter{
		Page:       req.Page,
		Limit:      req.Limit,
		Search:     req.Search,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}

	resp := &ProductListResponse{Products: products, Page: req.Page, Limit: req.Limit, Total: total}
	if err := s.cache.Set(ctx, cache.TagProducts, key, resp); err != nil {
		s.log.WithError(err).Warn("product listing cache write failed")
	}
	return resp, nil
}

// Create adds a product to the catalogue
func (s *Service) Create(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	if err := validatePrices(req.Price, req.DiscountedPrice); err != nil {
		return nil, err
	}

	p := &Product{
		Name:            req.Name,
		Slug:            req.Slug,
		Description:     req.Description,
		Price:           req.Price,
		DiscountedPrice: req.DiscountedPrice,
		Stock:           req.Stock,
		WeightLabel:     req.WeightLabel,
		IsActive:        true,
	}
	for i, url := range req.Images {
		p.Images = append(p.Images, ProductImage{URL: url, SortOrder: i})
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.revalidate(ctx)
	return p, nil
}

// Update changes the given product fields
func (s *Service) Update(ctx context.Context, id string, req *UpdateProductRequest) (*Product, error) {
	if !entityid.IsValid(id) {
		return nil, ErrNotFound
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if err := validatePrices(*req.Price, req.DiscountedPrice); err != nil {
			return nil, err
		}
		updates["price"] = *req.Price
	}
	if req.DiscountedPrice != nil {
		updates["discounted_price"] = *req.DiscountedPrice
	}
	if req.WeightLabel != nil {
		updates["weight_label"] = *req.WeightLabel
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
		s.revalidate(ctx)
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) revalidate(ctx context.Context) {
	if err := s.cache.Revalidate(ctx, cache.TagProducts); err != nil {
		s.log.WithError(err).Warn("product listing revalidation failed")
	}
}

func validatePrices(price decimal.Decimal, discounted *decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("price must be greater than zero")
	}
	if discounted != nil && (discounted.IsNegative() || discounted.GreaterThan(price)) {
		return fmt.Errorf("discounted price must be between 0 and the price")
	}
	return nil
}
