// internal/domain/checkout/service.go
package checkout

import (
	"context"

	"github.com/bayt-organic/storefront/internal/domain/cart"
	"github.com/bayt-organic/storefront/internal/domain/discount"
	"github.com/bayt-organic/storefront/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// ShippingQuoter prices shipping, degrading to a default cost on failure
type ShippingQuoter interface {
	CalculateWithFallback(ctx context.Context, subtotal decimal.Decimal, region string) shipping.Quote
}

// DiscountValidator checks a discount code against a subtotal
type DiscountValidator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) discount.Result
}

// Service builds the price summary shown at checkout
type Service struct {
	shipping  ShippingQuoter
	discounts DiscountValidator
}

// NewService creates a new checkout service
func NewService(shippingQuoter ShippingQuoter, discounts DiscountValidator) *Service {
	return &Service{
		shipping:  shippingQuoter,
		discounts: discounts,
	}
}

// SummaryRequest represents checkout summary query data
type SummaryRequest struct {
	Region     string `json:"region"`
	CouponCode string `json:"coupon_code"`
}

// Summary represents the checkout price breakdown
type Summary struct {
	Lines          []cart.Line      `json:"lines"`
	ItemCount      int              `json:"item_count"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	Shipping       shipping.Quote   `json:"shipping"`
	Discount       *discount.Result `json:"discount,omitempty"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	Total          decimal.Decimal  `json:"total"`
	Warnings       []string         `json:"warnings,omitempty"`
	PaymentMethods []PaymentMethod  `json:"payment_methods"`
}

// PaymentMethod represents available payment methods
type PaymentMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// PaymentMethodCOD is cash on delivery, the only method that leaves payment pending
const PaymentMethodCOD = "cod"

// PaymentMethods lists the payment options offered at checkout
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{ID: PaymentMethodCOD, Name: "Cash on Delivery", Description: "Pay when your order arrives", Available: true},
		{ID: "card", Name: "Card", Description: "Online card payment", Available: false},
	}
}

// Summarize prices the given cart lines. The total is
// subtotal - discount + shipping; a rejected code contributes no discount.
func (s *Service) Summarize(ctx context.Context, lines []cart.Line, req SummaryRequest) *Summary {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
		count += l.Quantity
	}
	if lines == nil {
		lines = []cart.Line{}
	}

	summary := &Summary{
		Lines:          lines,
		ItemCount:      count,
		Subtotal:       subtotal,
		Shipping:       s.shipping.CalculateWithFallback(ctx, subtotal, req.Region),
		DiscountAmount: decimal.Zero,
		PaymentMethods: PaymentMethods(),
	}
	if summary.Shipping.Warning != "" {
		summary.Warnings = append(summary.Warnings, summary.Shipping.Warning)
	}

	if req.CouponCode != "" {
		result := s.discounts.Validate(ctx, req.CouponCode, subtotal)
		summary.Discount = &result
		if result.OK {
			summary.DiscountAmount = result.Amount
		}
	}

	summary.Total = subtotal.Sub(summary.DiscountAmount).Add(summary.Shipping.ShippingCost)
	return summary
}
