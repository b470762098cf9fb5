package checkout

import (
	"context"
	"testing"

	"github.com/bayt-organic/storefront/internal/domain/cart"
	"github.com/bayt-organic/storefront/internal/domain/discount"
	"github.com/bayt-organic/storefront/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thresholdQuoter struct {
	base      decimal.Decimal
	threshold decimal.Decimal
	warning   string
}

func (q thresholdQuoter) CalculateWithFallback(_ context.Context, subtotal decimal.Decimal, _ string) shipping.Quote {
	if subtotal.GreaterThanOrEqual(q.threshold) {
		return shipping.Quote{ShippingCost: decimal.Zero, Warning: q.warning}
	}
	return shipping.Quote{ShippingCost: q.base, Warning: q.warning}
}

type percentValidator struct {
	percent int64
	reject  discount.Reason
}

func (v percentValidator) Validate(_ context.Context, code string, subtotal decimal.Decimal) discount.Result {
	if v.reject != "" {
		return discount.Result{Code: code, Reason: v.reject}
	}
	amount := subtotal.Mul(decimal.NewFromInt(v.percent)).Div(decimal.NewFromInt(100))
	return discount.Result{OK: true, Code: code, Amount: amount, Type: discount.TypePercentage, Value: decimal.NewFromInt(v.percent)}
}

func lines(prices ...int64) []cart.Line {
	out := make([]cart.Line, len(prices))
	for i, p := range prices {
		out[i] = cart.Line{ProductID: "p", UnitPrice: decimal.NewFromInt(p), Quantity: 1}
	}
	return out
}

func TestSummaryFreeShippingWithPercentageCode(t *testing.T) {
	svc := NewService(
		thresholdQuoter{base: decimal.NewFromInt(150), threshold: decimal.NewFromInt(2000)},
		percentValidator{percent: 10},
	)

	s := svc.Summarize(context.Background(), lines(1500, 1000), SummaryRequest{CouponCode: "SAVE10"})

	assert.True(t, s.Subtotal.Equal(decimal.NewFromInt(2500)))
	assert.True(t, s.Shipping.ShippingCost.IsZero())
	assert.True(t, s.DiscountAmount.Equal(decimal.NewFromInt(250)))
	assert.True(t, s.Total.Equal(decimal.NewFromInt(2250)), s.Total.String())
	require.NotNil(t, s.Discount)
	assert.True(t, s.Discount.OK)
}

func TestSummaryRejectedCodeAddsNoDiscount(t *testing.T) {
	svc := NewService(
		thresholdQuoter{base: decimal.NewFromInt(150), threshold: decimal.NewFromInt(2000)},
		percentValidator{reject: discount.ReasonExpired},
	)

	s := svc.Summarize(context.Background(), lines(500), SummaryRequest{CouponCode: "OLD"})

	assert.True(t, s.DiscountAmount.IsZero())
	assert.Equal(t, discount.ReasonExpired, s.Discount.Reason)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(650)))
}

func TestSummaryCarriesShippingWarning(t *testing.T) {
	svc := NewService(
		thresholdQuoter{base: decimal.NewFromInt(150), threshold: decimal.NewFromInt(1_000_000), warning: "rates unavailable"},
		percentValidator{},
	)

	s := svc.Summarize(context.Background(), nil, SummaryRequest{})

	assert.NotNil(t, s.Lines)
	assert.Nil(t, s.Discount)
	assert.Equal(t, []string{"rates unavailable"}, s.Warnings)
	assert.True(t, s.Total.Equal(decimal.NewFromInt(150)))
}
