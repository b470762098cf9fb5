// internal/domain/shipping/calculator.go
package shipping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bayt-organic/storefront/internal/config"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Calculator prices shipping from the zone for a region
type Calculator struct {
	zones             ZoneSource
	defaultCost       decimal.Decimal
	defaultRegion     string
	fallbackThreshold decimal.Decimal
	log               logrus.FieldLogger
}

// NewCalculator creates a new shipping calculator
func NewCalculator(zones ZoneSource, cfg config.ShippingConfig, log logrus.FieldLogger) *Calculator {
	return &Calculator{
		zones:             zones,
		defaultCost:       cfg.DefaultCost,
		defaultRegion:     NormaliseRegion(cfg.DefaultRegion),
		fallbackThreshold: cfg.FallbackFreeShippingOver,
		log:               log,
	}
}

// NormaliseRegion upper-cases and trims a region name
func NormaliseRegion(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}

// Calculate quotes shipping for subtotal to region. A region without its own
// zone uses the catch-all zone. Shipping is free when the subtotal reaches the
// zone's threshold.
func (c *Calculator) Calculate(ctx context.Context, subtotal decimal.Decimal, region string) (Quote, error) {
	region = NormaliseRegion(region)
	if region == "" {
		region = c.defaultRegion
	}

	zone, err := c.zones.FindZone(ctx, region)
	if errors.Is(err, ErrZoneNotFound) && region != CatchAllRegion {
		zone, err = c.zones.FindZone(ctx, CatchAllRegion)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("failed to look up shipping for %q: %w", region, err)
	}

	q := price(subtotal, zone.BaseRate, zone.FreeShippingThreshold)
	q.Region = zone.Region
	q.Carrier = zone.Carrier
	q.EstimatedDays = zone.EstimatedDays
	return q, nil
}

// CalculateWithFallback quotes shipping, falling back to the configured
// default cost with a warning when no zone can be read.
func (c *Calculator) CalculateWithFallback(ctx context.Context, subtotal decimal.Decimal, region string) Quote {
	q, err := c.Calculate(ctx, subtotal, region)
	if err == nil {
		return q
	}

	c.log.WithError(err).WithField("region", region).Warn("shipping configuration unavailable, using default cost")

	var threshold *decimal.Decimal
	if c.fallbackThreshold.IsPositive() {
		t := c.fallbackThreshold
		threshold = &t
	}
	q = price(subtotal, c.defaultCost, threshold)
	q.Region = NormaliseRegion(region)
	q.Fallback = true
	q.Warning = fmt.Sprintf("Shipping rates could not be loaded; a standard rate of %s has been applied", c.defaultCost.StringFixed(2))
	return q
}

func price(subtotal, baseRate decimal.Decimal, threshold *decimal.Decimal) Quote {
	q := Quote{ShippingCost: baseRate, FreeShippingThreshold: threshold}
	if threshold == nil {
		return q
	}
	if subtotal.GreaterThanOrEqual(*threshold) {
		q.ShippingCost = decimal.Zero
		q.Message = fmt.Sprintf("Free shipping applied on orders over %s", threshold.StringFixed(2))
		return q
	}
	q.Message = fmt.Sprintf("Add %s more for free shipping", threshold.Sub(subtotal).StringFixed(2))
	return q
}
