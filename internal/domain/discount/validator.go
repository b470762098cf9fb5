// internal/domain/discount/validator.go
package discount

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Validator checks discount codes against a subtotal. It never changes a code's usage count.
type Validator struct {
	registry Registry
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewValidator creates a new discount validator
func NewValidator(registry Registry, log logrus.FieldLogger) *Validator {
	return &Validator{
		registry: registry,
		now:      time.Now,
		log:      log,
	}
}

// Validate applies the checks in order and returns the first failure, or the
// discount amount when all pass. A registry outage rejects the code.
func (v *Validator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) Result {
	normalised := NormaliseCode(code)
	if normalised == "" {
		return reject(normalised, ReasonInvalidCode)
	}

	c, err := v.registry.FindByCode(ctx, normalised)
	if errors.Is(err, ErrNotFound) {
		return reject(normalised, ReasonInvalidCode)
	}
	if err != nil {
		v.log.WithError(err).WithField("code", normalised).Warn("discount registry unavailable, treating code as invalid")
		return reject(normalised, ReasonUnavailable)
	}

	if !c.IsActive {
		return reject(normalised, ReasonInactive)
	}

	now := v.now()
	if now.Before(c.StartDate) {
		return reject(normalised, ReasonNotYetStarted)
	}
	if now.After(c.EndDate) {
		return reject(normalised, ReasonExpired)
	}

	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return reject(normalised, ReasonUsageLimit)
	}

	if c.MinOrderAmount != nil && subtotal.LessThan(*c.MinOrderAmount) {
		return reject(normalised, ReasonBelowMinimum)
	}

	return Result{
		OK:     true,
		Code:   c.Code,
		Amount: c.Amount(subtotal),
		Type:   c.Type,
		Value:  c.Value,
	}
}

func reject(code string, reason Reason) Result {
	return Result{Code: code, Reason: reason}
}
