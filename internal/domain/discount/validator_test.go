package discount

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bayt-organic/storefront/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubRegistry struct {
	codes map[string]*Code
	err   error
}

func (r *stubRegistry) FindByCode(_ context.Context, code string) (*Code, error) {
	if r.err != nil {
		return nil, r.err
	}
	if c, ok := r.codes[NormaliseCode(code)]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestValidator(codes ...*Code) *Validator {
	reg := &stubRegistry{codes: make(map[string]*Code)}
	for _, c := range codes {
		reg.codes[c.Code] = c
	}
	v := NewValidator(reg, logger.Discard())
	v.now = func() time.Time { return now }
	return v
}

func activeCode(code string, typ Type, value int64) *Code {
	return &Code{
		Code:      code,
		Type:      typ,
		Value:     decimal.NewFromInt(value),
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 1, 0),
		IsActive:  true,
	}
}

func TestPercentageDiscount(t *testing.T) {
	v := newTestValidator(activeCode("RAMADAN10", TypePercentage, 10))

	res := v.Validate(context.Background(), "ramadan10", decimal.NewFromInt(2500))
	assert.True(t, res.OK)
	assert.Equal(t, TypePercentage, res.Type)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(250)), res.Amount.String())
}

func TestPercentageDiscountRoundsToCents(t *testing.T) {
	v := newTestValidator(activeCode("SAVE15", TypePercentage, 15))

	res := v.Validate(context.Background(), "SAVE15", decimal.RequireFromString("33.33"))
	assert.True(t, res.Amount.Equal(decimal.RequireFromString("5.00")), res.Amount.String())
}

func TestFixedDiscountNeverExceedsSubtotal(t *testing.T) {
	v := newTestValidator(activeCode("FLAT500", TypeFixed, 500))

	for _, subtotal := range []int64{0, 1, 499, 500, 501, 10000} {
		s := decimal.NewFromInt(subtotal)
		res := v.Validate(context.Background(), "FLAT500", s)
		assert.True(t, res.OK)
		assert.True(t, res.Amount.LessThanOrEqual(s), "subtotal %d discount %s", subtotal, res.Amount)
	}
}

func TestRejectionReasons(t *testing.T) {
	inactive := activeCode("OFF", TypeFixed, 10)
	inactive.IsActive = false

	future := activeCode("SOON", TypeFixed, 10)
	future.StartDate = now.Add(time.Hour)

	expired := activeCode("OLD", TypeFixed, 10)
	expired.EndDate = now.Add(-time.Hour)

	limit := 5
	usedUp := activeCode("USED", TypeFixed, 10)
	usedUp.UsageLimit = &limit
	usedUp.UsageCount = 5

	minimum := decimal.NewFromInt(1000)
	big := activeCode("BIG", TypeFixed, 10)
	big.MinOrderAmount = &minimum

	v := newTestValidator(inactive, future, expired, usedUp, big)

	cases := map[string]Reason{
		"NOPE": ReasonInvalidCode,
		"":     ReasonInvalidCode,
		"OFF":  ReasonInactive,
		"SOON": ReasonNotYetStarted,
		"OLD":  ReasonExpired,
		"USED": ReasonUsageLimit,
		"BIG":  ReasonBelowMinimum,
	}
	for code, want := range cases {
		res := v.Validate(context.Background(), code, decimal.NewFromInt(999))
		assert.False(t, res.OK, code)
		assert.Equal(t, want, res.Reason, code)
		assert.True(t, res.Amount.IsZero(), code)
	}
}

func TestExpiredRegardlessOfSubtotal(t *testing.T) {
	expired := activeCode("OLD", TypePercentage, 50)
	expired.EndDate = now.AddDate(0, 0, -1)
	v := newTestValidator(expired)

	for _, subtotal := range []int64{0, 100, 1_000_000} {
		res := v.Validate(context.Background(), "OLD", decimal.NewFromInt(subtotal))
		assert.Equal(t, ReasonExpired, res.Reason)
	}
}

func TestFirstFailingCheckWins(t *testing.T) {
	c := activeCode("MANY", TypeFixed, 10)
	c.IsActive = false
	c.EndDate = now.Add(-time.Hour)
	minimum := decimal.NewFromInt(1000)
	c.MinOrderAmount = &minimum
	v := newTestValidator(c)

	res := v.Validate(context.Background(), "MANY", decimal.NewFromInt(1))
	assert.Equal(t, ReasonInactive, res.Reason)
}

func TestRegistryOutageRejectsCode(t *testing.T) {
	v := NewValidator(&stubRegistry{err: errors.New("connection refused")}, logger.Discard())

	res := v.Validate(context.Background(), "ANY", decimal.NewFromInt(100))
	assert.False(t, res.OK)
	assert.Equal(t, ReasonUnavailable, res.Reason)
}
