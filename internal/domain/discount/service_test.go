package discount

import (
	"context"
	"testing"
	"time"

	"github.com/bayt-organic/storefront/internal/pkg/entityid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	stubRegistry
}

func newMemRepo() *memRepo {
	return &memRepo{stubRegistry{codes: make(map[string]*Code)}}
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Code, error) {
	for _, c := range r.codes {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) List(context.Context) ([]Code, error) {
	var out []Code
	for _, c := range r.codes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memRepo) Create(_ context.Context, c *Code) error {
	c.ID = entityid.New()
	r.codes[c.Code] = c
	return nil
}

func (r *memRepo) Save(_ context.Context, c *Code) error {
	for k, v := range r.codes {
		if v.ID == c.ID {
			delete(r.codes, k)
		}
	}
	r.codes[c.Code] = c
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	for k, v := range r.codes {
		if v.ID == id {
			delete(r.codes, k)
			return nil
		}
	}
	return ErrNotFound
}

func request(code string, typ Type, value int64) *CodeRequest {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &CodeRequest{
		Code:      code,
		Type:      typ,
		Value:     decimal.NewFromInt(value),
		StartDate: start,
		EndDate:   start.AddDate(0, 6, 0),
	}
}

func TestCreateStoresUpperCaseCode(t *testing.T) {
	svc := NewService(newMemRepo())

	c, err := svc.Create(context.Background(), request(" eid25 ", TypePercentage, 25))
	require.NoError(t, err)
	assert.Equal(t, "EID25", c.Code)
	assert.Equal(t, AppliesToAll, c.AppliesTo)
	assert.True(t, c.IsActive)

	_, err = svc.Create(context.Background(), request("Eid25", TypeFixed, 5))
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.Create(context.Background(), request("A", TypePercentage, 0))
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), request("B", TypePercentage, 101))
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), request("C", TypeFixed, -1))
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), request("D", "BOGO", 1))
	assert.Error(t, err)

	backwards := request("E", TypeFixed, 10)
	backwards.EndDate = backwards.StartDate.Add(-time.Hour)
	_, err = svc.Create(context.Background(), backwards)
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), request("F", TypePercentage, 100))
	assert.NoError(t, err)
}

func TestUpdateKeepsUsageCount(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	c, err := svc.Create(context.Background(), request("WELCOME", TypeFixed, 50))
	require.NoError(t, err)
	c.UsageCount = 7

	inactive := false
	req := request("WELCOME", TypeFixed, 75)
	req.IsActive = &inactive
	updated, err := svc.Update(context.Background(), c.ID, req)
	require.NoError(t, err)

	assert.Equal(t, 7, updated.UsageCount)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.Value.Equal(decimal.NewFromInt(75)))
}

func TestDelete(t *testing.T) {
	svc := NewService(newMemRepo())
	c, err := svc.Create(context.Background(), request("GONE", TypeFixed, 5))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), c.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), c.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "bad"), ErrNotFound)
}
