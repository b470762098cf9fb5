package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Names []string `json:"names"`
	Total int      `json:"total"`
}

func newTestCache(t *testing.T) (*ListingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewListingCache(client, time.Minute), mr
}

func TestListingCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got page
	hit, err := c.Get(ctx, "products:page=1", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, TagProducts, "products:page=1", page{Names: []string{"Dates"}, Total: 1}))

	hit, err = c.Get(ctx, "products:page=1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"Dates"}, got.Names)
}

func TestRevalidateDropsOnlyTaggedEntries(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, TagProducts, "products:page=1", page{Total: 1}))
	require.NoError(t, c.Set(ctx, TagProducts, "products:page=2", page{Total: 2}))
	require.NoError(t, c.Set(ctx, TagOrders, "orders:page=1", page{Total: 3}))

	require.NoError(t, c.Revalidate(ctx, TagProducts))

	assert.False(t, mr.Exists(keyPrefix+"products:page=1"))
	assert.False(t, mr.Exists(keyPrefix+"products:page=2"))
	assert.False(t, mr.Exists(tagPrefix+TagProducts))
	assert.True(t, mr.Exists(keyPrefix+"orders:page=1"))
}

func TestRevalidateUnknownTag(t *testing.T) {
	c, _ := newTestCache(t)
	assert.NoError(t, c.Revalidate(context.Background(), "nothing-here"))
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(keyPrefix+"broken", "{not json"))

	var got page
	hit, err := c.Get(context.Background(), "broken", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists(keyPrefix+"broken"))
}
