// Package cache holds rendered listing responses in Redis and drops them when
// the data behind them changes.
//
// Every cached key is registered under one or more tags. Revalidate deletes
// all keys registered under a tag, together with the tag set itself.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TagProducts = "products"
	TagOrders   = "orders"

	keyPrefix = "cache:listing:"
	tagPrefix = "cache:tag:"
)

// ListingCache is a tag-invalidated JSON cache
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a listing cache whose entries live for ttl
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

// Get loads the entry at key into dest. It reports false on a miss.
func (c *ListingCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		// A corrupt entry is a miss; drop it so the next write replaces it.
		c.client.Del(ctx, keyPrefix+key)
		return false, nil
	}
	return true, nil
}

// Set stores value at key and registers it under tag
func (c *ListingCache) Set(ctx context.Context, tag, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+key, raw, c.ttl)
	pipe.SAdd(ctx, tagPrefix+tag, keyPrefix+key)
	pipe.Expire(ctx, tagPrefix+tag, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

// Revalidate drops every entry registered under the given tags
func (c *ListingCache) Revalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, err := c.client.SMembers(ctx, tagPrefix+tag).Result()
		if err != nil {
			return fmt.Errorf("failed to read cache tag %s: %w", tag, err)
		}

		keys = append(keys, tagPrefix+tag)
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to revalidate cache tag %s: %w", tag, err)
		}
	}
	return nil
}
