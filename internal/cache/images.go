// Package cache holds small redis-backed caches for resolved blob URLs.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const imageURLPrefix = "profile-image-url:"

// ImageURLCache caches resolved profile-image URLs keyed by blob path, so
// repeated profile loads don't re-presign the same object. Entries expire
// before the presigned URL itself does.
type ImageURLCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewImageURLCache creates a cache over the given redis client.
func NewImageURLCache(rdb *redis.Client) *ImageURLCache {
	return &ImageURLCache{
		rdb: rdb,
		ttl: time.Hour,
	}
}

// Get returns the cached URL for a blob path. A miss is (_, false, nil).
func (c *ImageURLCache) Get(ctx context.Context, path string) (string, bool, error) {
	url, err := c.rdb.Get(ctx, imageURLPrefix+path).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read image url cache: %w", err)
	}
	return url, true, nil
}

// Set stores a resolved URL for a blob path.
func (c *ImageURLCache) Set(ctx context.Context, path, url string) error {
	if err := c.rdb.Set(ctx, imageURLPrefix+path, url, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write image url cache: %w", err)
	}
	return nil
}

// Remove drops the cached URL for a blob path, typically after the blob is
// deleted or replaced.
func (c *ImageURLCache) Remove(ctx context.Context, path string) error {
	if err := c.rdb.Del(ctx, imageURLPrefix+path).Err(); err != nil {
		return fmt.Errorf("failed to drop image url cache entry: %w", err)
	}
	return nil
}
