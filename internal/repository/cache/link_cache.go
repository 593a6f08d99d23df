package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const linkKeyPrefix = "shortlink:"

// LinkCache remembers which segment a short link resolved to so repeated
// pastes skip the fetch.
type LinkCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLinkCache(rdb *redis.Client, ttl time.Duration) *LinkCache {
	return &LinkCache{rdb: rdb, ttl: ttl}
}

func (c *LinkCache) Get(ctx context.Context, link string) (string, bool, error) {
	id, err := c.rdb.Get(ctx, linkKeyPrefix+link).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (c *LinkCache) Set(ctx context.Context, link, segmentID string) error {
	return c.rdb.Set(ctx, linkKeyPrefix+link, segmentID, c.ttl).Err()
}
