package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses a redis:// or rediss:// URL and verifies the
// connection with a short ping.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// AvailabilityCache keeps computed day availability as JSON under
// availability:{hall}:{day}.
type AvailabilityCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewAvailabilityCache(client redis.Cmdable, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AvailabilityCache{client: client, ttl: ttl}
}

func AvailabilityKey(hallID int64, day string) string {
	return fmt.Sprintf("availability:%d:%s", hallID, day)
}

// GetDay decodes the cached value into dst. A miss returns false, nil.
func (c *AvailabilityCache) GetDay(ctx context.Context, hallID int64, day string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, AvailabilityKey(hallID, day)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *AvailabilityCache) SetDay(ctx context.Context, hallID int64, day string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, AvailabilityKey(hallID, day), raw, c.ttl).Err()
}

func (c *AvailabilityCache) InvalidateDay(ctx context.Context, hallID int64, day string) error {
	return c.client.Del(ctx, AvailabilityKey(hallID, day)).Err()
}
