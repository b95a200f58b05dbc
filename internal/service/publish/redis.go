package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"occupancy/internal/zone"
)

// RedisCache keeps the latest report under a single key so other services
// can read the live occupancy without calling the dashboard.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// ConnectRedis creates a client and verifies the connection.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis at %s is not reachable: %w", addr, err)
	}
	return rdb, nil
}

// NewRedisCache stores reports under key, expiring after ttl (0 keeps them).
func NewRedisCache(client *redis.Client, key string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, key: key, ttl: ttl}
}

// Name identifies the cache among the report sinks.
func (c *RedisCache) Name() string {
	return "redis"
}

// Publish stores the report, replacing the previous one.
func (c *RedisCache) Publish(ctx context.Context, report zone.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store report in redis: %w", err)
	}
	return nil
}

// Latest returns the cached report; ok is false when nothing is cached.
func (c *RedisCache) Latest(ctx context.Context) (report zone.Report, ok bool, err error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zone.Report{}, false, nil
	}
	if err != nil {
		return zone.Report{}, false, fmt.Errorf("failed to read report from redis: %w", err)
	}
	if err := json.Unmarshal(payload, &report); err != nil {
		return zone.Report{}, false, fmt.Errorf("cached report is corrupt: %w", err)
	}
	return report, true, nil
}
