package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "flightwatch:"

// RedisFlightCache stores backend search results as JSON in Redis.
// Cache errors are logged and treated as misses.
type RedisFlightCache struct {
	client *redis.Client
	logger logger.Logger
}

// NewFlightCache returns a Redis backed cache, or a no-op cache when client
// is nil.
func NewFlightCache(client *redis.Client, logger logger.Logger) repository.FlightCache {
	if client == nil {
		return NoopFlightCache{}
	}
	return &RedisFlightCache{client: client, logger: logger}
}

// Get returns the cached flights for key
func (c *RedisFlightCache) Get(ctx context.Context, key string) ([]entity.FlightRecord, bool) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Flight cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var flights []entity.FlightRecord
	if err := json.Unmarshal(data, &flights); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		c.client.Del(ctx, keyPrefix+key)
		return nil, false
	}
	return flights, true
}

// Set stores flights under key for ttl
func (c *RedisFlightCache) Set(ctx context.Context, key string, flights []entity.FlightRecord, ttl time.Duration) {
	data, err := json.Marshal(flights)
	if err != nil {
		c.logger.Warn("Failed to encode flights for cache", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("Flight cache write failed", "key", key, "error", err)
	}
}

// NoopFlightCache never stores anything
type NoopFlightCache struct{}

func (NoopFlightCache) Get(ctx context.Context, key string) ([]entity.FlightRecord, bool) {
	return nil, false
}

func (NoopFlightCache) Set(ctx context.Context, key string, flights []entity.FlightRecord, ttl time.Duration) {
}
