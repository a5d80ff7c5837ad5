package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/squidworks/gridiron/internal/dataset"
)

// RedisCache holds the latest prediction run per target season so the API
// can serve it without touching Postgres.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client.
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify the connection.
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func predictionsKey(targetSeason int) string {
	return fmt.Sprintf("predictions:season:%d", targetSeason)
}

// SetPredictions caches a sorted prediction set for a target season.
func (rc *RedisCache) SetPredictions(ctx context.Context, targetSeason int, preds []dataset.Prediction, ttl time.Duration) error {
	data, err := json.Marshal(preds)
	if err != nil {
		return fmt.Errorf("marshaling predictions: %w", err)
	}
	return rc.client.Set(ctx, predictionsKey(targetSeason), data, ttl).Err()
}

// GetPredictions returns the cached prediction set for a target season, or
// (nil, false, nil) on a cache miss.
func (rc *RedisCache) GetPredictions(ctx context.Context, targetSeason int) ([]dataset.Prediction, bool, error) {
	data, err := rc.client.Get(ctx, predictionsKey(targetSeason)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var preds []dataset.Prediction
	if err := json.Unmarshal(data, &preds); err != nil {
		return nil, false, fmt.Errorf("unmarshaling cached predictions: %w", err)
	}
	return preds, true, nil
}

// Invalidate drops the cached prediction set for a target season.
func (rc *RedisCache) Invalidate(ctx context.Context, targetSeason int) error {
	return rc.client.Del(ctx, predictionsKey(targetSeason)).Err()
}
