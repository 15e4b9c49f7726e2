package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const recentKey = "winamp7:recent:%s" // List: newest image URL first

// RedisRecent keeps the recent image lists in Redis so they survive restarts.
type RedisRecent struct {
	client *redis.Client
}

func NewRedisRecent(client *redis.Client) *RedisRecent {
	return &RedisRecent{client: client}
}

func (r *RedisRecent) Push(ctx context.Context, kind Kind, url string) error {
	if r.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	if !kind.Valid() {
		return fmt.Errorf("unknown image kind %q", kind)
	}

	key := fmt.Sprintf(recentKey, kind)
	pipe := r.client.TxPipeline()
	pipe.LRem(ctx, key, 0, url)
	pipe.LPush(ctx, key, url)
	pipe.LTrim(ctx, key, 0, MaxRecent-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push recent %s: %w", kind, err)
	}
	return nil
}

func (r *RedisRecent) List(ctx context.Context, kind Kind) ([]string, error) {
	if r.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown image kind %q", kind)
	}

	urls, err := r.client.LRange(ctx, fmt.Sprintf(recentKey, kind), 0, MaxRecent-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent %s: %w", kind, err)
	}
	return urls, nil
}
