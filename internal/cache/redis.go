package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps derived data in Redis so restarts and multiple app
// instances share one cache. Values are stored as JSON under a fixed key
// prefix. All failures are logged and treated as misses.
type RedisStore[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore[T any](addr, prefix string, ttl time.Duration) (*RedisStore[T], error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore[T]{client: client, prefix: prefix, ttl: ttl}, nil
}

func (s *RedisStore[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T

	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return zero, false
	}
	if err != nil {
		slog.WarnContext(ctx, "Redis get failed", "key", key, "error", err)
		return zero, false
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		slog.WarnContext(ctx, "Redis value unmarshal failed", "key", key, "error", err)
		return zero, false
	}
	return value, true
}

func (s *RedisStore[T]) Set(ctx context.Context, key string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "Redis value marshal failed", "key", key, "error", err)
		return
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, s.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Redis set failed", "key", key, "error", err)
	}
}

func (s *RedisStore[T]) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		slog.WarnContext(ctx, "Redis delete failed", "key", key, "error", err)
	}
}

// Size reports how many keys live under the store's prefix.
func (s *RedisStore[T]) Size() int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	keys, err := s.client.Keys(ctx, s.prefix+"*").Result()
	if err != nil {
		return 0
	}
	return len(keys)
}

func (s *RedisStore[T]) Close() error {
	return s.client.Close()
}
