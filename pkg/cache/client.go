package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when the key is absent or the cache is disabled.
var ErrMiss = errors.New("cache miss")

// Client defines the interface for cache operations.
type Client interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Enabled() bool
	Close() error
}

// RedisClient is a wrapper around the Redis client.
type RedisClient struct {
	client  *redis.Client
	enabled bool
}

// NewRedisClient connects to Redis; an empty addr yields a disabled client.
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	if addr == "" {
		return &RedisClient{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client, enabled: true}, nil
}

func (r *RedisClient) Enabled() bool {
	return r.enabled
}

// GetJSON decodes the cached value at key into dest.
func (r *RedisClient) GetJSON(ctx context.Context, key string, dest any) error {
	if !r.enabled {
		return ErrMiss
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

func (r *RedisClient) SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	if !r.enabled {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, raw, expiration).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if !r.enabled || len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisClient) Close() error {
	if !r.enabled {
		return nil
	}
	return r.client.Close()
}
