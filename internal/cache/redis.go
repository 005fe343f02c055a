package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a shared cache backend for multi-instance deployments.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	ctx    context.Context
}

// NewRedis creates a Redis-backed cache. Entries expire after ttl.
func NewRedis(addr string, ttl time.Duration) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Redis{
		client: rdb,
		ttl:    ttl,
		ctx:    context.Background(),
	}
}

func (r *Redis) Get(key string) (string, bool) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *Redis) Set(key, value string) {
	if err := r.client.Set(r.ctx, key, value, r.ttl).Err(); err != nil {
		// A cache write failure is not fatal; the next request recomputes.
		slog.Warn("redis cache set failed", "key", key, "error", err)
	}
}

func (r *Redis) Delete(key string) {
	if err := r.client.Del(r.ctx, key).Err(); err != nil {
		slog.Warn("redis cache delete failed", "key", key, "error", err)
	}
}

func (r *Redis) Size() int {
	n, err := r.client.DBSize(r.ctx).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

// Close releases the underlying client connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
