package cache

import (
	"context"
	"encoding/json"
	"time"

	"pharma-app/config"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init connects the cache client. Leaving REDIS_ADDR empty disables
// caching entirely; every lookup then falls through to the database.
func Init() {
	if config.RedisAddr == "" {
		client = nil
		return
	}
	client = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       0,
	})
}

func Enabled() bool {
	return client != nil
}

// GetJSON reads a cached value into dest. Returns false on miss, on a
// cache error, or when caching is disabled.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

// SetJSON stores a value under key with a TTL. Errors are swallowed; the
// cache is advisory.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Delete drops a key, for invalidation after writes.
func Delete(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}
