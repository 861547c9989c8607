package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/cratescore/pkg/observability"
)

// DefaultRedisPrefix is prepended to every key written by [RedisCache].
const DefaultRedisPrefix = "cratescore:"

// RedisCache stores entries in Redis so several machines can share one
// cache. Keys are "<prefix><namespace>:<key>" and never expire.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to the Redis server at url (redis://host:port/db).
// An empty prefix selects [DefaultRedisPrefix].
func NewRedisCache(ctx context.Context, url, prefix string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return newRedisCache(client, prefix), nil
}

func newRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Key returns the Redis key used for (namespace, key).
func (c *RedisCache) Key(namespace, key string) string {
	return c.prefix + namespace + ":" + key
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.Key(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.Cache().OnCacheMiss(ctx, namespace)
		return nil, false, nil
	}
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, namespace)
		return nil, false, err
	}
	observability.Cache().OnCacheHit(ctx, namespace)
	return data, true, nil
}

// Set stores a value in Redis without expiration.
func (c *RedisCache) Set(ctx context.Context, namespace, key string, data []byte) error {
	if err := c.client.Set(ctx, c.Key(namespace, key), data, 0).Err(); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, namespace, len(data))
	return nil
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, namespace, key string) error {
	return c.client.Del(ctx, c.Key(namespace, key)).Err()
}

// Clear deletes every key under the cache prefix and returns how many were
// removed. Keys are walked with SCAN so large caches do not block the server.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	count := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 500).Iterator()
	batch := make([]string, 0, 500)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, batch...).Result()
		count += int(n)
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return count, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return count, err
	}
	return count, flush()
}

// Close closes the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
