package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache is a thin JSON cache on top of Redis, used as a read-through layer
// for user contact records.
type Cache struct {
	client *redis.Client
	prefix string
}

// New creates a Redis-backed cache
func New(addr, password string, db int) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix: "auctionbot:",
	}
}

// Set stores a JSON-encoded value with a TTL
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

// Get loads a JSON-encoded value into dest. Returns redis.Nil on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// Delete removes a key
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Close releases the underlying client
func (c *Cache) Close() error {
	return c.client.Close()
}
