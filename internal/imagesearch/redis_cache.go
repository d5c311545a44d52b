package imagesearch

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps fetched photos in a hash per key (content type + bytes).
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Connect dials addr and pings it.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("imagesearch: redis ping: %w", err)
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (Image, bool, error) {
	vals, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return Image{}, false, err
	}
	b, ok := vals["b"]
	if !ok || b == "" {
		return Image{}, false, nil
	}
	return Image{Bytes: []byte(b), ContentType: vals["ct"]}, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, img Image) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "ct", img.ContentType, "b", img.Bytes)
		if c.ttl > 0 {
			pipe.Expire(ctx, key, c.ttl)
		}
		return nil
	})
	return err
}
