package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	_ = r.WithTimeout(2 * time.Second)
	return r
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// Cache implements key and prefix invalidation over Redis.
type Cache struct{ RDB *redis.Client }

func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.RDB.Del(ctx, key).Err()
}

// InvalidatePattern deletes every key starting with prefix via SCAN, so
// large keyspaces are walked incrementally instead of with KEYS.
func (c *Cache) InvalidatePattern(ctx context.Context, prefix string) error {
	iter := c.RDB.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.RDB.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
