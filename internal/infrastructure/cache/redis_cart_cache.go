package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lokapasar/internal/cart"
)

// Carts survive reloads within a session window, not forever.
const cartTTL = 7 * 24 * time.Hour

// RedisCartCache persists whole carts as JSON blobs under a fixed key per
// owner. It backs cart.Store's best-effort persistence; callers swallow
// its errors.
type RedisCartCache struct {
	client *redis.Client
}

func NewRedisCartCache(client *redis.Client) *RedisCartCache {
	return &RedisCartCache{client: client}
}

func cartKey(owner string) string {
	return fmt.Sprintf("cart:%s", owner)
}

func (c *RedisCartCache) Save(ctx context.Context, owner string, items []cart.Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cartKey(owner), payload, cartTTL).Err()
}

func (c *RedisCartCache) Load(ctx context.Context, owner string) ([]cart.Item, error) {
	payload, err := c.client.Get(ctx, cartKey(owner)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []cart.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}
	return items, nil
}
