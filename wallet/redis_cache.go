package wallet

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "hubwallet:"

type redisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache returns a cache shared between processes. Entries expire after ttl
// (zero keeps them until Clear) and live under prefix (empty selects "hubwallet:").
func NewRedisCache(client redis.UniversalClient, prefix string, ttl time.Duration) Cache {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &redisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string) (common.Address, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return common.Address{}, false, nil
	}
	if err != nil {
		return common.Address{}, false, errors.Wrap(err, "redis get")
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, false, errors.Errorf("corrupt cached wallet %q", value)
	}
	return common.HexToAddress(value), true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, wallet common.Address) error {
	return errors.Wrap(c.client.Set(ctx, c.prefix+key, wallet.Hex(), c.ttl).Err(), "redis set")
}

// Clear deletes every key under the prefix.
func (c *redisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "redis scan")
	}
	if len(keys) == 0 {
		return nil
	}
	return errors.Wrap(c.client.Del(ctx, keys...).Err(), "redis del")
}
