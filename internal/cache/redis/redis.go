package redis

import (
	"context"
	"errors"
	"fmt"
	cacherepo "recordaccess/internal/repositories/cache"
	"time"

	"github.com/redis/go-redis/v9"
)

const pkg = "redis/"

type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type Client struct {
	redisClient *redis.Client
	prefix      string
}

type redisResponse[T any] struct {
	cmd redis.Cmder
	get func() (T, error)
}

// Err hides redis.Nil: a missing key is a miss, not a failure.
func (r redisResponse[T]) Err() error {
	err := r.cmd.Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (r redisResponse[T]) Result() (T, error) {
	res, err := r.get()
	if errors.Is(err, redis.Nil) {
		var zero T
		return zero, nil
	}

	return res, err
}

func (c *Client) key(k string) string {
	return c.prefix + k
}

func (c *Client) Get(ctx context.Context, key string) cacherepo.CacheResponse[string] {
	cmd := c.redisClient.Get(ctx, c.key(key))
	return redisResponse[string]{
		cmd: cmd,
		get: cmd.Result,
	}
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) cacherepo.CacheResponse[string] {
	cmd := c.redisClient.Set(ctx, c.key(key), value, ttl)
	return redisResponse[string]{
		cmd: cmd,
		get: cmd.Result,
	}
}

func (c *Client) Del(ctx context.Context, keys ...string) cacherepo.CacheResponse[int64] {
	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, c.key(k))
	}

	cmd := c.redisClient.Del(ctx, prefixed...)
	return redisResponse[int64]{
		cmd: cmd,
		get: cmd.Result,
	}
}

func (c *Client) Close() error {
	return c.redisClient.Close()
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	op := pkg + "New"

	client := &Client{
		redisClient: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: cfg.KeyPrefix,
	}

	if err := client.redisClient.Ping(ctx).Err(); err != nil {
		_ = client.redisClient.Close()
		return nil, fmt.Errorf("%s: redis: ping failed: %w", op, err)
	}

	return client, nil
}
