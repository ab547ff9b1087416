package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// JSONCache stores JSON encoded values under string keys.
type JSONCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Nop never hits.
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) (bool, error)             { return false, nil }
func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

type RedisCache struct {
	cli    redis.UniversalClient
	prefix string
}

// NewRedis parses a redis:// URL (or a bare host:port) and pings the server.
func NewRedis(ctx context.Context, rawURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		opts = &redis.Options{Addr: rawURL}
	}
	cli := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cli.Ping(pingCtx).Err(); err != nil {
		_ = cli.Close()
		return nil, err
	}
	return NewRedisWithClient(cli), nil
}

func NewRedisWithClient(cli redis.UniversalClient) *RedisCache {
	return &RedisCache{cli: cli, prefix: "inbox:"}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	s, err := c.cli.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cli.Set(ctx, c.prefix+key, b, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.cli.Close()
}
