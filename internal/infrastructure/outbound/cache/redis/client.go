package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ports "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/infrastructure/config"

	"github.com/redis/go-redis/v9"
	"github.com/soloda1/pinstack-proto-definitions/custom_errors"
)

const pingTimeout = 5 * time.Second

// Client stores JSON encoded values in Redis.
type Client struct {
	rdb    redis.Cmdable
	closer func() error
	log    ports.Logger
}

func NewClient(cfg config.Redis, log ports.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		log.Error("Redis is unreachable", slog.String("addr", rdb.Options().Addr), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("Connected to Redis", slog.String("addr", rdb.Options().Addr), slog.Int("db", cfg.DB))
	return &Client{rdb: rdb, closer: rdb.Close, log: log}, nil
}

// NewClientFrom wraps a connection owned by the caller.
func NewClientFrom(rdb redis.Cmdable, log ports.Logger) *Client {
	return &Client{rdb: rdb, closer: func() error { return nil }, log: log}
}

// Get decodes the value under key into dest. A missing key yields custom_errors.ErrCacheMiss.
func (c *Client) Get(ctx context.Context, key string, dest any) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return custom_errors.ErrCacheMiss
	case err != nil:
		c.log.Error("Redis GET failed", slog.String("key", key), slog.String("error", err.Error()))
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("Dropping undecodable cache entry", slog.String("key", key), slog.String("error", err.Error()))
		_ = c.rdb.Del(ctx, key).Err()
		return fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return nil
}

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Error("Redis SET failed", slog.String("key", key), slog.String("error", err.Error()))
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.log.Error("Redis DEL failed", slog.String("key", key), slog.String("error", err.Error()))
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if err := c.closer(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	c.log.Info("Redis connection closed")
	return nil
}
