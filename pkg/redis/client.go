package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/hermes/pkg/config"
)

// Client wraps the go-redis client behind an enable switch so callers can
// run without a Redis instance in local setups.
// ⭐ SSOT: Redis 연결은 이 패키지에서만 생성
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New dials Redis when the config enables it. A disabled config returns a
// no-op client that reports Enabled() == false.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Enabled reports whether a live Redis connection is behind this client.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Redis exposes the underlying client for command-level access.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close releases the connection; safe on a disabled client.
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
