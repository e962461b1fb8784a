// Package redis connects the optional Redis that holds cross-process
// candidate transition locks.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"wasl/internal/platform/config"
)

const pingTimeout = 5 * time.Second

// Client wraps a single-node or Sentinel-managed Redis behind the
// UniversalClient the transition locker takes.
type Client struct {
	goredis.UniversalClient
	logger *slog.Logger
}

// New connects and pings. An empty URL means Redis is not configured and
// yields a nil client without error. With SentinelMaster set, the URL's host
// is used as the first Sentinel address.
func New(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := universalOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := goredis.NewUniversalClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	logger.Info("redis connected", "addrs", opts.Addrs, "sentinel_master", opts.MasterName, "db", opts.DB)
	return &Client{UniversalClient: client, logger: logger}, nil
}

func universalOptions(cfg config.RedisConfig) (*goredis.UniversalOptions, error) {
	parsed, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts := &goredis.UniversalOptions{
		Addrs:        []string{parsed.Addr},
		Username:     parsed.Username,
		Password:     parsed.Password,
		DB:           parsed.DB,
		TLSConfig:    parsed.TLSConfig,
		MasterName:   cfg.SentinelMaster,
		PoolSize:     parsed.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	return opts, nil
}

// Health is registered as the "redis" check on /healthz.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.Ping(ctx).Err()
}

// Close releases the pool, logging rather than returning the error since it
// only runs on shutdown.
func (c *Client) Close() error {
	if err := c.UniversalClient.Close(); err != nil {
		c.logger.Warn("closing redis", "error", err)
		return err
	}
	return nil
}
