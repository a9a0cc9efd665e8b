package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quickcart/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyNamespace      = "quickcart"
	idempotencyPrefix = "idempotency"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// IdempotencyStore keeps replayable responses keyed by client-supplied keys.
type IdempotencyStore interface {
	// Get returns the stored value or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// SetNX stores value only if key does not exist yet.
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	// IdempotencyKey builds a namespaced key for scope and the client key id.
	IdempotencyKey(scope, id string) string
	// Del removes keys.
	Del(ctx context.Context, keys ...string) error
}

// Client wraps the redis commands used by the application.
type Client struct {
	store  cmdable
	raw    *redis.Client
	logger zerolog.Logger
}

// New connects to Redis and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis url is required")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger = logger.With().Str("component", "redis").Logger()
	logger.Info().Str("addr", opts.Addr).Msg("redis connection established")

	return &Client{store: raw, raw: raw, logger: logger}, nil
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// Get returns the value stored at key, or "" if it does not exist.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.store == nil {
		return "", errors.New("redis client not initialized")
	}
	value, err := c.store.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

// SetNX sets a value only if the key does not exist yet.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if c.store == nil {
		return false, errors.New("redis client not initialized")
	}
	return c.store.SetNX(ctx, key, value, ttl).Result()
}

// Del removes the given keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.store == nil {
		return errors.New("redis client not initialized")
	}
	return c.store.Del(ctx, keys...).Err()
}

// IdempotencyKey returns a namespaced key for an idempotent request.
func (c *Client) IdempotencyKey(scope, id string) string {
	return buildKey(idempotencyPrefix, scope, id)
}

func buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clean = append(clean, part)
	}
	return strings.Join(clean, ":")
}
