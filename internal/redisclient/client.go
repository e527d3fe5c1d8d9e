package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	catalogListKey   = "catalog:all"
	catalogTTL       = 30 * time.Second
	paymentIntentTTL = 15 * time.Minute
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies connectivity.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetCatalog returns the cached public catalog JSON, or ("", nil) on a
// cache miss.
func (c *Client) GetCatalog(ctx context.Context) (string, error) {
	val, err := c.rdb.Get(ctx, catalogListKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SetCatalog caches the public catalog JSON with a short TTL.
func (c *Client) SetCatalog(ctx context.Context, payload string) error {
	return c.rdb.Set(ctx, catalogListKey, payload, catalogTTL).Err()
}

// InvalidateCatalog drops the cached catalog. Called on any product
// write or stock change.
func (c *Client) InvalidateCatalog(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogListKey).Err()
}

// SetPaymentIntent caches a user's pending payment intent payload.
func (c *Client) SetPaymentIntent(ctx context.Context, userID, payload string) error {
	return c.rdb.Set(ctx, paymentIntentKey(userID), payload, paymentIntentTTL).Err()
}

// GetPaymentIntent returns a user's cached payment intent payload, or
// ("", nil) when none is pending.
func (c *Client) GetPaymentIntent(ctx context.Context, userID string) (string, error) {
	val, err := c.rdb.Get(ctx, paymentIntentKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// DeletePaymentIntent drops a user's cached payment intent. Called once
// checkout converts the cart into orders.
func (c *Client) DeletePaymentIntent(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, paymentIntentKey(userID)).Err()
}

func paymentIntentKey(userID string) string {
	return fmt.Sprintf("payment-intent:%s", userID)
}
