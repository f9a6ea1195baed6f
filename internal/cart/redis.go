package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RemoteStore is the account-scoped remote cart document.
// Writes replace the whole document; there is no per-item patching, so the last
// writer's full cart wins across tabs and devices.
type RemoteStore interface {
	Load(ctx context.Context, accountID string) (Cart, error)
	Save(ctx context.Context, accountID string, cart Cart) error
	Clear(ctx context.Context, accountID string) error
}

// RedisCarts implements RemoteStore over Redis, one JSON document per account.
type RedisCarts struct {
	client *redis.Client
}

// NewRedisCarts creates a remote cart store using the given Redis client.
func NewRedisCarts(client *redis.Client) *RedisCarts {
	return &RedisCarts{client: client}
}

// NewRedisCartsFromURL creates a remote cart store from a Redis connection URL.
func NewRedisCartsFromURL(redisURL string) (*RedisCarts, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &RedisCarts{client: redis.NewClient(opts)}, nil
}

// cartKey addresses the document for an account.
func cartKey(accountID string) string {
	return "cart:" + accountID
}

// Load reads the account's cart document; a missing document reads as empty.
func (s *RedisCarts) Load(ctx context.Context, accountID string) (Cart, error) {
	value, err := s.client.Get(ctx, cartKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Cart{}, nil
		}
		return Cart{}, fmt.Errorf("failed to read remote cart: %w", err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return Cart{}, fmt.Errorf("failed to parse remote cart: %w", err)
	}

	cart := Cart{Items: doc.Items}
	cart.recompute()
	return cart, nil
}

// Save overwrites the account's whole cart document.
func (s *RedisCarts) Save(ctx context.Context, accountID string, cart Cart) error {
	doc := Document{
		Items:     cart.Items,
		UpdatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode remote cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(accountID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write remote cart: %w", err)
	}
	return nil
}

// Clear deletes the account's cart document.
func (s *RedisCarts) Clear(ctx context.Context, accountID string) error {
	if err := s.client.Del(ctx, cartKey(accountID)).Err(); err != nil {
		return fmt.Errorf("failed to clear remote cart: %w", err)
	}
	return nil
}
