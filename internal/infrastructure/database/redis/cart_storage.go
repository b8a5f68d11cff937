// internal/infrastructure/database/redis/cart_storage.go
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront/internal/domain/cart"
)

const defaultCartNamespace = "storefront"

// CartStorage keeps serialized carts in Redis. Keys never expire, matching
// browser local storage.
type CartStorage struct {
	client    *Client
	namespace string
}

// NewCartStorage creates a cart storage; namespace separates carts of
// different users or devices sharing one Redis.
func NewCartStorage(client *Client, namespace string) *CartStorage {
	if namespace == "" {
		namespace = defaultCartNamespace
	}
	return &CartStorage{client: client, namespace: namespace}
}

// Load returns the stored value or cart.ErrNotFound
func (s *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Redis.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Save overwrites the stored value
func (s *CartStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Redis.Set(ctx, s.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *CartStorage) key(key string) string {
	return s.namespace + ":" + key
}
