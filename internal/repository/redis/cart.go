package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
)

const keyPrefix = "storefront:cart:"

// CartRepository implements repository.CartRepository using a Redis list
// per cart. RPUSH keeps appends atomic; every append refreshes the TTL.
type CartRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository. A zero ttl
// keeps carts forever.
func NewCartRepository(client redis.UniversalClient, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Append pushes item onto the cart's list.
func (r *CartRepository) Append(ctx context.Context, cartID string, item domain.CartItem) error {
	key := keyPrefix + cartID

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal cart item: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis rpush cart item: %w", err)
	}

	return nil
}

// List reads the whole cart list.
func (r *CartRepository) List(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	key := keyPrefix + cartID

	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange cart: %w", err)
	}

	items := make([]domain.CartItem, 0, len(raw))
	for i, s := range raw {
		var item domain.CartItem
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			return nil, fmt.Errorf("unmarshal cart item %d: %w", i, err)
		}
		items = append(items, item)
	}

	return items, nil
}
