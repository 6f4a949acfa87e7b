package memory

import (
	"context"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// CartRepository implements repository.CartRepository in process memory.
// Carts are lost on restart.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem
}

// NewCartRepository creates an empty in-memory cart store.
func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string][]domain.CartItem)}
}

// Append adds item to the cart. It never fails.
func (r *CartRepository) Append(_ context.Context, cartID string, item domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cartID] = append(r.carts[cartID], item)
	return nil
}

// List returns a copy of the cart's lines.
func (r *CartRepository) List(_ context.Context, cartID string) ([]domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.carts[cartID]
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out, nil
}
