package postgres

import (
	"context"
	"fmt"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
)

const (
	insertItemSQL = `
		INSERT INTO cart_items (id, cart_id, product_id, slug, name, subtitle, price, original_price, thumbnail, selected_size, one_quantity_price, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	listItemsSQL = `
		SELECT id, product_id, slug, name, subtitle, price, original_price, thumbnail, selected_size, one_quantity_price, added_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY seq`
)

// CartRepository implements repository.CartRepository using PostgreSQL.
// Each line is one row; seq preserves insertion order.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// Append inserts item as a new row.
func (r *CartRepository) Append(ctx context.Context, cartID string, item domain.CartItem) (err error) {
	ctx, end := database.TraceQuery(ctx, "AppendCartItem", insertItemSQL)
	defer func() { end(err) }()

	var originalPrice *int64
	if item.OriginalPrice != nil {
		v := int64(*item.OriginalPrice)
		originalPrice = &v
	}

	_, err = r.pool.Exec(ctx, insertItemSQL,
		item.ID,
		cartID,
		item.ProductID,
		item.Slug,
		item.Name,
		item.Subtitle,
		int64(item.Price),
		originalPrice,
		item.Thumbnail,
		item.SelectedSize,
		int64(item.OneQuantityPrice),
		item.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// List returns the cart's rows in insertion order.
func (r *CartRepository) List(ctx context.Context, cartID string) (_ []domain.CartItem, err error) {
	ctx, end := database.TraceQuery(ctx, "ListCartItems", listItemsSQL)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, listItemsSQL, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var (
			item          domain.CartItem
			price, unit   int64
			originalPrice *int64
		)
		if err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.Slug,
			&item.Name,
			&item.Subtitle,
			&price,
			&originalPrice,
			&item.Thumbnail,
			&item.SelectedSize,
			&unit,
			&item.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		item.Price = domain.Money(price)
		item.OneQuantityPrice = domain.Money(unit)
		if originalPrice != nil {
			op := domain.Money(*originalPrice)
			item.OriginalPrice = &op
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}

	return items, nil
}
