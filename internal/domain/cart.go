package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one appended line: a product snapshot plus the chosen size
// and the unit price at the time of the add. Items are never mutated.
type CartItem struct {
	ID               string    `json:"id"`
	ProductID        int       `json:"product_id"`
	Slug             string    `json:"slug"`
	Name             string    `json:"name"`
	Subtitle         string    `json:"subtitle,omitempty"`
	Price            Money     `json:"price"`
	OriginalPrice    *Money    `json:"original_price,omitempty"`
	Thumbnail        string    `json:"thumbnail,omitempty"`
	SelectedSize     string    `json:"selected_size"`
	OneQuantityPrice Money     `json:"one_quantity_price"`
	AddedAt          time.Time `json:"added_at"`
}

// NewCartItem snapshots p into a new line for size at unitPrice.
func NewCartItem(p *Product, size string, unitPrice Money, now time.Time) CartItem {
	item := CartItem{
		ID:               uuid.NewString(),
		ProductID:        p.ID,
		Slug:             p.Slug,
		Name:             p.Name,
		Subtitle:         p.Subtitle,
		Price:            p.Price,
		Thumbnail:        p.Thumbnail().URL,
		SelectedSize:     size,
		OneQuantityPrice: unitPrice,
		AddedAt:          now.UTC(),
	}
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		item.OriginalPrice = &op
	}
	return item
}

// Cart is the readable collection of lines appended under one cart id.
type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
}

// Subtotal sums the unit prices of all lines.
func (c *Cart) Subtotal() Money {
	var total Money
	for _, item := range c.Items {
		total += item.OneQuantityPrice
	}
	return total
}

// ItemCount returns the number of lines in the cart.
func (c *Cart) ItemCount() int {
	return len(c.Items)
}
