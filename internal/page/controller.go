// Package page holds the per-visit state of a product-detail page: which
// size is selected, whether the "size required" error is showing, and what
// the add-to-cart button does in each state.
package page

import (
	"context"
	"fmt"

	"github.com/utafrali/storefront/internal/domain"
)

// ScrollTargetSizes is the element id of the size grid.
const ScrollTargetSizes = "sizesGrid"

// Dispatcher receives confirmed add-to-cart actions. service.CartService
// satisfies it.
type Dispatcher interface {
	AddItem(ctx context.Context, cartID string, product *domain.Product, size string, unitPrice domain.Money) (*domain.CartItem, error)
}

// State is the per-visit UI state. The zero value is the initial state:
// nothing selected, no error.
type State struct {
	Selection  domain.SizeSelection
	ErrorShown bool
}

// Outcome describes the side effects of an AddToCart call for the view.
type Outcome struct {
	// ScrollTo names the element to bring into view, if any.
	ScrollTo string
	// Notification is set after a successful dispatch.
	Notification *Notification
	// Item is the line that was appended.
	Item *domain.CartItem
}

// Controller drives the size-selection state machine for one product.
type Controller struct {
	product      *domain.Product
	cartID       string
	dispatcher   Dispatcher
	notification Notification
	state        State
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotification overrides the success toast.
func WithNotification(n Notification) Option {
	return func(c *Controller) { c.notification = n }
}

// NewController returns a controller in the initial state.
func NewController(product *domain.Product, cartID string, dispatcher Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		product:      product,
		cartID:       cartID,
		dispatcher:   dispatcher,
		notification: DefaultNotification(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Restore replaces the state, e.g. when rebuilding it from a request. A
// selection that does not name an enabled size is dropped.
func (c *Controller) Restore(s State) {
	if label, ok := s.Selection.Label(); ok && !c.product.CanSelect(label) {
		s.Selection = domain.Unselected()
	}
	c.state = s
}

// ClickSize selects label and clears the error when label is an enabled
// size. Clicks on disabled or unknown sizes change nothing and return
// false.
func (c *Controller) ClickSize(label string) bool {
	if !c.product.CanSelect(label) {
		return false
	}
	c.state = State{Selection: domain.Selected(label)}
	return true
}

// AddToCart dispatches one cart append when a size is selected. Without a
// selection it shows the error and asks the view to scroll to the size
// grid; nothing is dispatched. A failed dispatch leaves the state as it
// was.
func (c *Controller) AddToCart(ctx context.Context) (Outcome, error) {
	label, ok := c.state.Selection.Label()
	if !ok {
		c.state.ErrorShown = true
		return Outcome{ScrollTo: ScrollTargetSizes}, nil
	}

	item, err := c.dispatcher.AddItem(ctx, c.cartID, c.product, label, c.product.Price)
	if err != nil {
		return Outcome{}, fmt.Errorf("add %s size %s to cart: %w", c.product.Slug, label, err)
	}

	c.state.ErrorShown = false
	n := c.notification
	return Outcome{Notification: &n, Item: item}, nil
}
