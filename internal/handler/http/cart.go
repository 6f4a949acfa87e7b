package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/page"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartService is the cart store as seen by the JSON API.
// *service.CartService satisfies it.
type CartService interface {
	page.Dispatcher
	Items(ctx context.Context, cartID string) (*domain.Cart, error)
}

// CartHandler handles the JSON cart API.
type CartHandler struct {
	catalog Catalog
	cart    CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(c Catalog, cart CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		catalog: c,
		cart:    cart,
		logger:  logger,
	}
}

// --- Request / response DTOs ---

// AddItemRequest is the JSON body of POST /api/v1/cart/items. A missing
// or unselectable size is reported as 422 SIZE_REQUIRED, not as a
// validation error.
type AddItemRequest struct {
	Slug string `json:"slug" validate:"required,slug"`
	Size string `json:"size" validate:"max=32"`
}

// CartResponse is the body of GET /api/v1/cart.
type CartResponse struct {
	ID        string            `json:"id"`
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  domain.Money      `json:"subtotal"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Items(r.Context(), logger.CartIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CartResponse{
		ID:        cart.ID,
		Items:     cart.Items,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
	}})
}

// AddItem handles POST /api/v1/cart/items. It runs the same state machine
// as the HTML page: the size is clicked, then add-to-cart is pressed.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.Product(r.Context(), req.Slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	c := page.NewController(product, logger.CartIDFromContext(r.Context()), h.cart)
	c.ClickSize(req.Size)

	outcome, err := c.AddToCart(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if outcome.ScrollTo != "" {
		httputil.WriteError(w, r, apperrors.Unprocessable(service.CodeSizeRequired, "Size selection is required"), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: outcome.Item})
}
