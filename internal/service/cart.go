package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CodeSizeRequired is the error code returned when an add has no usable
// size selection.
const CodeSizeRequired = "SIZE_REQUIRED"

// EventPublisher announces cart appends to other systems.
type EventPublisher interface {
	PublishItemAdded(ctx context.Context, cartID string, item domain.CartItem) error
}

// NoopPublisher discards events. It is used when Kafka is disabled.
type NoopPublisher struct{}

// PublishItemAdded does nothing.
func (NoopPublisher) PublishItemAdded(context.Context, string, domain.CartItem) error { return nil }

// CartService implements the add-to-cart action over a CartRepository.
type CartService struct {
	repo   repository.CartRepository
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

// NewCartService creates a new cart service. A nil publisher disables
// events and a nil logger falls back to slog.Default.
func NewCartService(repo repository.CartRepository, events EventPublisher, logger *slog.Logger) *CartService {
	if events == nil {
		events = NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CartService{
		repo:   repo,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// AddItem snapshots product with the chosen size and unit price and
// appends it to the cart. Each call appends a new line, so adding the same
// product and size twice yields two lines. size must name an enabled
// variant of product.
func (s *CartService) AddItem(ctx context.Context, cartID string, product *domain.Product, size string, unitPrice domain.Money) (*domain.CartItem, error) {
	if cartID == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}
	if product == nil {
		return nil, apperrors.InvalidInput("product is required")
	}
	if !product.CanSelect(size) {
		return nil, apperrors.Unprocessable(CodeSizeRequired, "Size selection is required")
	}
	if unitPrice <= 0 {
		return nil, apperrors.InvalidInput("unit price must be positive")
	}

	item := domain.NewCartItem(product, size, unitPrice, s.now())
	if err := s.repo.Append(ctx, cartID, item); err != nil {
		cartItemsAdded.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("append cart item: %w", err)
	}
	cartItemsAdded.WithLabelValues("success").Inc()

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("item_id", item.ID),
		slog.String("slug", item.Slug),
		slog.String("size", item.SelectedSize),
		slog.Int64("unit_price", int64(item.OneQuantityPrice)),
	)

	if err := s.events.PublishItemAdded(ctx, cartID, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish item added event",
			slog.String("item_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	return &item, nil
}

// Items returns the cart identified by cartID. Unknown carts are empty.
func (s *CartService) Items(ctx context.Context, cartID string) (*domain.Cart, error) {
	if cartID == "" {
		return nil, apperrors.InvalidInput("cart id is required")
	}
	items, err := s.repo.List(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return &domain.Cart{ID: cartID, Items: items}, nil
}
