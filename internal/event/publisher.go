package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Event type and topic for cart appends.
const (
	EventTypeItemAdded = "cart.item_added"
	AggregateTypeCart  = "cart"
	SourceStorefront   = "storefront"
)

// TopicItemAdded is storefront.cart.item_added.
var TopicItemAdded = pkgkafka.Topic("cart", "item_added")

// ItemAddedData is the payload of a cart.item_added event.
type ItemAddedData struct {
	CartID           string       `json:"cart_id"`
	ItemID           string       `json:"item_id"`
	ProductID        int          `json:"product_id"`
	Slug             string       `json:"slug"`
	SelectedSize     string       `json:"selected_size"`
	OneQuantityPrice domain.Money `json:"one_quantity_price"`
}

type producer interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Publisher publishes cart events to Kafka.
type Publisher struct {
	producer producer
	logger   *slog.Logger
}

// NewPublisher creates a Publisher over a Kafka producer.
func NewPublisher(p *pkgkafka.Producer, logger *slog.Logger) *Publisher {
	return newPublisher(p, logger)
}

func newPublisher(p producer, logger *slog.Logger) *Publisher {
	return &Publisher{producer: p, logger: logger}
}

// PublishItemAdded publishes a cart.item_added event keyed by the cart id.
func (p *Publisher) PublishItemAdded(ctx context.Context, cartID string, item domain.CartItem) error {
	data := ItemAddedData{
		CartID:           cartID,
		ItemID:           item.ID,
		ProductID:        item.ProductID,
		Slug:             item.Slug,
		SelectedSize:     item.SelectedSize,
		OneQuantityPrice: item.OneQuantityPrice,
	}

	evt, err := pkgkafka.NewEvent(EventTypeItemAdded, cartID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create item added event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.producer.Publish(ctx, TopicItemAdded, evt); err != nil {
		return fmt.Errorf("publish item added event: %w", err)
	}

	p.logger.DebugContext(ctx, "published item added event",
		slog.String("event_id", evt.EventID),
		slog.String("cart_id", cartID),
	)
	return nil
}
