package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Balamathankumar/store-front/internal/domain"
	pkgkafka "github.com/Balamathankumar/store-front/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated = "storefront.cart.updated"
	TopicCartCleared = "storefront.cart.cleared"
	TopicOrderPlaced = "storefront.order.placed"
)

// Aggregate type constants.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "store-front"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID   string         `json:"session_id"`
	Items       []CartItemData `json:"items"`
	ItemCount   int            `json:"item_count"`
	TotalAmount int64          `json:"total_amount"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Grams     int    `json:"grams"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	SessionID string `json:"session_id"`
	OrderID   int64  `json:"order_id"`
	Total     int64  `json:"total"`
	ItemCount int    `json:"item_count"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event from the current state.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, state domain.CartState) error {
	items := make([]CartItemData, len(state.Items))
	for i, item := range state.Items {
		items[i] = CartItemData{
			ProductID: item.ProductID,
			Grams:     item.Weight.Grams(),
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			items[i].Name = item.Product.Name
			items[i].UnitPrice = domain.UnitPrice(item.Product, item.Weight)
		}
	}

	data := CartUpdatedData{
		SessionID:   sessionID,
		Items:       items,
		ItemCount:   state.TotalItems,
		TotalAmount: state.TotalAmount,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", state.TotalItems),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)

	return nil
}

// PublishOrderPlaced publishes an order.placed event after a confirmed order.
func (p *Producer) PublishOrderPlaced(ctx context.Context, sessionID string, conf *domain.OrderConfirmation, itemCount int) error {
	data := OrderPlacedData{
		SessionID: sessionID,
		OrderID:   conf.OrderID,
		Total:     conf.Total,
		ItemCount: itemCount,
	}

	event, err := pkgkafka.NewEvent(TopicOrderPlaced, strconv.FormatInt(conf.OrderID, 10), AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.Int64("order_id", conf.OrderID),
	)

	return nil
}
