// Package event publishes storefront domain events to Kafka. Publishing is
// best effort: failures are logged and never fail the originating operation.
package event

import (
	"context"
	"log/slog"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	pkgkafka "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated       = "storefront.cart.updated"
	TopicCheckoutCompleted = "storefront.checkout.completed"
	TopicProductCreated    = "storefront.product.created"
	TopicProductUpdated    = "storefront.product.updated"
	TopicProductDeleted    = "storefront.product.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeCart    = "cart"
	AggregateTypeOrder   = "order"
	AggregateTypeProduct = "product"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event, emitted when a
// debounced cart snapshot lands.
type CartUpdatedData struct {
	ScopeKey  string `json:"scope_key"`
	ItemCount int    `json:"item_count"`
	Subtotal  int64  `json:"subtotal"`
}

// CheckoutCompletedData is the payload for a checkout.completed event.
type CheckoutCompletedData struct {
	OrderID     string `json:"order_id"`
	ScopeKey    string `json:"scope_key"`
	PaymentID   string `json:"payment_id"`
	Method      string `json:"payment_method"`
	LineCount   int    `json:"line_count"`
	Subtotal    int64  `json:"subtotal"`
	ShippingFee int64  `json:"shipping_fee"`
	GrandTotal  int64  `json:"grand_total"`
}

// ProductData is the payload for product lifecycle events.
type ProductData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

// Producer publishes storefront domain events.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// CartUpdated publishes a cart.updated event after a snapshot write.
func (p *Producer) CartUpdated(ctx context.Context, scopeKey string, c domain.Cart) {
	data := CartUpdatedData{
		ScopeKey:  scopeKey,
		ItemCount: c.TotalItemCount(),
		Subtotal:  c.Total(),
	}
	p.publish(ctx, TopicCartUpdated, scopeKey, AggregateTypeCart, data)
}

// CheckoutCompleted publishes a checkout.completed event.
func (p *Producer) CheckoutCompleted(ctx context.Context, data CheckoutCompletedData) {
	p.publish(ctx, TopicCheckoutCompleted, data.OrderID, AggregateTypeOrder, data)
}

// ProductCreated publishes a product.created event.
func (p *Producer) ProductCreated(ctx context.Context, prod domain.Product) {
	p.publish(ctx, TopicProductCreated, prod.ID, AggregateTypeProduct, productData(prod))
}

// ProductUpdated publishes a product.updated event.
func (p *Producer) ProductUpdated(ctx context.Context, prod domain.Product) {
	p.publish(ctx, TopicProductUpdated, prod.ID, AggregateTypeProduct, productData(prod))
}

// ProductDeleted publishes a product.deleted event.
func (p *Producer) ProductDeleted(ctx context.Context, id string) {
	p.publish(ctx, TopicProductDeleted, id, AggregateTypeProduct, ProductData{ID: id})
}

func productData(prod domain.Product) ProductData {
	return ProductData{
		ID:       prod.ID,
		Name:     prod.Name,
		Price:    prod.Price,
		Category: prod.Category,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
		return
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
}
