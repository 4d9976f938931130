package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gearshed/storefront/internal/domain"
	pkgkafka "github.com/gearshed/storefront/pkg/kafka"
)

// Kafka topics for storefront domain events.
var (
	TopicCartUpdated     = pkgkafka.Topic("cart", "updated")
	TopicCartCleared     = pkgkafka.Topic("cart", "cleared")
	TopicWishlistUpdated = pkgkafka.Topic("wishlist", "updated")
	TopicOrderSubmitted  = pkgkafka.Topic("order", "submitted")
	TopicProductCreated  = pkgkafka.Topic("product", "created")
	TopicProductViewed   = pkgkafka.Topic("product", "viewed")
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
	AggregateTypeOrder    = "order"
	AggregateTypeProduct  = "product"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront"

// LineItemData is the item payload within cart events.
type LineItemData struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID     string         `json:"session_id"`
	Items         []LineItemData `json:"items"`
	ItemCount     int            `json:"item_count"`
	SubtotalCents int64          `json:"subtotal_cents"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	Saved     bool   `json:"saved"`
}

// OrderSubmittedData is the payload for an order.submitted event.
type OrderSubmittedData struct {
	OrderID       string         `json:"order_id"`
	SessionID     string         `json:"session_id"`
	Items         []LineItemData `json:"items"`
	SubtotalCents int64          `json:"subtotal_cents"`
	CustomerEmail string         `json:"customer_email"`
}

// ProductCreatedData is the payload for a product.created event.
type ProductCreatedData struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
	Status     string `json:"status"`
}

// ProductViewedData is the payload for a product.viewed event. These feed
// downstream recommendation and analytics consumers.
type ProductViewedData struct {
	SessionID  string `json:"session_id"`
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
}

// Producer publishes storefront domain events to Kafka.
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

func cartItems(cart *domain.Cart) []LineItemData {
	items := make([]LineItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = LineItemData{
			ProductID:  item.ID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		}
	}
	return items
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		SessionID:     cart.SessionID,
		Items:         cartItems(cart),
		ItemCount:     cart.ItemCount(),
		SubtotalCents: cart.Subtotal(),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.SessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.Int("item_count", cart.ItemCount()),
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

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, sessionID, productID string, saved bool) error {
	data := WishlistUpdatedData{
		SessionID: sessionID,
		ProductID: productID,
		Saved:     saved,
	}

	event, err := pkgkafka.NewEvent(TopicWishlistUpdated, sessionID, AggregateTypeWishlist, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.updated event",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Bool("saved", saved),
	)

	return nil
}

// PublishOrderSubmitted publishes an order.submitted event.
func (p *Producer) PublishOrderSubmitted(ctx context.Context, orderID string, cart *domain.Cart, customerEmail string) error {
	data := OrderSubmittedData{
		OrderID:       orderID,
		SessionID:     cart.SessionID,
		Items:         cartItems(cart),
		SubtotalCents: cart.Subtotal(),
		CustomerEmail: customerEmail,
	}

	event, err := pkgkafka.NewEvent(TopicOrderSubmitted, orderID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderSubmitted, event); err != nil {
		return fmt.Errorf("publish order.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.submitted event",
		slog.String("order_id", orderID),
		slog.String("session_id", cart.SessionID),
	)

	return nil
}

// PublishProductViewed publishes a product.viewed event.
func (p *Producer) PublishProductViewed(ctx context.Context, sessionID string, summary domain.ProductSummary) error {
	data := ProductViewedData{
		SessionID:  sessionID,
		ProductID:  summary.ID,
		Name:       summary.Name,
		Category:   summary.Category,
		PriceCents: summary.PriceCents,
	}

	event, err := pkgkafka.NewEvent(TopicProductViewed, sessionID, AggregateTypeProduct, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create product.viewed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductViewed, event); err != nil {
		return fmt.Errorf("publish product.viewed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.viewed event",
		slog.String("session_id", sessionID),
		slog.String("product_id", summary.ID),
	)

	return nil
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	data := ProductCreatedData{
		ProductID:  product.ID,
		Name:       product.Name,
		Slug:       product.Slug,
		Category:   product.Category,
		PriceCents: product.PriceCents,
		Status:     product.Status,
	}

	event, err := pkgkafka.NewEvent(TopicProductCreated, product.ID, AggregateTypeProduct, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create product.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductCreated, event); err != nil {
		return fmt.Errorf("publish product.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.created event",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return nil
}
