package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/gearshed/storefront/pkg/errors"
	"github.com/gearshed/storefront/pkg/httpclient"
	"github.com/gearshed/storefront/pkg/validator"

	"github.com/gearshed/storefront/internal/domain"
	"github.com/gearshed/storefront/internal/event"
	"github.com/gearshed/storefront/internal/repository"
)

// HTTPDoer abstracts the outbound HTTP client so checkout tests can stub the
// order endpoint. Both httpclient.Client and httpclient.BreakerClient
// satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CustomerForm is the customer and shipping detail collected at checkout.
type CustomerForm struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required,min=2,max=200"`
	Phone      string `json:"phone" validate:"omitempty,min=7,max=20"`
	Address    string `json:"address" validate:"required,min=5,max=500"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required,len=2"`
	Notes      string `json:"notes" validate:"max=1000"`
}

// orderPayload is the request body forwarded to the order endpoint.
type orderPayload struct {
	OrderID       string               `json:"order_id"`
	SessionID     string               `json:"session_id"`
	Customer      CustomerForm         `json:"customer"`
	Items         []event.LineItemData `json:"items"`
	ItemCount     int                  `json:"item_count"`
	SubtotalCents int64                `json:"subtotal_cents"`
	SubmittedAt   time.Time            `json:"submitted_at"`
}

// OrderConfirmation is what the shopper gets back after a successful
// checkout.
type OrderConfirmation struct {
	OrderID       string    `json:"order_id"`
	ItemCount     int       `json:"item_count"`
	SubtotalCents int64     `json:"subtotal_cents"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// CheckoutService forwards a session's cart to the order endpoint and clears
// the cart once the order is accepted.
type CheckoutService struct {
	carts    repository.CartRepository
	producer *event.Producer
	client   HTTPDoer
	orderURL string
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(carts repository.CartRepository, producer *event.Producer, client HTTPDoer, orderURL string, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		producer: producer,
		client:   client,
		orderURL: orderURL,
		logger:   logger,
	}
}

// Submit validates the customer form, forwards the cart to the order
// endpoint, and clears the cart on acceptance. A rejected or unreachable
// order endpoint leaves the cart untouched so the shopper can retry.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, form CustomerForm) (*OrderConfirmation, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if err := validator.Validate(form); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		// Only absence means an empty cart; an unreachable store is a
		// dependency failure and must surface as one.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("cart is empty")
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	orderID := uuid.New().String()
	now := time.Now().UTC()

	payload := orderPayload{
		OrderID:       orderID,
		SessionID:     sessionID,
		Customer:      form,
		Items:         cartItems(cart),
		ItemCount:     cart.ItemCount(),
		SubtotalCents: cart.Subtotal(),
		SubmittedAt:   now,
	}

	if err := s.forwardOrder(ctx, payload); err != nil {
		s.logger.WarnContext(ctx, "order submission failed, cart preserved",
			slog.String("session_id", sessionID),
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	// The order is accepted downstream; a failed cleanup here must not fail
	// the checkout.
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderSubmitted(ctx, orderID, cart, form.Email); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.submitted event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("session_id", sessionID),
		slog.String("order_id", orderID),
		slog.Int("item_count", payload.ItemCount),
		slog.Int64("subtotal_cents", payload.SubtotalCents),
	)

	return &OrderConfirmation{
		OrderID:       orderID,
		ItemCount:     payload.ItemCount,
		SubtotalCents: payload.SubtotalCents,
		SubmittedAt:   now,
	}, nil
}

func (s *CheckoutService) forwardOrder(ctx context.Context, payload orderPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.orderURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return apperrors.ServiceUnavailable("order service is unavailable")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "order service")
	}

	return nil
}

func cartItems(cart *domain.Cart) []event.LineItemData {
	items := make([]event.LineItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = event.LineItemData{
			ProductID:  item.ID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		}
	}
	return items
}
