package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/gearshed/storefront/pkg/errors"

	"github.com/gearshed/storefront/internal/domain"
	"github.com/gearshed/storefront/internal/event"
	"github.com/gearshed/storefront/internal/repository"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single line item.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct line items in a cart.
	MaxItemsPerCart = 50
	// MaxPriceCents is the maximum price in cents (100,000.00) allowed per item.
	MaxPriceCents = 100_000_00
)

// casRetries is how many times a mutation re-reads and retries after losing
// an optimistic-lock race before giving up with a conflict.
const casRetries = 3

// AddItemInput holds the parameters for adding a product to the cart.
type AddItemInput struct {
	ProductID   string `json:"product_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

func (in AddItemInput) summary() domain.ProductSummary {
	return domain.ProductSummary{
		ID:          in.ProductID,
		Name:        in.Name,
		PriceCents:  in.PriceCents,
		Image:       in.Image,
		Category:    in.Category,
		Description: in.Description,
	}
}

// CartService implements the business logic for cart operations.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a session. A session with no cart gets an
// empty one.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return cart, nil
}

// AddItem merges a product into the session's cart. A row for the same
// product grows by the requested quantity; requests for less than one unit
// degrade to adding one. Concurrent writers are serialized by optimistic
// locking with a bounded retry.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.PriceCents < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.PriceCents > MaxPriceCents {
		return nil, apperrors.InvalidInput(fmt.Sprintf("price must not exceed %d cents", MaxPriceCents))
	}
	if input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	cart, err := s.mutate(ctx, sessionID, func(cart *domain.Cart) (bool, error) {
		if i := existingIndex(cart, input.ProductID); i < 0 && len(cart.Items) >= MaxItemsPerCart {
			return false, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
		}

		cart.AddItem(input.summary(), input.Quantity)

		if i := existingIndex(cart, input.ProductID); i >= 0 && cart.Items[i].Quantity > MaxQuantityPerItem {
			return false, apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
		}

		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.publishCartUpdated(ctx, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
		slog.Int("quantity", input.Quantity),
	)

	return cart, nil
}

// SetItemQuantity sets an absolute quantity for a line item. A quantity below
// one removes the row; an unknown product ID leaves the cart untouched and is
// not an error.
func (s *CartService) SetItemQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	var changed bool
	cart, err := s.mutate(ctx, sessionID, func(cart *domain.Cart) (bool, error) {
		changed = cart.SetItemQuantity(productID, quantity)
		return changed, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publishCartUpdated(ctx, cart)

		s.logger.InfoContext(ctx, "cart item quantity updated",
			slog.String("session_id", sessionID),
			slog.String("product_id", productID),
			slog.Int("quantity", quantity),
		)
	}

	return cart, nil
}

// RemoveItem removes the line item for the product. Removing a product that
// is not in the cart is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	var changed bool
	cart, err := s.mutate(ctx, sessionID, func(cart *domain.Cart) (bool, error) {
		changed = cart.RemoveItem(productID)
		return changed, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publishCartUpdated(ctx, cart)

		s.logger.InfoContext(ctx, "item removed from cart",
			slog.String("session_id", sessionID),
			slog.String("product_id", productID),
		)
	}

	return cart, nil
}

// ClearCart removes all items from the session's cart. Idempotent.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// mutate runs the hydrate, reduce, persist cycle for one cart transition.
// The apply func returns whether the cart changed; unchanged carts are not
// written back. Lost optimistic-lock races re-read and retry up to casRetries
// times before reporting a conflict.
func (s *CartService) mutate(ctx context.Context, sessionID string, apply func(*domain.Cart) (bool, error)) (*domain.Cart, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		cart, err := s.getOrCreateCart(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		expectedVersion := cart.Version

		changed, err := apply(cart)
		if err != nil {
			return nil, err
		}
		if !changed {
			return cart, nil
		}

		ok, err := s.repo.SaveIfVersion(ctx, cart, expectedVersion)
		if err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
		if ok {
			return cart, nil
		}
	}

	return nil, apperrors.Conflict("cart was modified concurrently, please retry")
}

// getOrCreateCart retrieves the cart for a session, falling back to an empty
// cart when none exists.
func (s *CartService) getOrCreateCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) publishCartUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}

func existingIndex(cart *domain.Cart, productID string) int {
	for i := range cart.Items {
		if cart.Items[i].ID == productID {
			return i
		}
	}
	return -1
}
