package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/gearshed/storefront/pkg/errors"

	"github.com/gearshed/storefront/internal/domain"
	"github.com/gearshed/storefront/internal/event"
	"github.com/gearshed/storefront/internal/repository"
)

// MaxWishlistItems bounds how many products one session can save.
const MaxWishlistItems = 200

// SaveProductInput holds the product snapshot for wishlist operations.
type SaveProductInput struct {
	ProductID   string `json:"product_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (in SaveProductInput) item() domain.WishlistItem {
	return domain.WishlistItem{
		ProductSummary: domain.ProductSummary{
			ID:          in.ProductID,
			Name:        in.Name,
			PriceCents:  in.PriceCents,
			Image:       in.Image,
			Category:    in.Category,
			Description: in.Description,
		},
		AddedAt: time.Now().UTC(),
	}
}

// WishlistService implements the business logic for wishlist operations.
type WishlistService struct {
	repo     repository.WishlistRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, producer *event.Producer, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// List returns the session's saved products, newest first.
func (s *WishlistService) List(ctx context.Context, sessionID string) ([]domain.WishlistItem, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	items, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}

	return items, nil
}

// Save adds a product to the session's wishlist. Saving an already saved
// product refreshes its snapshot and is not an error.
func (s *WishlistService) Save(ctx context.Context, sessionID string, input SaveProductInput) error {
	if err := s.checkInput(sessionID, input.ProductID, input.PriceCents); err != nil {
		return err
	}

	already, err := s.repo.Contains(ctx, sessionID, input.ProductID)
	if err != nil {
		return fmt.Errorf("check wishlist: %w", err)
	}
	if !already {
		// The cap check and the add are separate round trips, so concurrent
		// saves can overshoot the cap by a few items.
		count, err := s.repo.Count(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("count wishlist: %w", err)
		}
		if count >= MaxWishlistItems {
			return apperrors.InvalidInput(fmt.Sprintf("wishlist must not contain more than %d items", MaxWishlistItems))
		}
	}

	if err := s.repo.Add(ctx, sessionID, input.item()); err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}

	s.publishWishlistUpdated(ctx, sessionID, input.ProductID, true)

	s.logger.InfoContext(ctx, "product saved to wishlist",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
	)

	return nil
}

// Remove deletes a saved product. Removing a product that was never saved is
// a no-op.
func (s *WishlistService) Remove(ctx context.Context, sessionID, productID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return apperrors.InvalidInput("product id is required")
	}

	removed, err := s.repo.Remove(ctx, sessionID, productID)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}

	if removed {
		s.publishWishlistUpdated(ctx, sessionID, productID, false)

		s.logger.InfoContext(ctx, "product removed from wishlist",
			slog.String("session_id", sessionID),
			slog.String("product_id", productID),
		)
	}

	return nil
}

// Toggle flips a product's saved state in one atomic step. Returns true when
// the product ended up saved.
func (s *WishlistService) Toggle(ctx context.Context, sessionID string, input SaveProductInput) (bool, error) {
	if err := s.checkInput(sessionID, input.ProductID, input.PriceCents); err != nil {
		return false, err
	}

	saved, err := s.repo.Toggle(ctx, sessionID, input.item())
	if err != nil {
		return false, fmt.Errorf("toggle wishlist item: %w", err)
	}

	s.publishWishlistUpdated(ctx, sessionID, input.ProductID, saved)

	s.logger.InfoContext(ctx, "wishlist toggled",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
		slog.Bool("saved", saved),
	)

	return saved, nil
}

// Contains reports whether the product is saved for the session.
func (s *WishlistService) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	if sessionID == "" {
		return false, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return false, apperrors.InvalidInput("product id is required")
	}

	saved, err := s.repo.Contains(ctx, sessionID, productID)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}

	return saved, nil
}

// Clear removes every saved product for the session. Idempotent.
func (s *WishlistService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}

	s.logger.InfoContext(ctx, "wishlist cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

func (s *WishlistService) checkInput(sessionID, productID string, priceCents int64) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if priceCents < 0 {
		return apperrors.InvalidInput("price must not be negative")
	}
	return nil
}

func (s *WishlistService) publishWishlistUpdated(ctx context.Context, sessionID, productID string, saved bool) {
	if err := s.producer.PublishWishlistUpdated(ctx, sessionID, productID, saved); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("session_id", sessionID),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
