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

// RecordViewInput holds the product snapshot for a recorded view.
type RecordViewInput struct {
	ProductID   string `json:"product_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (in RecordViewInput) summary() domain.ProductSummary {
	return domain.ProductSummary{
		ID:          in.ProductID,
		Name:        in.Name,
		PriceCents:  in.PriceCents,
		Image:       in.Image,
		Category:    in.Category,
		Description: in.Description,
	}
}

// RecentlyViewedService implements the business logic for the browsing
// history rail.
type RecentlyViewedService struct {
	repo     repository.RecentlyViewedRepository
	producer *event.Producer
	logger   *slog.Logger
	cap      int
}

// NewRecentlyViewedService creates a new browsing-history service. A cap
// below one falls back to the default.
func NewRecentlyViewedService(repo repository.RecentlyViewedRepository, producer *event.Producer, logger *slog.Logger, cap int) *RecentlyViewedService {
	if cap < 1 {
		cap = domain.DefaultRecentlyViewedCap
	}
	return &RecentlyViewedService{
		repo:     repo,
		producer: producer,
		logger:   logger,
		cap:      cap,
	}
}

// Get returns the session's browsing history, newest first. A session with
// no history gets an empty one.
func (s *RecentlyViewedService) Get(ctx context.Context, sessionID string) (*domain.RecentlyViewed, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	return s.getOrCreate(ctx, sessionID)
}

// RecordView notes that the session looked at a product. The product moves
// to the front of the history; the oldest entry falls off once the rail is
// full. Re-viewing a product promotes it without growing the list.
func (s *RecentlyViewedService) RecordView(ctx context.Context, sessionID string, input RecordViewInput) (*domain.RecentlyViewed, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.PriceCents < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}

	recent, err := s.getOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	recent.Add(input.summary(), s.cap)

	if err := s.repo.Save(ctx, recent); err != nil {
		return nil, fmt.Errorf("save recently viewed: %w", err)
	}

	if err := s.producer.PublishProductViewed(ctx, sessionID, input.summary()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.viewed event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.DebugContext(ctx, "product view recorded",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.ProductID),
	)

	return recent, nil
}

// Remove deletes one product from the history. Unknown products are a no-op.
func (s *RecentlyViewedService) Remove(ctx context.Context, sessionID, productID string) (*domain.RecentlyViewed, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	recent, err := s.getOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if recent.Remove(productID) {
		if err := s.repo.Save(ctx, recent); err != nil {
			return nil, fmt.Errorf("save recently viewed: %w", err)
		}
	}

	return recent, nil
}

// Clear wipes the session's browsing history. Idempotent.
func (s *RecentlyViewedService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete recently viewed: %w", err)
	}

	s.logger.InfoContext(ctx, "recently viewed cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

func (s *RecentlyViewedService) getOrCreate(ctx context.Context, sessionID string) (*domain.RecentlyViewed, error) {
	recent, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewRecentlyViewed(sessionID), nil
		}
		return nil, fmt.Errorf("get recently viewed: %w", err)
	}
	return recent, nil
}
