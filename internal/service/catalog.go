package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/gearshed/storefront/pkg/errors"
	"github.com/gearshed/storefront/pkg/slug"
	"github.com/gearshed/storefront/pkg/validator"

	"github.com/gearshed/storefront/internal/domain"
	"github.com/gearshed/storefront/internal/event"
	"github.com/gearshed/storefront/internal/repository"
)

// CreateProductInput holds the parameters for creating a catalog product.
type CreateProductInput struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required"`
	Brand       string `json:"brand"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Image       string `json:"image" validate:"omitempty,url"`
	Status      string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// CatalogService implements the business logic for the product catalog.
type CatalogService struct {
	repo     repository.CatalogRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.CatalogRepository, producer *event.Producer, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// List returns a page of products matching the filter plus the total count.
// Storefront listings only see published products unless the filter says
// otherwise.
func (s *CatalogService) List(ctx context.Context, filter repository.CatalogFilter) ([]domain.Product, int, error) {
	if filter.Status == "" {
		filter.Status = domain.ProductStatusPublished
	}
	if !domain.IsValidStatus(filter.Status) {
		return nil, 0, apperrors.InvalidInput("invalid product status filter")
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// GetByID retrieves a product by its ID.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// GetBySlug retrieves a product by its URL slug.
func (s *CatalogService) GetBySlug(ctx context.Context, productSlug string) (*domain.Product, error) {
	if productSlug == "" {
		return nil, apperrors.InvalidInput("product slug is required")
	}

	product, err := s.repo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}

	return product, nil
}

// Create inserts a new catalog product. The slug derives from the name and
// new products default to draft so they stay off the storefront until
// published.
func (s *CatalogService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.ProductStatusDraft
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Slug:        slug.Generate(input.Name),
		Description: input.Description,
		Category:    input.Category,
		Brand:       input.Brand,
		PriceCents:  input.PriceCents,
		Image:       input.Image,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}
