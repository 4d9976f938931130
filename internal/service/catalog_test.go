package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gearshed/storefront/pkg/errors"

	"github.com/gearshed/storefront/internal/domain"
	"github.com/gearshed/storefront/internal/repository"
)

// --- Mock Repository ---

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockCatalogRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockCatalogRepository) List(ctx context.Context, filter repository.CatalogFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func newTestCatalogService(repo *mockCatalogRepository) *CatalogService {
	return NewCatalogService(repo, newTestProducer(), newTestLogger())
}

// --- Tests ---

func TestCatalogService_List_DefaultsToPublished(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	expected := repository.CatalogFilter{Status: domain.ProductStatusPublished, Limit: 20}
	repo.On("List", ctx, expected).Return([]domain.Product{}, 0, nil)

	_, _, err := svc.List(ctx, repository.CatalogFilter{Limit: 20})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCatalogService_List_RejectsBogusStatus(t *testing.T) {
	svc := newTestCatalogService(new(mockCatalogRepository))

	_, _, err := svc.List(context.Background(), repository.CatalogFilter{Status: "on-sale"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCatalogService_GetByID_NotFound(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_Create_GeneratesIDAndSlug(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.Create(ctx, CreateProductInput{
		Name:       "Adventure Touring Jacket",
		Category:   "jackets",
		PriceCents: 32999,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "adventure-touring-jacket", product.Slug)
	assert.Equal(t, domain.ProductStatusDraft, product.Status)
	assert.NotZero(t, product.CreatedAt)
	repo.AssertExpectations(t)
}

func TestCatalogService_Create_ValidatesInput(t *testing.T) {
	svc := newTestCatalogService(new(mockCatalogRepository))

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name:       "X",
		PriceCents: -1,
	})
	assert.Error(t, err)
}

func TestCatalogService_Create_PropagatesDuplicateSlug(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := newTestCatalogService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).
		Return(apperrors.AlreadyExists("product", "slug", "adventure-touring-jacket"))

	_, err := svc.Create(ctx, CreateProductInput{
		Name:       "Adventure Touring Jacket",
		Category:   "jackets",
		PriceCents: 32999,
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}
