package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearshed/storefront/internal/domain"
	"github.com/gearshed/storefront/internal/repository"
	"github.com/gearshed/storefront/pkg/database"
	apperrors "github.com/gearshed/storefront/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

var catalogColumns = []string{
	"id", "name", "slug", "description", "category", "brand",
	"price_cents", "image", "status", "created_at", "updated_at",
}

var catalogColumnsWithCount = append(append([]string{}, catalogColumns...), "total_count")

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          "prod-1",
		Name:        "Carbon Full-Face Helmet",
		Slug:        "carbon-full-face-helmet",
		Description: "ECE 22.06 rated",
		Category:    "helmets",
		Brand:       "Gearshed",
		PriceCents:  44900,
		Image:       "https://cdn.gearshed.test/helmet-3.jpg",
		Status:      domain.ProductStatusPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productRow(p domain.Product) []any {
	return []any{
		p.ID, p.Name, p.Slug, p.Description, p.Category, p.Brand,
		p.PriceCents, p.Image, p.Status, p.CreatedAt, p.UpdatedAt,
	}
}

func TestCatalogRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCatalogRepository(mock)

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Slug, p.Description, p.Category, p.Brand,
			p.PriceCents, p.Image, p.Status, p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_Create_DuplicateSlug(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCatalogRepository(mock)

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Slug, p.Description, p.Category, p.Brand,
			p.PriceCents, p.Image, p.Status, p.CreatedAt, p.UpdatedAt,
		).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), &p)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCatalogRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(catalogColumns).AddRow(productRow(p)...))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.Slug, result.Slug)
	assert.Equal(t, p.PriceCents, result.PriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_GetBySlug_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCatalogRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("SELECT .+ FROM products WHERE slug").
		WithArgs(p.Slug).
		WillReturnRows(pgxmock.NewRows(catalogColumns).AddRow(productRow(p)...))

	result, err := repo.GetBySlug(context.Background(), p.Slug)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_List_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCatalogRepository(mock)

	p := sampleProduct()
	row := append(productRow(p), 1) // total_count = 1

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(catalogColumnsWithCount).AddRow(row...))

	products, total, err := repo.List(context.Background(), repository.CatalogFilter{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, p.ID, products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_List_WithFilters(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCatalogRepository(mock)

	p := sampleProduct()
	row := append(productRow(p), 1)

	filter := repository.CatalogFilter{
		Category: "helmets",
		Status:   domain.ProductStatusPublished,
		Search:   "carbon",
		Sort:     "price_asc",
		Limit:    10,
		Offset:   20,
	}

	// category=$1, status=$2, search=$3, LIMIT $4 OFFSET $5
	mock.ExpectQuery("SELECT .+ FROM products .+ ORDER BY price_cents ASC").
		WithArgs("helmets", domain.ProductStatusPublished, "%carbon%", 10, 20).
		WillReturnRows(pgxmock.NewRows(catalogColumnsWithCount).AddRow(row...))

	products, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_List_WithPriceBounds(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCatalogRepository(mock)

	p := sampleProduct()
	row := append(productRow(p), 1)

	filter := repository.CatalogFilter{
		MinPriceCents: 10000,
		MaxPriceCents: 50000,
	}

	// min=$1, max=$2, LIMIT $3 OFFSET $4
	mock.ExpectQuery(`SELECT .+ FROM products WHERE price_cents >= \$1 AND price_cents <= \$2`).
		WithArgs(int64(10000), int64(50000), 20, 0).
		WillReturnRows(pgxmock.NewRows(catalogColumnsWithCount).AddRow(row...))

	products, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_List_UnknownSortFallsBackToNewest(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products .+ ORDER BY created_at DESC").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(catalogColumnsWithCount))

	products, total, err := repo.List(context.Background(), repository.CatalogFilter{Sort: "price; DROP TABLE products"})
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
