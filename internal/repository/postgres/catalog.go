package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gearshed/storefront/internal/domain"
	"github.com/gearshed/storefront/internal/repository"
	"github.com/gearshed/storefront/pkg/database"
	apperrors "github.com/gearshed/storefront/pkg/errors"
)

// sortClauses whitelists the ORDER BY expressions reachable from the API.
var sortClauses = map[string]string{
	"newest":     "created_at DESC",
	"price_asc":  "price_cents ASC",
	"price_desc": "price_cents DESC",
	"name":       "name ASC",
}

const productColumns = "id, name, slug, description, category, brand, price_cents, image, status, created_at, updated_at"

// CatalogRepository implements repository.CatalogRepository using PostgreSQL.
type CatalogRepository struct {
	pool database.DBTX
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool database.DBTX) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// Create inserts a new product into the database.
func (r *CatalogRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, category, brand, price_cents, image, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		p.Description,
		p.Category,
		p.Brand,
		p.PriceCents,
		p.Image,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "slug", p.Slug)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	return r.scanProduct(ctx, query, id)
}

// GetBySlug retrieves a product by its URL slug.
func (r *CatalogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)

	return r.scanProduct(ctx, query, slug)
}

// List returns products matching the given filter with the total count.
func (r *CatalogRepository) List(ctx context.Context, filter repository.CatalogFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("brand = $%d", argIndex))
		args = append(args, filter.Brand)
		argIndex++
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.MinPriceCents > 0 {
		conditions = append(conditions, fmt.Sprintf("price_cents >= $%d", argIndex))
		args = append(args, filter.MinPriceCents)
		argIndex++
	}

	if filter.MaxPriceCents > 0 {
		conditions = append(conditions, fmt.Sprintf("price_cents <= $%d", argIndex))
		args = append(args, filter.MaxPriceCents)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy, ok := sortClauses[filter.Sort]
	if !ok {
		orderBy = sortClauses["newest"]
	}

	// count(*) OVER() returns the total match count in the same query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, orderBy, argIndex, argIndex+1,
	)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product

		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Slug,
			&p.Description,
			&p.Category,
			&p.Brand,
			&p.PriceCents,
			&p.Image,
			&p.Status,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// scanProduct runs a single-row product query and maps pgx.ErrNoRows to the
// not-found sentinel.
func (r *CatalogRepository) scanProduct(ctx context.Context, query string, arg any) (*domain.Product, error) {
	var p domain.Product

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Category,
		&p.Brand,
		&p.PriceCents,
		&p.Image,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
