package repository

import (
	"context"

	"github.com/gearshed/storefront/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by its session ID.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion persists a cart only if the stored version still matches
	// expectedVersion (0 means "no cart exists yet"). On success the stored
	// version is expectedVersion+1. Returns false when another writer won.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error)

	// Delete removes a cart from the store by the session ID.
	Delete(ctx context.Context, sessionID string) error
}

// WishlistRepository defines the interface for wishlist persistence operations.
type WishlistRepository interface {
	// List returns the session's saved products, newest first.
	List(ctx context.Context, sessionID string) ([]domain.WishlistItem, error)

	// Add saves a product for the session. Adding a product that is already
	// saved refreshes its snapshot but keeps the original AddedAt.
	Add(ctx context.Context, sessionID string, item domain.WishlistItem) error

	// Remove deletes a saved product. Returns whether anything was removed.
	Remove(ctx context.Context, sessionID, productID string) (bool, error)

	// Toggle atomically adds the product if absent or removes it if present.
	// Returns true when the product ended up saved.
	Toggle(ctx context.Context, sessionID string, item domain.WishlistItem) (bool, error)

	// Contains reports whether the product is saved for the session.
	Contains(ctx context.Context, sessionID, productID string) (bool, error)

	// Count returns how many products the session has saved.
	Count(ctx context.Context, sessionID string) (int64, error)

	// Clear removes every saved product for the session.
	Clear(ctx context.Context, sessionID string) error
}

// RecentlyViewedRepository defines the interface for browsing-history persistence.
type RecentlyViewedRepository interface {
	// Get retrieves the history by its session ID.
	Get(ctx context.Context, sessionID string) (*domain.RecentlyViewed, error)

	// Save persists the history, overwriting any existing one for the session.
	Save(ctx context.Context, recent *domain.RecentlyViewed) error

	// Delete removes the history from the store by the session ID.
	Delete(ctx context.Context, sessionID string) error
}

// CatalogFilter narrows and orders a catalog listing.
type CatalogFilter struct {
	Category string
	Brand    string
	Status   string
	Search   string

	// Price bounds in cents; zero means unbounded.
	MinPriceCents int64
	MaxPriceCents int64

	Sort   string
	Limit  int
	Offset int
}

// CatalogRepository defines the interface for catalog persistence operations.
type CatalogRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its ID.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetBySlug retrieves a product by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List returns a page of products matching the filter plus the total
	// number of matches across all pages.
	List(ctx context.Context, filter CatalogFilter) ([]domain.Product, int, error)
}
