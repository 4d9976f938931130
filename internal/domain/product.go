package domain

import "time"

// ProductSummary is the denormalized slice of a catalog product that the
// session stores embed. Prices are minor units (cents) so arithmetic never
// loses sub-cent precision.
type ProductSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// Valid reports whether a summary can be held by a store. Summaries hydrate
// from persisted JSON, so this is the shape check that guards runtime
// invariants against stale or foreign snapshots.
func (p ProductSummary) Valid() bool {
	return p.ID != "" && p.PriceCents >= 0
}

// Product is a full catalog record.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Image       string    `json:"image,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product status constants.
const (
	ProductStatusDraft     = "draft"
	ProductStatusPublished = "published"
	ProductStatusArchived  = "archived"
)

// IsValidStatus checks a product status string.
func IsValidStatus(status string) bool {
	switch status {
	case ProductStatusDraft, ProductStatusPublished, ProductStatusArchived:
		return true
	}
	return false
}

// Summary projects the catalog record down to what the session stores keep.
func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		PriceCents:  p.PriceCents,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
	}
}
