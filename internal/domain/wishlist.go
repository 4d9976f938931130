package domain

import "time"

// WishlistItem is a saved product plus the moment it was saved, which drives
// the newest-first listing order.
type WishlistItem struct {
	ProductSummary
	AddedAt time.Time `json:"added_at"`
}

// Valid reports whether a hydrated wishlist item is usable.
func (w WishlistItem) Valid() bool {
	return w.ProductSummary.Valid()
}
