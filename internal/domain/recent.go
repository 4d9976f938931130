package domain

import "time"

// DefaultRecentlyViewedCap bounds the browsing-history rail.
const DefaultRecentlyViewedCap = 10

// RecentlyViewed is a session's browsing history: most recent first, no
// duplicate product IDs, capped length.
type RecentlyViewed struct {
	SessionID string           `json:"session_id"`
	Items     []ProductSummary `json:"items"`
	Version   int              `json:"version"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewRecentlyViewed returns an empty history for the session.
func NewRecentlyViewed(sessionID string) *RecentlyViewed {
	return &RecentlyViewed{
		SessionID: sessionID,
		Items:     []ProductSummary{},
		UpdatedAt: time.Now().UTC(),
	}
}

// Add records a product view as a single transition: any prior occurrence of
// the product is removed, the product is prepended, and the list is truncated
// to cap. Oldest entries fall off the tail.
func (r *RecentlyViewed) Add(product ProductSummary, cap int) {
	if cap < 1 {
		cap = DefaultRecentlyViewedCap
	}

	filtered := make([]ProductSummary, 0, len(r.Items)+1)
	filtered = append(filtered, product)
	for _, item := range r.Items {
		if item.ID != product.ID {
			filtered = append(filtered, item)
		}
	}

	if len(filtered) > cap {
		filtered = filtered[:cap]
	}

	r.Items = filtered
	r.UpdatedAt = time.Now().UTC()
}

// Remove deletes the entry for the product if present. Returns whether the
// list changed.
func (r *RecentlyViewed) Remove(productID string) bool {
	for i := range r.Items {
		if r.Items[i].ID == productID {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			r.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// Clear empties the history. Idempotent.
func (r *RecentlyViewed) Clear() {
	r.Items = []ProductSummary{}
	r.UpdatedAt = time.Now().UTC()
}

// Valid reports whether a hydrated history satisfies the invariants: valid
// summaries and no duplicate IDs. Length is not checked here; Add enforces
// the cap and a lowered cap simply trims on the next view.
func (r *RecentlyViewed) Valid() bool {
	seen := make(map[string]struct{}, len(r.Items))
	for _, item := range r.Items {
		if !item.Valid() {
			return false
		}
		if _, dup := seen[item.ID]; dup {
			return false
		}
		seen[item.ID] = struct{}{}
	}
	return true
}
