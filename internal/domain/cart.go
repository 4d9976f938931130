package domain

import "time"

// LineItem is one row in a cart: a product summary and how many of it.
type LineItem struct {
	ProductSummary
	Quantity int `json:"quantity"`
}

// Cart holds a shopper session's line items. Items keep insertion order; the
// aggregates are always derived from Items, never stored authoritatively.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	Version   int        `json:"version"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart returns an empty cart for the session.
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []LineItem{},
		UpdatedAt: time.Now().UTC(),
	}
}

// Subtotal is the sum of price*quantity over all line items, in cents.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities, not the number of distinct rows.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// findItem returns the index of the line item for the product, or -1.
func (c *Cart) findItem(productID string) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges a product into the cart. An existing row for the same
// product ID has its quantity incremented; otherwise a new row is appended.
// Quantities below one clamp to one, so misuse degrades to "add one" rather
// than corrupting the row.
func (c *Cart) AddItem(product ProductSummary, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	if i := c.findItem(product.ID); i >= 0 {
		c.Items[i].Quantity += quantity
		// Refresh the snapshot in case the catalog entry changed.
		c.Items[i].ProductSummary = product
	} else {
		c.Items = append(c.Items, LineItem{ProductSummary: product, Quantity: quantity})
	}

	c.UpdatedAt = time.Now().UTC()
}

// SetItemQuantity sets an absolute quantity for a row. A quantity below one
// removes the row entirely; an unknown product ID is a no-op. Returns whether
// the cart changed.
func (c *Cart) SetItemQuantity(productID string, quantity int) bool {
	i := c.findItem(productID)
	if i < 0 {
		return false
	}

	if quantity < 1 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
	}

	c.UpdatedAt = time.Now().UTC()
	return true
}

// RemoveItem deletes the row for the product if present. Returns whether the
// cart changed.
func (c *Cart) RemoveItem(productID string) bool {
	i := c.findItem(productID)
	if i < 0 {
		return false
	}

	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.UpdatedAt = time.Now().UTC()
	return true
}

// Clear empties the cart. Clearing an empty cart is a harmless no-op.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.UpdatedAt = time.Now().UTC()
}

// Valid reports whether a hydrated cart satisfies the store invariants:
// every row carries a valid summary, a positive quantity, and no product ID
// appears twice. Snapshots that fail this check are discarded in favor of an
// empty cart.
func (c *Cart) Valid() bool {
	seen := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if !item.ProductSummary.Valid() || item.Quantity < 1 {
			return false
		}
		if _, dup := seen[item.ID]; dup {
			return false
		}
		seen[item.ID] = struct{}{}
	}
	return true
}
