package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProductSummary_Valid(t *testing.T) {
	assert.True(t, ProductSummary{ID: "p1", PriceCents: 0}.Valid())
	assert.False(t, ProductSummary{PriceCents: 100}.Valid(), "missing id")
	assert.False(t, ProductSummary{ID: "p1", PriceCents: -5}.Valid(), "negative price")
}

func TestProduct_Summary(t *testing.T) {
	p := Product{
		ID:          "jacket-9",
		Name:        "Adventure Touring Jacket",
		Slug:        "adventure-touring-jacket",
		Description: "CE level 2 armor",
		Category:    "jackets",
		Brand:       "Gearshed",
		PriceCents:  32999,
		Image:       "https://cdn.gearshed.test/jacket-9.jpg",
		Status:      ProductStatusPublished,
		CreatedAt:   time.Now().UTC(),
	}

	s := p.Summary()
	assert.Equal(t, p.ID, s.ID)
	assert.Equal(t, p.Name, s.Name)
	assert.Equal(t, p.PriceCents, s.PriceCents)
	assert.Equal(t, p.Image, s.Image)
	assert.Equal(t, p.Category, s.Category)
	assert.Equal(t, p.Description, s.Description)
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(ProductStatusDraft))
	assert.True(t, IsValidStatus(ProductStatusPublished))
	assert.True(t, IsValidStatus(ProductStatusArchived))
	assert.False(t, IsValidStatus("on-sale"))
	assert.False(t, IsValidStatus(""))
}
