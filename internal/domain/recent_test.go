package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string) ProductSummary {
	return ProductSummary{ID: id, Name: "Product " + id, PriceCents: 100}
}

func TestRecentlyViewed_AddPrepends(t *testing.T) {
	r := NewRecentlyViewed("sess-1")

	r.Add(product("1"), DefaultRecentlyViewedCap)
	r.Add(product("2"), DefaultRecentlyViewedCap)

	require.Len(t, r.Items, 2)
	assert.Equal(t, "2", r.Items[0].ID)
	assert.Equal(t, "1", r.Items[1].ID)
}

func TestRecentlyViewed_RevisitPromotesToFront(t *testing.T) {
	r := NewRecentlyViewed("sess-1")
	r.Add(product("1"), DefaultRecentlyViewedCap)
	r.Add(product("2"), DefaultRecentlyViewedCap)
	r.Add(product("3"), DefaultRecentlyViewedCap)

	r.Add(product("1"), DefaultRecentlyViewedCap)

	require.Len(t, r.Items, 3, "revisit must not duplicate")
	assert.Equal(t, []string{"1", "3", "2"}, itemIDs(r))
	assert.True(t, r.Valid())
}

func TestRecentlyViewed_CapEvictsOldest(t *testing.T) {
	r := NewRecentlyViewed("sess-1")
	for i := 1; i <= 11; i++ {
		r.Add(product(fmt.Sprintf("%d", i)), DefaultRecentlyViewedCap)
	}

	require.Len(t, r.Items, 10)
	assert.Equal(t,
		[]string{"11", "10", "9", "8", "7", "6", "5", "4", "3", "2"},
		itemIDs(r),
		"id 1 is the oldest and must be evicted",
	)
}

func TestRecentlyViewed_BogusCapFallsBackToDefault(t *testing.T) {
	r := NewRecentlyViewed("sess-1")
	for i := 0; i < 15; i++ {
		r.Add(product(fmt.Sprintf("p%d", i)), 0)
	}
	assert.Len(t, r.Items, DefaultRecentlyViewedCap)
}

func TestRecentlyViewed_Remove(t *testing.T) {
	r := NewRecentlyViewed("sess-1")
	r.Add(product("1"), 10)
	r.Add(product("2"), 10)

	assert.True(t, r.Remove("1"))
	assert.Equal(t, []string{"2"}, itemIDs(r))
	assert.False(t, r.Remove("1"))
}

func TestRecentlyViewed_Clear_Idempotent(t *testing.T) {
	r := NewRecentlyViewed("sess-1")
	r.Add(product("1"), 10)

	r.Clear()
	r.Clear()

	assert.Empty(t, r.Items)
}

func TestRecentlyViewed_Valid(t *testing.T) {
	ok := RecentlyViewed{Items: []ProductSummary{product("1"), product("2")}}
	assert.True(t, ok.Valid())

	dup := RecentlyViewed{Items: []ProductSummary{product("1"), product("1")}}
	assert.False(t, dup.Valid())

	bad := RecentlyViewed{Items: []ProductSummary{{Name: "no id"}}}
	assert.False(t, bad.Valid())
}

func itemIDs(r *RecentlyViewed) []string {
	ids := make([]string, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.ID
	}
	return ids
}
