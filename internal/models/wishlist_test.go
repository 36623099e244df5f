package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    WishlistItem
		wantErr bool
	}{
		{"valid", WishlistItem{Category: "Shoes", Description: "Size 10 sneakers"}, false},
		{"valid with url", WishlistItem{Category: "Books", Description: "Go novel", URL: "https://example.com/b"}, false},
		{"missing category", WishlistItem{Description: "Size 10 sneakers"}, true},
		{"missing description", WishlistItem{Category: "Shoes"}, true},
		{"empty", WishlistItem{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGroupItemsByCategory(t *testing.T) {
	items := []WishlistItem{
		{ID: "1", Category: "Shoes", Description: "Sneakers"},
		{ID: "2", Category: "Books", Description: "Cookbook"},
		{ID: "3", Category: "Shoes", Description: "Boots"},
		{ID: "4", Category: "Games", Description: "Chess set"},
		{ID: "5", Category: "Books", Description: "Novel"},
	}

	groups := GroupItemsByCategory(items)

	require.Len(t, groups, 3)

	// Categories follow first occurrence order in the input sequence.
	assert.Equal(t, "Shoes", groups[0].Category)
	assert.Equal(t, "Books", groups[1].Category)
	assert.Equal(t, "Games", groups[2].Category)

	// Items keep their relative order inside each bucket.
	assert.Equal(t, []string{"1", "3"}, itemIDs(groups[0].Items))
	assert.Equal(t, []string{"2", "5"}, itemIDs(groups[1].Items))
	assert.Equal(t, []string{"4"}, itemIDs(groups[2].Items))
}

func TestGroupItemsByCategoryIdempotent(t *testing.T) {
	items := []WishlistItem{
		{ID: "1", Category: "A", Description: "x"},
		{ID: "2", Category: "B", Description: "y"},
		{ID: "3", Category: "A", Description: "z"},
	}

	first := GroupItemsByCategory(items)
	second := GroupItemsByCategory(items)

	assert.Equal(t, first, second)
}

func TestGroupItemsByCategoryEmpty(t *testing.T) {
	assert.Empty(t, GroupItemsByCategory(nil))
	assert.Empty(t, GroupItemsByCategory([]WishlistItem{}))
}

func TestNewItemID(t *testing.T) {
	at := time.UnixMilli(1730000000123)
	assert.Equal(t, "1730000000123", NewItemID(at))
	assert.NotEqual(t, NewItemID(at), NewItemID(at.Add(time.Millisecond)))
}

func itemIDs(items []WishlistItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
