package models

import (
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistItem is one desired item inside a wishlist. Items live entirely
// inside their parent wishlist document and have no collection of their own.
type WishlistItem struct {
	ID          string `bson:"id" json:"id"`
	Category    string `bson:"category" json:"category"`
	Description string `bson:"description" json:"description"`
	URL         string `bson:"url,omitempty" json:"url,omitempty"`
}

// Validate checks the required fields of an item before it is persisted.
func (i WishlistItem) Validate() error {
	if i.Category == "" {
		return fmt.Errorf("item must have a category")
	}
	if i.Description == "" {
		return fmt.Errorf("item must have a description")
	}
	return nil
}

// Wishlist is a named, user-owned collection of items. A zero ID means the
// list is still a local draft and has not been persisted yet.
type Wishlist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Items     []WishlistItem     `bson:"items" json:"items"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CategoryGroup is one display bucket produced by GroupItemsByCategory.
type CategoryGroup struct {
	Category string         `json:"category"`
	Items    []WishlistItem `json:"items"`
}

// GroupItemsByCategory buckets items by their category label. Categories are
// ordered by the first occurrence of each label in the input sequence, and
// items keep their relative order inside each bucket. The result is derived
// fresh on every call; nothing is cached.
func GroupItemsByCategory(items []WishlistItem) []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		pos, ok := index[item.Category]
		if !ok {
			index[item.Category] = len(groups)
			groups = append(groups, CategoryGroup{Category: item.Category})
			pos = len(groups) - 1
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}

	return groups
}

// NewItemID generates an item identifier from the given wall-clock instant.
// Uniqueness only has to hold within a single wishlist; callers bump the
// instant if the generated value collides with an existing item.
func NewItemID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}
