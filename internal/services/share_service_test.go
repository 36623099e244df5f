package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Manakin-Wraith/MyJubilee/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildShareLocator(t *testing.T) {
	svc := NewShareService(newFakeWishlistStore(), "https://myjubilee.app")

	locator := svc.BuildShareLocator("abc123")
	assert.Equal(t, "https://myjubilee.app/?sharedList=abc123", locator)

	// Deterministic: same id, same locator.
	assert.Equal(t, locator, svc.BuildShareLocator("abc123"))
}

func TestShareRoundTrip(t *testing.T) {
	store := newFakeWishlistStore()
	wishlists := newTestService(store)
	shares := NewShareService(store, "https://myjubilee.app")
	owner := primitive.NewObjectID()

	draft, err := wishlists.StartDraft("Birthday", owner)
	require.NoError(t, err)
	created, err := wishlists.CommitDraft(context.Background(), draft, []models.WishlistItem{
		{ID: "1", Category: "Shoes", Description: "Size 10 sneakers", URL: "https://example.com/s"},
		{ID: "2", Category: "Books", Description: "Cookbook"},
	})
	require.NoError(t, err)

	resolved, err := shares.ResolveSharedList(context.Background(), shares.BuildShareLocator(created.ID.Hex()))
	require.NoError(t, err)

	assert.Equal(t, created.Name, resolved.Name)
	require.Len(t, resolved.Items, 2)
	for i, item := range resolved.Items {
		assert.Equal(t, created.Items[i].Category, item.Category)
		assert.Equal(t, created.Items[i].Description, item.Description)
		assert.Equal(t, created.Items[i].URL, item.URL)
	}
}

func TestResolveSharedListAcceptsBareID(t *testing.T) {
	store := newFakeWishlistStore()
	wishlists := newTestService(store)
	shares := NewShareService(store, "https://myjubilee.app")
	list := seedList(t, wishlists, primitive.NewObjectID(), nil)

	resolved, err := shares.ResolveSharedList(context.Background(), list.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, list.ID, resolved.ID)
}

func TestResolveSharedListAfterDelete(t *testing.T) {
	store := newFakeWishlistStore()
	wishlists := newTestService(store)
	shares := NewShareService(store, "https://myjubilee.app")
	owner := primitive.NewObjectID()
	list := seedList(t, wishlists, owner, nil)

	locator := shares.BuildShareLocator(list.ID.Hex())
	require.NoError(t, wishlists.DeleteList(context.Background(), owner, list.ID.Hex()))

	// The locator outlives the list, but resolving it reports not-found
	// rather than a stale copy.
	_, err := shares.ResolveSharedList(context.Background(), locator)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveSharedListIgnoresOwnership(t *testing.T) {
	store := newFakeWishlistStore()
	wishlists := newTestService(store)
	shares := NewShareService(store, "https://myjubilee.app")
	list := seedList(t, wishlists, primitive.NewObjectID(), nil)

	// No session, no owner: a bare id read is the whole access model.
	resolved, err := shares.ResolveSharedList(context.Background(), list.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, list.UserID, resolved.UserID)
}

func TestResolveSharedListRejectsBadLocators(t *testing.T) {
	shares := NewShareService(newFakeWishlistStore(), "https://myjubilee.app")

	_, err := shares.ResolveSharedList(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = shares.ResolveSharedList(context.Background(), fmt.Sprintf("https://myjubilee.app/?other=%s", primitive.NewObjectID().Hex()))
	assert.ErrorIs(t, err, ErrValidation)
}
