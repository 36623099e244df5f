package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Manakin-Wraith/MyJubilee/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WishlistService encapsulates the business logic for wishlists and their
// items: drafting and committing new lists, and editing the item collection
// of an open list.
type WishlistService struct {
	store WishlistStore
	now   func() time.Time
}

// NewWishlistService creates a new instance of WishlistService.
func NewWishlistService(store WishlistStore) *WishlistService {
	return &WishlistService{
		store: store,
		now:   time.Now,
	}
}

// StartDraft builds an unpersisted wishlist owned by the given user. The
// draft stays with the caller while items are collected; nothing is written
// until CommitDraft.
func (s *WishlistService) StartDraft(name string, userID primitive.ObjectID) (*models.Wishlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: wishlist must have a name", ErrValidation)
	}
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: wishlist must have an owner", ErrValidation)
	}

	now := s.now()
	return &models.Wishlist{
		Name:      name,
		Items:     []models.WishlistItem{},
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CommitDraft persists a draft together with its collected items as one new
// document. On failure the caller keeps the draft for retry and no partial
// document exists at the store.
func (s *WishlistService) CommitDraft(ctx context.Context, draft *models.Wishlist, items []models.WishlistItem) (*models.Wishlist, error) {
	if draft == nil || draft.Name == "" {
		return nil, fmt.Errorf("%w: wishlist must have a name", ErrValidation)
	}
	if draft.UserID.IsZero() {
		return nil, fmt.Errorf("%w: wishlist must have an owner", ErrValidation)
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	if items == nil {
		items = []models.WishlistItem{}
	}

	list := *draft
	list.ID = primitive.NilObjectID
	list.Items = items
	list.UpdatedAt = s.now()

	created, err := s.store.CreateWishlist(ctx, &list)
	if err != nil {
		logrus.WithError(err).Error("Failed to commit wishlist draft")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"wishlistID": created.ID.Hex(),
		"userID":     created.UserID.Hex(),
		"items":      len(created.Items),
	}).Info("Wishlist draft committed")
	return created, nil
}

// ListByOwner returns the owner's wishlists, newest first.
func (s *WishlistService) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Wishlist, error) {
	return s.store.GetWishlistsByUser(ctx, ownerID)
}

// GetByID fetches one wishlist and enforces ownership for the authenticated
// detail view. The shared read-only path goes through ShareService instead.
func (s *WishlistService) GetByID(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Wishlist, error) {
	list, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteList removes a wishlist and all of its items. Deletion is confirmed
// by the store before the caller drops the list locally; a failed delete
// leaves everything as it was.
func (s *WishlistService) DeleteList(ctx context.Context, ownerID primitive.ObjectID, id string) error {
	list, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteWishlist(ctx, list.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: wishlist %s", ErrNotFound, id)
		}
		logrus.WithError(err).WithField("wishlistID", id).Error("Failed to delete wishlist")
		return err
	}

	logrus.WithField("wishlistID", id).Info("Wishlist deleted")
	return nil
}

// AddItem validates and appends a new item to the wishlist, rewriting the
// whole items array at the store. The local copy is never mutated before the
// write succeeds, so a failure leaves nothing to roll back.
func (s *WishlistService) AddItem(ctx context.Context, ownerID primitive.ObjectID, listID, category, description, url string) (*models.Wishlist, error) {
	item := models.WishlistItem{
		Category:    category,
		Description: description,
		URL:         url,
	}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	list, err := s.getOwned(ctx, ownerID, listID)
	if err != nil {
		return nil, err
	}

	item.ID = s.freshItemID(list.Items)
	items := append(append([]models.WishlistItem{}, list.Items...), item)

	return s.writeItems(ctx, list.ID, items)
}

// UpdateItem replaces the item with the given id wholesale. Fields absent
// from the replacement are gone afterwards; two sequential updates resolve
// as last write wins, not as a merge.
func (s *WishlistService) UpdateItem(ctx context.Context, ownerID primitive.ObjectID, listID, itemID string, replacement models.WishlistItem) (*models.Wishlist, error) {
	if err := replacement.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	list, err := s.getOwned(ctx, ownerID, listID)
	if err != nil {
		return nil, err
	}

	found := false
	items := make([]models.WishlistItem, len(list.Items))
	for i, existing := range list.Items {
		if existing.ID == itemID {
			replacement.ID = itemID
			items[i] = replacement
			found = true
			continue
		}
		items[i] = existing
	}
	if !found {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
	}

	return s.writeItems(ctx, list.ID, items)
}

// RemoveItem filters an item out of the wishlist. Removing an id that is
// already absent is a no-op, not an error; the filtered array and timestamp
// are written either way.
func (s *WishlistService) RemoveItem(ctx context.Context, ownerID primitive.ObjectID, listID, itemID string) (*models.Wishlist, error) {
	list, err := s.getOwned(ctx, ownerID, listID)
	if err != nil {
		return nil, err
	}

	items := make([]models.WishlistItem, 0, len(list.Items))
	for _, existing := range list.Items {
		if existing.ID != itemID {
			items = append(items, existing)
		}
	}

	return s.writeItems(ctx, list.ID, items)
}

// ListStale returns wishlists untouched since the cutoff, for the reminder job.
func (s *WishlistService) ListStale(ctx context.Context, cutoff time.Time) ([]models.Wishlist, error) {
	return s.store.GetWishlistsUpdatedBefore(ctx, cutoff)
}

func (s *WishlistService) getOwned(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Wishlist, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid wishlist ID", ErrValidation)
	}

	list, err := s.store.GetWishlistByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: wishlist %s", ErrNotFound, id)
		}
		return nil, err
	}
	if list.UserID != ownerID {
		return nil, fmt.Errorf("%w: wishlist %s belongs to another user", ErrForbidden, id)
	}
	return list, nil
}

func (s *WishlistService) writeItems(ctx context.Context, id primitive.ObjectID, items []models.WishlistItem) (*models.Wishlist, error) {
	updated, err := s.store.ReplaceItems(ctx, id, items, s.now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: wishlist %s", ErrNotFound, id.Hex())
		}
		logrus.WithError(err).WithField("wishlistID", id.Hex()).Error("Failed to write wishlist items")
		return nil, err
	}
	return updated, nil
}

// freshItemID derives a clock-based item id and nudges it forward until it
// does not collide with any item already in the list.
func (s *WishlistService) freshItemID(items []models.WishlistItem) string {
	taken := make(map[string]bool, len(items))
	for _, item := range items {
		taken[item.ID] = true
	}

	at := s.now()
	id := models.NewItemID(at)
	for taken[id] {
		at = at.Add(time.Millisecond)
		id = models.NewItemID(at)
	}
	return id
}
