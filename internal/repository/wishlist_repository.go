package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Manakin-Wraith/MyJubilee/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WishlistRepository handles database operations on the wishlists collection.
type WishlistRepository struct {
	collection *mongo.Collection
}

// NewWishlistRepository creates a new instance of WishlistRepository.
func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{collection: db.Collection("wishlists")}
}

// CreateWishlist persists a committed draft as one new document and assigns
// the store-generated ID. The whole list, items included, goes in as a single
// insert so a failed write leaves no partial document behind.
func (r *WishlistRepository) CreateWishlist(ctx context.Context, list *models.Wishlist) (*models.Wishlist, error) {
	result, err := r.collection.InsertOne(ctx, list)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert wishlist")
		return nil, fmt.Errorf("failed to create wishlist: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	list.ID = insertedID

	logrus.WithField("wishlistID", list.ID.Hex()).Info("Wishlist created successfully")
	return list, nil
}

// GetWishlistByID fetches a single wishlist document by its ID.
func (r *WishlistRepository) GetWishlistByID(ctx context.Context, id primitive.ObjectID) (*models.Wishlist, error) {
	var list models.Wishlist
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&list); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get wishlist: %v", err)
	}
	return &list, nil
}

// GetWishlistsByUser returns all wishlists owned by the given user, newest
// first. A user with no lists gets an empty slice, not an error.
func (r *WishlistRepository) GetWishlistsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlists: %v", err)
	}
	defer cursor.Close(ctx)

	lists := []models.Wishlist{}
	for cursor.Next(ctx) {
		var list models.Wishlist
		if err := cursor.Decode(&list); err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wishlists: %v", err)
	}

	return lists, nil
}

// ReplaceItems overwrites the full items array of a wishlist together with a
// refreshed updated_at, and returns the document as stored afterwards. The
// array is always rewritten wholesale; there is no per-element patching, so
// concurrent editors resolve as last writer wins at document granularity.
func (r *WishlistRepository) ReplaceItems(ctx context.Context, id primitive.ObjectID, items []models.WishlistItem, updatedAt time.Time) (*models.Wishlist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"items":      items,
		"updated_at": updatedAt,
	}}

	var updated models.Wishlist
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, err
		}
		logrus.WithError(err).Error("Failed to replace wishlist items")
		return nil, fmt.Errorf("failed to update wishlist: %v", err)
	}

	return &updated, nil
}

// DeleteWishlist removes a wishlist document, cascading to all of its items
// since they live inside the same document.
func (r *WishlistRepository) DeleteWishlist(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete wishlist: %v", err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetWishlistsUpdatedBefore returns every wishlist whose updated_at is older
// than the cutoff. Used by the stale-list reminder job.
func (r *WishlistRepository) GetWishlistsUpdatedBefore(ctx context.Context, cutoff time.Time) ([]models.Wishlist, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"updated_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return nil, fmt.Errorf("failed to get stale wishlists: %v", err)
	}
	defer cursor.Close(ctx)

	lists := []models.Wishlist{}
	for cursor.Next(ctx) {
		var list models.Wishlist
		if err := cursor.Decode(&list); err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, cursor.Err()
}

// Watch opens a change stream for every event touching the owner's wishlist
// documents. Delete events carry no full document, so they are matched for
// all owners; a spurious wake-up just triggers an extra re-query upstream.
func (r *WishlistRepository) Watch(ctx context.Context, userID primitive.ObjectID) (*mongo.ChangeStream, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"fullDocument.user_id": userID},
			bson.M{"operationType": "delete"},
		}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := r.collection.Watch(ctx, pipeline, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to open wishlist change stream")
		return nil, fmt.Errorf("failed to watch wishlists: %v", err)
	}
	return stream, nil
}
