package services

import (
	"context"
	"time"

	"github.com/Manakin-Wraith/MyJubilee/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistStore is the document-store surface the wishlist services need.
// Implemented by repository.WishlistRepository.
type WishlistStore interface {
	CreateWishlist(ctx context.Context, list *models.Wishlist) (*models.Wishlist, error)
	GetWishlistByID(ctx context.Context, id primitive.ObjectID) (*models.Wishlist, error)
	GetWishlistsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error)
	ReplaceItems(ctx context.Context, id primitive.ObjectID, items []models.WishlistItem, updatedAt time.Time) (*models.Wishlist, error)
	DeleteWishlist(ctx context.Context, id primitive.ObjectID) error
	GetWishlistsUpdatedBefore(ctx context.Context, cutoff time.Time) ([]models.Wishlist, error)
}

// UserStore is the document-store surface the user service needs.
// Implemented by repository.UserRepository.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error)
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error)
}
