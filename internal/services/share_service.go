package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Manakin-Wraith/MyJubilee/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SharedListParam is the query parameter carrying a shared wishlist id.
// Its presence at application start routes straight to the read-only view.
const SharedListParam = "sharedList"

// ShareService turns a wishlist id into a shareable locator and resolves
// such a locator back into read-only wishlist data. The locator carries no
// token and never expires: anyone holding the id can view the list. The
// resolve path performs no ownership check and exposes no mutations.
type ShareService struct {
	store  WishlistStore
	origin string
}

// NewShareService creates a new instance of ShareService. origin is the
// public base URL of the application, e.g. https://myjubilee.app.
func NewShareService(store WishlistStore, origin string) *ShareService {
	return &ShareService{
		store:  store,
		origin: origin,
	}
}

// BuildShareLocator derives the shareable URL for a wishlist id. The same id
// always yields the same locator.
func (s *ShareService) BuildShareLocator(wishlistID string) string {
	return fmt.Sprintf("%s/?%s=%s", s.origin, SharedListParam, url.QueryEscape(wishlistID))
}

// ResolveSharedList reads the wishlist behind a locator. It accepts either a
// full share URL or a bare wishlist id, reads the document by id, and returns
// it verbatim, items included. A missing document is ErrNotFound, never a
// stale copy.
func (s *ShareService) ResolveSharedList(ctx context.Context, locator string) (*models.Wishlist, error) {
	id := extractSharedID(locator)
	if id == "" {
		return nil, fmt.Errorf("%w: share locator carries no wishlist id", ErrValidation)
	}

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
	return list, nil
}

// extractSharedID pulls the wishlist id out of a locator. Bare ids pass
// through untouched.
func extractSharedID(locator string) string {
	parsed, err := url.Parse(locator)
	if err != nil {
		return locator
	}
	if id := parsed.Query().Get(SharedListParam); id != "" {
		return id
	}
	if parsed.Scheme == "" && parsed.Host == "" && parsed.RawQuery == "" {
		return locator
	}
	return ""
}
