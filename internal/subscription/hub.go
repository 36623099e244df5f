// Package subscription publishes live snapshots of an owner's wishlists.
// Every change at the store results in a complete re-sorted list pushed to
// the subscriber, never a delta, so a consumer always renders a fresh
// snapshot and a deleted list simply stops appearing.
package subscription

import (
	"context"
	"fmt"

	"github.com/Manakin-Wraith/MyJubilee/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lister re-queries the full owner list for each snapshot.
// Implemented by repository.WishlistRepository.
type Lister interface {
	GetWishlistsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error)
}

// ChangeStream is the change-feed surface the hub consumes.
// Satisfied by *mongo.ChangeStream.
type ChangeStream interface {
	Next(ctx context.Context) bool
	Close(ctx context.Context) error
	Err() error
}

// Watcher opens a change feed scoped to one owner's documents.
type Watcher interface {
	Watch(ctx context.Context, userID primitive.ObjectID) (ChangeStream, error)
}

// WatcherFunc adapts a function to the Watcher interface, letting a concrete
// repository method with its own stream type be wired in.
type WatcherFunc func(ctx context.Context, userID primitive.ObjectID) (ChangeStream, error)

func (f WatcherFunc) Watch(ctx context.Context, userID primitive.ObjectID) (ChangeStream, error) {
	return f(ctx, userID)
}

// Hub creates owner-scoped live subscriptions over a change feed.
type Hub struct {
	lister  Lister
	watcher Watcher
}

// NewHub creates a new instance of Hub.
func NewHub(lister Lister, watcher Watcher) *Hub {
	return &Hub{
		lister:  lister,
		watcher: watcher,
	}
}

// Subscription is a cancellable stream of full wishlist snapshots for one
// owner. Snapshots is closed once the subscription ends; Cancel must be
// called when the owning view goes away, so a stale owner never keeps
// receiving pushes.
type Subscription struct {
	Snapshots <-chan []models.Wishlist
	cancel    context.CancelFunc
}

// Cancel tears the subscription down and releases the underlying change feed.
// Safe to call more than once.
func (s *Subscription) Cancel() {
	s.cancel()
}

// Subscribe establishes a standing query for the owner's wishlists. The
// current snapshot is delivered first; afterwards every store change touching
// the owner's documents triggers a re-query and a fresh complete snapshot.
// Zero matching lists yield an empty snapshot, not an error. A setup failure
// is returned once, here, so the caller can surface it as a single
// banner-level error.
func (h *Hub) Subscribe(ctx context.Context, ownerID primitive.ObjectID) (*Subscription, error) {
	// The change feed must be open before the initial read, so a write
	// landing between the two still produces an event and a re-query.
	subCtx, cancel := context.WithCancel(ctx)
	stream, err := h.watcher.Watch(subCtx, ownerID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to establish live query: %v", err)
	}

	initial, err := h.lister.GetWishlistsByUser(ctx, ownerID)
	if err != nil {
		cancel()
		if cerr := stream.Close(context.Background()); cerr != nil {
			logrus.WithError(cerr).Warn("Failed to close wishlist change stream")
		}
		return nil, fmt.Errorf("failed to load initial snapshot: %v", err)
	}

	snapshots := make(chan []models.Wishlist, 1)
	snapshots <- initial

	go h.pump(subCtx, cancel, ownerID, stream, snapshots)

	return &Subscription{
		Snapshots: snapshots,
		cancel:    cancel,
	}, nil
}

// pump forwards change events as snapshots until the stream ends or the
// subscription is cancelled.
func (h *Hub) pump(ctx context.Context, cancel context.CancelFunc, ownerID primitive.ObjectID, stream ChangeStream, out chan []models.Wishlist) {
	defer close(out)
	defer cancel()
	defer func() {
		if err := stream.Close(context.Background()); err != nil {
			logrus.WithError(err).Warn("Failed to close wishlist change stream")
		}
	}()

	for stream.Next(ctx) {
		snapshot, err := h.lister.GetWishlistsByUser(ctx, ownerID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logrus.WithError(err).WithField("userID", ownerID.Hex()).Error("Failed to re-query wishlists for snapshot")
			continue
		}
		push(out, snapshot)
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		logrus.WithError(err).WithField("userID", ownerID.Hex()).Error("Wishlist change stream ended")
	}
}

// push delivers the latest snapshot without blocking on a slow consumer: a
// pending older snapshot is dropped in favor of the new one.
func push(out chan []models.Wishlist, snapshot []models.Wishlist) {
	for {
		select {
		case out <- snapshot:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
