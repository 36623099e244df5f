package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Manakin-Wraith/MyJubilee/internal/services"
	"github.com/Manakin-Wraith/MyJubilee/pkg/email"
	"github.com/sirupsen/logrus"
)

// StaleThreshold is how long a wishlist may sit untouched before its owner
// gets a reminder.
const StaleThreshold = 30 * 24 * time.Hour

// StaleListNotifier reminds owners about wishlists they have not touched in
// a while.
type StaleListNotifier struct {
	WishlistService *services.WishlistService
	UserService     *services.UserService
	sendEmail       func(to, subject, body string) error
}

// NewStaleListNotifier creates a new instance of StaleListNotifier.
func NewStaleListNotifier(wishlistService *services.WishlistService, userService *services.UserService) *StaleListNotifier {
	return &StaleListNotifier{
		WishlistService: wishlistService,
		UserService:     userService,
		sendEmail:       email.SendEmail,
	}
}

// RunDailyScan finds wishlists idle past the threshold and emails each owner
// one reminder per list. Individual failures are logged and skipped; the
// scan itself keeps going.
func (n *StaleListNotifier) RunDailyScan(ctx context.Context) error {
	cutoff := time.Now().Add(-StaleThreshold)

	stale, err := n.WishlistService.ListStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to fetch stale wishlists: %v", err)
	}

	for _, list := range stale {
		owner, err := n.UserService.GetUser(ctx, list.UserID.Hex())
		if err != nil {
			logrus.WithError(err).WithField("wishlistID", list.ID.Hex()).Warn("Skipping reminder, owner lookup failed")
			continue
		}

		body := fmt.Sprintf(
			"Hi %s,\n\nYour wishlist \"%s\" has not been updated since %s. Drop by and keep it fresh!\n",
			owner.Username, list.Name, list.UpdatedAt.Format("Jan 2, 2006"),
		)
		if err := n.sendEmail(owner.Email, "Your wishlist misses you", body); err != nil {
			logrus.WithError(err).WithField("wishlistID", list.ID.Hex()).Warn("Failed to send reminder email")
			continue
		}

		logrus.WithFields(logrus.Fields{
			"wishlistID": list.ID.Hex(),
			"userID":     owner.ID.Hex(),
		}).Info("Stale wishlist reminder sent")
	}

	return nil
}
