package handlers

import (
	"net/http"

	"github.com/Manakin-Wraith/MyJubilee/internal/subscription"
	jwtutil "github.com/Manakin-Wraith/MyJubilee/pkg/jwt"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WishlistStreamHandler bridges the subscription hub to browsers over a
// websocket: each store change pushes the owner's complete, freshly sorted
// wishlist collection as one JSON frame.
type WishlistStreamHandler struct {
	Hub       *subscription.Hub
	JWTSecret string
}

// NewWishlistStreamHandler creates a new instance of WishlistStreamHandler.
func NewWishlistStreamHandler(hub *subscription.Hub, jwtSecret string) *WishlistStreamHandler {
	return &WishlistStreamHandler{
		Hub:       hub,
		JWTSecret: jwtSecret,
	}
}

// StreamWishlistsHandler upgrades the connection and streams snapshots until
// the client disconnects. Authentication is by token query parameter, since
// browsers cannot set headers on a websocket handshake.
func (h *WishlistStreamHandler) StreamWishlistsHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	owner, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusUnauthorized)
		return
	}

	// Subscribe before upgrading so a setup failure still reaches the
	// client as a regular HTTP error, surfaced once.
	sub, err := h.Hub.Subscribe(r.Context(), owner)
	if err != nil {
		log.WithError(err).Error("Failed to establish wishlist subscription")
		http.Error(w, "Failed to establish live updates", http.StatusInternalServerError)
		return
	}
	defer sub.Cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	log.WithField("userID", claims.UserID).Info("Wishlist stream connected")

	// Reader goroutine: the client sends nothing meaningful, but reading is
	// how we notice a disconnect and release the subscription.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-sub.Snapshots:
			if !ok {
				return
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				log.WithError(err).Warn("Failed to write wishlist snapshot")
				return
			}
		case <-done:
			log.WithField("userID", claims.UserID).Info("Wishlist stream disconnected")
			return
		}
	}
}
