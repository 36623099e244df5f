package handlers

import (
	"net/http"

	"github.com/Manakin-Wraith/MyJubilee/internal/models"
	"github.com/Manakin-Wraith/MyJubilee/internal/services"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// ShareHandler issues share links and serves the read-only shared view.
type ShareHandler struct {
	Service         *services.ShareService
	WishlistService *services.WishlistService
}

// NewShareHandler creates a new instance of ShareHandler.
func NewShareHandler(service *services.ShareService, wishlistService *services.WishlistService) *ShareHandler {
	return &ShareHandler{
		Service:         service,
		WishlistService: wishlistService,
	}
}

// GetShareLinkHandler returns the shareable locator for one of the
// authenticated user's wishlists. The locator itself is tokenless; only
// issuing it through this endpoint requires ownership.
func (h *ShareHandler) GetShareLinkHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	listID := mux.Vars(r)["id"]
	if _, err := h.WishlistService.GetByID(r.Context(), owner, listID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, map[string]string{
		"shareUrl": h.Service.BuildShareLocator(listID),
	})
}

// SharedListHandler serves the read-only shared view. No authentication, no
// ownership check: possession of the id is the whole access model. The
// response carries the full document plus the grouped display shape and
// never any edit affordance.
func (h *ShareHandler) SharedListHandler(w http.ResponseWriter, r *http.Request) {
	locator := r.URL.Query().Get(services.SharedListParam)
	if locator == "" {
		http.Error(w, "Missing sharedList parameter", http.StatusBadRequest)
		return
	}

	list, err := h.Service.ResolveSharedList(r.Context(), locator)
	if err != nil {
		log.WithField(services.SharedListParam, locator).WithError(err).Warn("Shared wishlist lookup failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, struct {
		*models.Wishlist
		Grouped  []models.CategoryGroup `json:"grouped"`
		ReadOnly bool                   `json:"read_only"`
	}{list, models.GroupItemsByCategory(list.Items), true})
}
