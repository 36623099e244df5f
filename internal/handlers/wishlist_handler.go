package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Manakin-Wraith/MyJubilee/internal/models"
	"github.com/Manakin-Wraith/MyJubilee/internal/services"
	"github.com/Manakin-Wraith/MyJubilee/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistHandler handles HTTP requests for wishlists and their items.
type WishlistHandler struct {
	Service *services.WishlistService
}

// NewWishlistHandler creates a new instance of WishlistHandler.
func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{Service: service}
}

// writeServiceError maps service outcomes onto HTTP statuses. Store failures
// reach the client as a generic message; details stay in the log.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "Something went wrong, please try again", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func ownerID(r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// CommitDraftHandler persists a finished draft, items included, as one new
// wishlist document.
func (h *WishlistHandler) CommitDraftHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Name  string                `json:"name"`
		Items []models.WishlistItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	draft, err := h.Service.StartDraft(payload.Name, owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	created, err := h.Service.CommitDraft(r.Context(), draft, payload.Items)
	if err != nil {
		log.WithError(err).Error("Failed to commit wishlist draft")
		writeServiceError(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, created)
}

// GetWishlistsHandler returns all wishlists of the authenticated user,
// newest first.
func (h *WishlistHandler) GetWishlistsHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lists, err := h.Service.ListByOwner(r.Context(), owner)
	if err != nil {
		log.WithError(err).Error("Failed to fetch wishlists")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, lists)
}

// GetWishlistHandler returns one wishlist of the authenticated user, with
// items grouped by category for display.
func (h *WishlistHandler) GetWishlistHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := h.Service.GetByID(r.Context(), owner, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, struct {
		*models.Wishlist
		Grouped []models.CategoryGroup `json:"grouped"`
	}{list, models.GroupItemsByCategory(list.Items)})
}

// DeleteWishlistHandler deletes a wishlist and all its items.
func (h *WishlistHandler) DeleteWishlistHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Service.DeleteList(r.Context(), owner, mux.Vars(r)["id"]); err != nil {
		log.WithError(err).Warn("Failed to delete wishlist")
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Wishlist deleted successfully"))
}

// AddItemHandler appends a new item to a wishlist.
func (h *WishlistHandler) AddItemHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Category    string `json:"category"`
		Description string `json:"description"`
		URL         string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.AddItem(r.Context(), owner, mux.Vars(r)["id"], payload.Category, payload.Description, payload.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, updated)
}

// UpdateItemHandler replaces one item of a wishlist wholesale.
func (h *WishlistHandler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var replacement models.WishlistItem
	if err := json.NewDecoder(r.Body).Decode(&replacement); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	vars := mux.Vars(r)
	updated, err := h.Service.UpdateItem(r.Context(), owner, vars["id"], vars["itemId"], replacement)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, updated)
}

// RemoveItemHandler removes one item from a wishlist. Removing an item that
// is already gone succeeds.
func (h *WishlistHandler) RemoveItemHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	updated, err := h.Service.RemoveItem(r.Context(), owner, vars["id"], vars["itemId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, updated)
}
