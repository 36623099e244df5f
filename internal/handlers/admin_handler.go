package handlers

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// ReminderScanner runs one pass of the stale-wishlist reminder job.
type ReminderScanner interface {
	RunDailyScan(ctx context.Context) error
}

// AdminHandler exposes operational endpoints reserved for the admin role.
type AdminHandler struct {
	Scanner ReminderScanner
}

// NewAdminHandler creates a new instance of AdminHandler.
func NewAdminHandler(scanner ReminderScanner) *AdminHandler {
	return &AdminHandler{Scanner: scanner}
}

// RunReminderScanHandler triggers the stale-wishlist reminder scan on demand,
// outside its daily schedule.
func (h *AdminHandler) RunReminderScanHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Scanner.RunDailyScan(r.Context()); err != nil {
		log.WithError(err).Error("Manual reminder scan failed")
		http.Error(w, "Reminder scan failed", http.StatusInternalServerError)
		return
	}

	log.Info("Manual reminder scan completed")
	writeJSON(w, map[string]string{"status": "completed"})
}
