// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports store backend, active slot and memoized result count

package handlers

import (
	"net/http"

	"github.com/Simtestlab/bess-handbook/models"
)

// Health returns API health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:       "ok",
		StoreBackend: "none",
		Slot:         h.slot,
	}
	if h.store != nil && h.cfg != nil {
		resp.StoreBackend = h.cfg.StoreBackend
	}
	if h.engine != nil {
		resp.CacheEntries = h.engine.Len()
	}

	h.writeJSON(w, http.StatusOK, resp)
}
