// ABOUTME: HTTP handlers for computing, loading and saving BESS designs
// ABOUTME: Validation failures return 422 with one violation per offending field

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Simtestlab/bess-handbook/middleware"
	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/store"
)

// GetDefaults returns the default design input.
func (h *Handler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.DefaultDesignInput())
}

// ComputeDesign derives the result for the posted input without saving it.
func (h *Handler) ComputeDesign(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeDesign(w, r)
	if !ok {
		return
	}

	result, ok := h.compute(w, in)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// GetDesign returns the persisted input of a slot, or the defaults when the
// slot is empty or unreadable, together with its result.
func (h *Handler) GetDesign(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	in, persisted := h.load(r, slot)
	result, ok := h.compute(w, in)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, models.DesignResponse{
		Slot:      slot,
		Input:     in,
		Result:    result,
		Persisted: persisted,
		Timestamp: h.now(),
	})
}

// SaveDesign validates and computes the posted input, then saves it. A save
// failure is logged and reported as persisted=false; the result is still returned.
func (h *Handler) SaveDesign(w http.ResponseWriter, r *http.Request) {
	slot, ok := h.slotParam(w, r)
	if !ok {
		return
	}

	in, ok := h.decodeDesign(w, r)
	if !ok {
		return
	}

	result, ok := h.compute(w, in)
	if !ok {
		return
	}

	persisted := false
	if h.store != nil {
		persisted = store.SaveOrReport(r.Context(), h.store, slot, in)
	}
	if !persisted {
		slog.Warn("Design not persisted", "slot", slot, "request_id", middleware.RequestID(r.Context()))
	}

	h.writeJSON(w, http.StatusOK, models.DesignResponse{
		Slot:      slot,
		Input:     in,
		Result:    result,
		Persisted: persisted,
		Timestamp: h.now(),
	})
}

// load reads a slot, reporting whether a stored document was found
func (h *Handler) load(r *http.Request, slot string) (models.DesignInput, bool) {
	if h.store == nil {
		return models.DefaultDesignInput(), false
	}

	in, err := h.store.Load(r.Context(), slot)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("Failed to load design, using defaults", "slot", slot, "error", err)
		}
		return models.DefaultDesignInput(), false
	}
	return in, true
}
