// ABOUTME: HTTP handlers for the BESS design API
// ABOUTME: Shared handler state plus JSON request decoding and response helpers

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Simtestlab/bess-handbook/config"
	"github.com/Simtestlab/bess-handbook/models"
	"github.com/Simtestlab/bess-handbook/services"
	"github.com/Simtestlab/bess-handbook/store"
)

// maxRequestBodySize bounds design and report request bodies
const maxRequestBodySize = 1 << 20

type Handler struct {
	cfg    *config.Config
	engine *services.MemoEngine
	store  store.Store
	slot   string
	now    func() time.Time
}

// NewHandler creates the API handlers. A nil store serves defaults and
// reports every save as not persisted.
func NewHandler(cfg *config.Config, engine *services.MemoEngine, st store.Store) *Handler {
	h := &Handler{
		cfg:    cfg,
		engine: engine,
		store:  st,
		slot:   models.DefaultSlot,
		now:    time.Now,
	}
	if cfg != nil && cfg.DesignSlot != "" {
		h.slot = cfg.DesignSlot
	}
	return h
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err *services.ValidationError) {
	h.writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
		Error:      "Invalid design input",
		Details:    err.Error(),
		Violations: err.Violations,
		Code:       http.StatusUnprocessableEntity,
	})
}

// decodeDesign reads a DesignInput body onto the defaults. It writes the
// error response itself and reports whether decoding succeeded.
func (h *Handler) decodeDesign(w http.ResponseWriter, r *http.Request) (models.DesignInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	in := models.DefaultDesignInput()
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return models.DesignInput{}, false
		}
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return models.DesignInput{}, false
	}
	return in, true
}

// compute runs the engine and writes the error response on failure
func (h *Handler) compute(w http.ResponseWriter, in models.DesignInput) (models.DerivedResult, bool) {
	if h.engine == nil {
		h.writeError(w, "Design engine not configured", http.StatusServiceUnavailable)
		return models.DerivedResult{}, false
	}

	result, err := h.engine.Compute(in)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			h.writeValidationError(w, vErr)
			return models.DerivedResult{}, false
		}
		slog.Error("Design computation failed", "error", err)
		h.writeError(w, "Failed to compute design", http.StatusInternalServerError)
		return models.DerivedResult{}, false
	}
	return result, true
}

// slotParam returns the ?slot= query value or the configured slot
func (h *Handler) slotParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	slot := r.URL.Query().Get("slot")
	if slot == "" {
		return h.slot, true
	}
	if err := store.ValidateKey(slot); err != nil {
		h.writeError(w, "Invalid slot name", http.StatusBadRequest)
		return "", false
	}
	return slot, true
}
