// ABOUTME: Middleware type, chaining and the shared JSON error writer
// ABOUTME: Errors written here use the same ErrorResponse body as the handlers

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Simtestlab/bess-handbook/models"
)

// Middleware wraps a handler with extra behavior
type Middleware func(http.HandlerFunc) http.HandlerFunc

// Chain wraps h so the first middleware runs first:
// Chain(h, logging, cors) is logging(cors(h)).
func Chain(h http.HandlerFunc, middlewares ...Middleware) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// writeJSONError rejects a request before it reaches a handler
func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
