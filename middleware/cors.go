// ABOUTME: CORS middleware for API cross-origin requests
// ABOUTME: Echoes allow-listed origins and answers preflight OPTIONS requests

package middleware

import (
	"net/http"
	"slices"
)

const (
	corsAllowMethods = "GET, POST, PUT, OPTIONS"
	corsAllowHeaders = "Content-Type, X-Request-ID"
)

// CORS returns middleware that adds CORS headers for origins in allowed.
// An empty list blocks every cross-origin request; "*" allows all. Preflight
// requests are answered with 204 without calling the wrapped handler.
func CORS(allowed []string) Middleware {
	allowAll := slices.Contains(allowed, "*")

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			permitted := origin != "" && (allowAll || slices.Contains(allowed, origin))

			if permitted {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				if origin != "" && !permitted {
					writeJSONError(w, "Origin not allowed", http.StatusForbidden)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next(w, r)
		}
	}
}
