// ABOUTME: Builds the API mux from the route table and middleware chain
// ABOUTME: Each route gets logging, CORS and a per-client rate limit

package handlers

import (
	"net/http"
	"time"

	"github.com/Simtestlab/bess-handbook/config"
	"github.com/Simtestlab/bess-handbook/middleware"
)

// NewServeMux registers every route with its middleware. Writes (POST, PUT)
// draw from the write limiter, everything else from the default limiter.
// Each path also answers CORS preflight requests.
func NewServeMux(h *Handler, cfg *config.Config) *http.ServeMux {
	var writeLimiter, defaultLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		writeLimiter = middleware.NewRateLimiter(cfg.RateLimitWrite, time.Minute)
		defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
	}
	cors := middleware.CORS(cfg.CORSAllowedOrigins)

	mux := http.NewServeMux()
	preflight := make(map[string]bool)
	for _, route := range h.Routes() {
		limiter := defaultLimiter
		if route.Method == http.MethodPost || route.Method == http.MethodPut {
			limiter = writeLimiter
		}

		mux.HandleFunc(route.Method+" "+route.Path, middleware.Chain(route.Handler,
			middleware.LogRequest,
			cors,
			middleware.RateLimit(limiter, middleware.ClientIP),
		))

		if !preflight[route.Path] {
			preflight[route.Path] = true
			mux.HandleFunc(http.MethodOptions+" "+route.Path, middleware.Chain(noContent,
				middleware.LogRequest,
				cors,
			))
		}
	}
	return mux
}

// noContent is reached only if CORS lets an OPTIONS request through
func noContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
