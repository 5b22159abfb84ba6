// ABOUTME: Rate limiting middleware with per-client token buckets
// ABOUTME: Wraps golang.org/x/time/rate limiters keyed by client IP

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// idleTTL is how long an unused client bucket is kept
	idleTTL = 10 * time.Minute
	// sweepEvery is how many new buckets trigger an idle sweep
	sweepEvery = 100
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a sustained request rate per key with a burst equal to
// the per-minute limit. Each unique key gets an independent token bucket.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	created int
}

// NewRateLimiter allows perWindow requests per window for each key.
func NewRateLimiter(perWindow int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(float64(perWindow) / window.Seconds()),
		burst:   perWindow,
	}
}

// Allow takes a token from key's bucket. When none is left it reports false
// and how long until one will be.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := time.Now()

	rl.mu.Lock()
	b := rl.buckets[key]
	if b == nil {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
		if rl.created++; rl.created%sweepEvery == 0 {
			rl.sweep(now)
		}
	}
	b.lastSeen = now
	rl.mu.Unlock()

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep drops buckets idle for longer than idleTTL. rl.mu must be held.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, b := range rl.buckets {
		if now.Sub(b.lastSeen) > idleTTL {
			delete(rl.buckets, k)
		}
	}
}

// ClientIP keys a request by the leftmost X-Forwarded-For address when it
// parses, otherwise by the RemoteAddr host. Only trust this behind a proxy
// that overwrites X-Forwarded-For.
func ClientIP(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); first != "" {
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return "ip:" + addr.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// RateLimit rejects requests over the limiter's rate with 429 and a
// Retry-After header. A nil limiter or keyFunc disables it, and requests
// whose key is empty are never limited.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if limiter == nil || keyFunc == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			if ok, wait := limiter.Allow(key); !ok {
				seconds := int(math.Ceil(wait.Seconds()))
				slog.Warn("Rate limit exceeded", "key", key, "path", sanitizePath(r.URL.Path), "retry_after", seconds)
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				writeJSONError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next(w, r)
		}
	}
}
