package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"internsaathi/internal/common"
	"internsaathi/internal/http/response"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

const maxIdleBuckets = 10000

// RateLimiter is the in-process Limiter: one token bucket per key, refilled
// at limit tokens per window.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{buckets: make(map[string]*rateBucket), now: time.Now}
}

func (r *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	bucket, ok := r.buckets[key]
	if !ok {
		if len(r.buckets) >= maxIdleBuckets {
			r.prune(now, window)
		}
		bucket = &rateBucket{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		r.buckets[key] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

// prune drops buckets idle for longer than window; those are full again anyway.
func (r *RateLimiter) prune(now time.Time, window time.Duration) {
	for key, bucket := range r.buckets {
		if now.Sub(bucket.lastSeen) > window {
			delete(r.buckets, key)
		}
	}
}

func RateLimit(limiter Limiter, keyFn func(*http.Request) string, limit int, window time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := keyFn(r)
			if key != "" && !limiter.Allow(key, limit, window) {
				response.Error(w, common.NewError(common.CodeRateLimited, "too many requests, try again later", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP prefers the first X-Forwarded-For hop set by the fronting proxy.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
