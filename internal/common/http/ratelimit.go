package http

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hamworks/timesheet-system/internal/common/constants"
	"github.com/hamworks/timesheet-system/internal/observability/metrics"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP and drops buckets that
// have been idle longer than RateLimitIdleTTL.
type RateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}

	go rl.cleanupLimiters()

	return rl
}

// NewStrictRateLimiter is tuned for credential endpoints.
func NewStrictRateLimiter() *RateLimiter {
	return NewRateLimiter(5, 10)
}

func (rl *RateLimiter) cleanupLimiters() {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for key, cl := range rl.limiters {
			if time.Since(cl.lastSeen) > constants.RateLimitIdleTTL {
				delete(rl.limiters, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[clientIP]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[clientIP] = cl
	}
	cl.lastSeen = time.Now()

	return cl.limiter.Allow()
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(GetClientIP(r)) {
			metrics.RateLimitedRequests.WithLabelValues(r.URL.Path).Inc()
			WriteErrorEnvelope(w, http.StatusTooManyRequests, CodeRateLimited, "too many requests", nil, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
