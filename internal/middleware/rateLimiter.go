package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/rgudla/research-assistant/internal/api"
	"github.com/rgudla/research-assistant/internal/config"
)

// ipRateLimiter keeps one token bucket per client IP. Ingestion and LLM
// calls are expensive enough that a small global default is the right
// starting point.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

var limiter = &ipRateLimiter{
	limiters: make(map[string]*rate.Limiter),
}

func (l *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, exists := l.limiters[ip]
	if !exists {
		lim = rate.NewLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)
		l.limiters[ip] = lim
	}
	return lim
}

func rateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !limiter.getLimiter(ip).Allow() {
			logger.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			if err := json.NewEncoder(w).Encode(api.ErrorResponse{
				Error: "too many requests",
				Code:  http.StatusTooManyRequests,
			}); err != nil {
				logger.Error("Failed encoding response", "error", err)
			}
			return
		}
		next.ServeHTTP(w, r)
	}
}
