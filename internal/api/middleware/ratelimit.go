package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained per-IP rate; zero disables limiting
	RequestsPerSecond float64
	// Burst is the per-IP bucket size
	Burst int
}

// ipLimiters tracks one token bucket per client IP. Entries are never
// evicted; the map is bounded by the distinct-client count, which is
// acceptable for a presale-sized audience.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	cfg      RateLimitConfig
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// RateLimit returns a gin middleware applying a per-IP token bucket
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	limiters := &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		cfg:      cfg,
	}

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests, please try again later",
				},
			})
			return
		}
		c.Next()
	}
}
