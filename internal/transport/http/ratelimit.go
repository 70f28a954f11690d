package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/msgboard/internal/proto"
)

const errTooManyRequests = "Demasiadas solicitudes, intente más tarde"

// limiterIdleTTL is how long an IP's bucket may sit unused before it is
// evicted. Buckets refill completely within a minute, so eviction loses nothing.
const limiterIdleTTL = time.Minute

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	limiters  map[string]*ipLimiter
	lastSweep time.Time
	now       func() time.Time
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newIPRateLimiter allows perMinute requests per IP; zero or less disables limiting.
func newIPRateLimiter(perMinute int) *ipRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &ipRateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		limiters: make(map[string]*ipLimiter),
		now:      time.Now,
	}
}

func (r *ipRateLimiter) allow(ip string) bool {
	if r == nil {
		return true
	}
	now := r.now()

	r.mu.Lock()
	r.sweep(now)
	entry, ok := r.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.limiters[ip] = entry
	}
	entry.lastSeen = now
	r.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// sweep drops idle buckets at most once per limiterIdleTTL. Callers hold mu.
func (r *ipRateLimiter) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < limiterIdleTTL {
		return
	}
	r.lastSweep = now
	for ip, entry := range r.limiters {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(r.limiters, ip)
		}
	}
}

func (r *ipRateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

// RateLimitMiddleware rejects requests over the per-IP budget with 429.
func RateLimitMiddleware(limiter *ipRateLimiter, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			logger.Warn().Str("ip", c.ClientIP()).Str("path", c.Request.URL.Path).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, proto.ErrorResponse{Error: errTooManyRequests})
			return
		}
		c.Next()
	}
}
