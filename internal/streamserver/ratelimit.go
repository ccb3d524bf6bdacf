package streamserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/voxtrace/voxtrace/internal/config"
)

// rateLimiter hands out a token-bucket limiter per client IP, grounded
// on the teacher's per-identifier limiter map in
// core/internal/middleware/rate_limiter.go — trimmed to a single tier
// and no database-backed usage accounting, since this engine has no
// account model to bill against.
type rateLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*clientLimiter
	ttl      time.Duration
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newRateLimiter(cfg config.RateLimitConfig) *rateLimiter {
	rl := &rateLimiter{
		rps:      rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		limiters: make(map[string]*clientLimiter),
		ttl:      10 * time.Minute,
	}
	go rl.cleanup()
	return rl
}

// cleanup evicts limiters for clients that haven't been seen in ttl, so
// a long-running serve process doesn't accumulate one entry per
// distinct IP it has ever seen.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(rl.ttl)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, cl := range rl.limiters {
			if now.Sub(cl.lastAccess) > rl.ttl {
				delete(rl.limiters, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	cl, ok := rl.limiters[clientIP]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[clientIP] = cl
	}
	cl.lastAccess = time.Now()
	rl.mu.Unlock()

	return cl.limiter.Allow()
}

// Middleware rejects a request with 429 once the requesting client's
// token bucket (identified by remote IP) is exhausted. Registered only
// when cfg.RateLimit.Enabled is true.
func (rl *rateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
