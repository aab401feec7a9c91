package middlewares

import (
	"net/http"
	"sync"
	"time"

	"Warbler/api/config"
	"Warbler/api/monitoring"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle IP keeps its limiter.
const visitorTTL = 10 * time.Minute

// visitor holds the rate limiter and the last time we saw this IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	name    string
	limit   rate.Limit
	burst   int
	message string

	mu          sync.Mutex
	visitors    map[string]*visitor
	lastCleanup time.Time
}

func NewRateLimiter(name string, limit rate.Limit, burst int, message string) *RateLimiter {
	return &RateLimiter{
		name:        name,
		limit:       limit,
		burst:       burst,
		message:     message,
		visitors:    make(map[string]*visitor),
		lastCleanup: time.Now(),
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastCleanup) > visitorTTL {
		for key, v := range rl.visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(rl.visitors, key)
			}
		}
		rl.lastCleanup = now
	}

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getVisitor(c.ClientIP()).Allow() {
			monitoring.RateLimited.WithLabelValues(rl.name).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": http.StatusTooManyRequests,
				"error":  rl.message,
			})
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware applies the general per-IP limit.
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	return NewRateLimiter("general", rate.Limit(cfg.RequestsPerSecond), cfg.Burst,
		"Too many requests. Please slow down.").Middleware()
}

// LoginRateLimitMiddleware applies the stricter limit used on signup, login
// and password reset.
func LoginRateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	return NewRateLimiter("auth", rate.Every(cfg.AuthInterval), cfg.AuthBurst,
		"Too many authentication attempts. Please wait and try again.").Middleware()
}
