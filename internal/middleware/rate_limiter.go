package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const defaultClientTTL = 3 * time.Minute

// RateLimiterConfig tunes per-client request limiting. ClientTTL bounds
// how long an idle client's bucket survives.
type RateLimiterConfig struct {
	Rate      rate.Limit
	Burst     int
	ClientTTL time.Duration
}

// RateLimiter applies a token bucket per client. Clients are keyed by
// IP because the browsable directory is served without a session, so
// the IP is the only identity every request carries.
type RateLimiter struct {
	config  RateLimiterConfig
	clients *cache.Cache
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.ClientTTL <= 0 {
		config.ClientTTL = defaultClientTTL
	}
	return &RateLimiter{
		config:  config,
		clients: cache.New(config.ClientTTL, 2*config.ClientTTL),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    http.StatusTooManyRequests,
					"message": "rate limit exceeded",
				},
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	if cached, ok := rl.clients.Get(key); ok {
		return cached.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	if err := rl.clients.Add(key, limiter, cache.DefaultExpiration); err != nil {
		// Another request for the same client got there first.
		if cached, ok := rl.clients.Get(key); ok {
			return cached.(*rate.Limiter)
		}
	}
	return limiter
}
