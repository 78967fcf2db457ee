package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	idleClientTTL     = 10 * time.Minute
)

// RateLimiter keeps one token bucket per client IP. Idle clients are evicted.
type RateLimiter struct {
	limiters  *expirable.LRU[string, *rate.Limiter]
	perMinute int
}

func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &RateLimiter{
		limiters:  expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, idleClientTTL),
		perMinute: perMinute,
	}
}

// Allow consumes one token for ip.
func (r *RateLimiter) Allow(ip string) bool {
	limiter, ok := r.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(r.perMinute)), r.perMinute)
	}
	// Re-adding refreshes the idle TTL.
	r.limiters.Add(ip, limiter)
	return limiter.Allow()
}

// RateLimitMiddleware limits requests per client IP to perMinute.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	limiter := NewRateLimiter(perMinute)
	return func(c *gin.Context) {
		ip := clientIP(c)
		if !limiter.Allow(ip) {
			getRequestLogger(c).Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	// First hop of X-Forwarded-For, then X-Real-IP, then the socket peer.
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
