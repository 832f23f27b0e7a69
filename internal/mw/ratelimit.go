package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

// ClientKey buckets requests by bearer token, falling back to the client IP.
func ClientKey(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return auth
	}
	return c.ClientIP()
}

// KeyedLimiter holds one token bucket per key.
type KeyedLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	r       rate.Limit
	b       int
}

// NewKeyedLimiter creates a KeyedLimiter allowing r events per second with
// burst b for every key.
func NewKeyedLimiter(r rate.Limit, b int) *KeyedLimiter {
	return &KeyedLimiter{
		buckets: make(map[string]*rate.Limiter),
		r:       r,
		b:       b,
	}
}

// Limiter returns the bucket for key, creating it on first use.
func (k *KeyedLimiter) Limiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.buckets[key]
	if !ok {
		l = rate.NewLimiter(k.r, k.b)
		k.buckets[key] = l
	}
	return l
}

// RateLimiter rejects requests over the limit with 429 and a Retry-After hint.
func RateLimiter(limiter *KeyedLimiter, key KeyFunc) gin.HandlerFunc {
	if key == nil {
		key = ClientKey
	}
	return func(c *gin.Context) {
		l := limiter.Limiter(key(c))
		if !l.Allow() {
			retry := 1
			if lim := float64(l.Limit()); lim > 0 {
				retry = int(math.Ceil(1 / lim))
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  http.StatusTooManyRequests,
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
