package admission

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// perIPLimiter hands out one token-bucket limiter per client IP, evicting
// nothing — admission traffic is low-cardinality enough (one entry per
// distinct player) that an unbounded map is simpler than an LRU here, unlike
// the device→room index in cache.DeviceRoomCache.
type perIPLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

func newPerIPLimiter(r rate.Limit, burst int) *perIPLimiter {
	return &perIPLimiter{limiters: make(map[string]*rate.Limiter), r: r, burst: burst}
}

func (p *perIPLimiter) get(ip string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[ip]
	if !ok {
		l = rate.NewLimiter(p.r, p.burst)
		p.limiters[ip] = l
	}
	return l
}

// RateLimitMiddleware throttles admission requests per client IP, guarding
// create_room/join_room against accidental retry storms from a
// disconnected client rather than against abuse.
func RateLimitMiddleware(r rate.Limit, burst int) gin.HandlerFunc {
	limiter := newPerIPLimiter(r, burst)
	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, appError{
				Code:    http.StatusTooManyRequests,
				Message: "too many requests",
			})
			return
		}
		c.Next()
	}
}
