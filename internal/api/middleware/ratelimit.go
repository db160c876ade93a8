package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apierrors "github.com/palemoky/songbook-catalog/internal/errors"
)

// ClientIdleTimeout is how long an unseen client's bucket is kept
const ClientIdleTimeout = 10 * time.Minute

// client is one caller's token bucket and the last time it was used
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rps       rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per client
// with bursts of up to burst requests.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (rl *RateLimiter) bucket(key string) (*rate.Limiter, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > ClientIdleTimeout {
		rl.prune(now.Add(-ClientIdleTimeout))
	}

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter, now
}

// Clients returns the number of tracked client keys
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Prune forgets clients not seen for longer than idle and returns how many
// were removed.
func (rl *RateLimiter) Prune(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return rl.prune(rl.now().Add(-idle))
}

func (rl *RateLimiter) prune(cutoff time.Time) int {
	removed := 0
	for key, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
			removed++
		}
	}
	rl.lastPrune = rl.now()
	return removed
}

// Middleware rejects requests over the client's budget with 429 and a
// Retry-After hint in whole seconds.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter, now := rl.bucket(c.ClientIP())

		r := limiter.ReserveN(now, 1)
		if delay := r.DelayFrom(now); !r.OK() || delay > 0 {
			r.CancelAt(now)
			if r.OK() {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			}
			c.AbortWithStatusJSON(apierrors.ErrRateLimited.HTTPStatus, gin.H{"error": apierrors.ErrRateLimited})
			return
		}

		c.Next()
	}
}
