package daemon

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thand-io/components/internal/models"
	"golang.org/x/time/rate"
)

const (
	rateLimiterCleanupInterval = 5 * time.Minute
	rateLimiterIdleTimeout     = 10 * time.Minute
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	visitors      sync.Map // map[string]*visitor
	limit         rate.Limit
	burst         int
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// NewRateLimiter allows requestsPerMinute sustained requests per IP with
// bursts of up to burst requests. A non-positive burst is one request.
func NewRateLimiter(requestsPerMinute int, burst int) *RateLimiter {

	rl := &RateLimiter{
		limit:         rate.Limit(float64(requestsPerMinute) / 60),
		burst:         max(burst, 1),
		cleanupTicker: time.NewTicker(rateLimiterCleanupInterval),
		stopCleanup:   make(chan struct{}),
	}

	go rl.cleanup()

	logrus.WithFields(logrus.Fields{
		"requests_per_minute": requestsPerMinute,
		"burst":               rl.burst,
	}).Debugln("Rate limiter initialized")

	return rl
}

func (rl *RateLimiter) visitor(ip string) *visitor {
	value, _ := rl.visitors.LoadOrStore(ip, &visitor{
		limiter: rate.NewLimiter(rl.limit, rl.burst),
	})
	v := value.(*visitor)
	v.lastSeen.Store(time.Now().UnixNano())
	return v
}

// Allow reports whether a request from ip fits in its bucket and consumes
// a token when it does.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.visitor(ip).limiter.Allow()
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		ip := c.ClientIP()
		v := rl.visitor(ip)

		if !v.limiter.Allow() {

			LogWithCorrelation(c).WithFields(logrus.Fields{
				"ip":     ip,
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Warnln("Rate limit exceeded")

			retryAfter := time.Second
			if rl.limit > 0 {
				retryAfter = max(time.Duration(float64(time.Second)/float64(rl.limit)), time.Second)
			}

			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Code:    http.StatusTooManyRequests,
				Title:   "Too Many Requests",
				Message: "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}

// cleanup drops visitors idle for longer than rateLimiterIdleTimeout.
func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.evict(time.Now().Add(-rateLimiterIdleTimeout))
		case <-rl.stopCleanup:
			rl.cleanupTicker.Stop()
			return
		}
	}
}

func (rl *RateLimiter) evict(cutoff time.Time) int {
	count := 0
	rl.visitors.Range(func(key, value any) bool {
		if value.(*visitor).lastSeen.Load() < cutoff.UnixNano() {
			rl.visitors.Delete(key)
			count++
		}
		return true
	})

	if count > 0 {
		logrus.WithField("count", count).Debugln("Evicted idle rate limiter visitors")
	}

	return count
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Size returns the number of tracked IP addresses.
func (rl *RateLimiter) Size() int {
	count := 0
	rl.visitors.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
