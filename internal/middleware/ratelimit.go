package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-optimizer/internal/apperrors"
)

const (
	// AnalyzeWindow and AnalyzeMaxRequests bound /api/analyze per client address.
	AnalyzeWindow      = 60 * time.Second
	AnalyzeMaxRequests = 3

	rateLimitMessage = "Too many requests, please try again later."
)

// SlidingWindowLimiter accepts at most max requests per key within any
// window-long interval. Each key keeps the timestamps of its accepted requests.
type SlidingWindowLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string][]time.Time
	now     func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewSlidingWindowLimiter(window time.Duration, max int) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		window:  window,
		max:     max,
		entries: make(map[string][]time.Time),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

// Allow records a request for key when it fits in the window. When it does
// not, retryAfter is how long until the oldest accepted request expires.
func (l *SlidingWindowLimiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	hits := l.prune(key, now)

	if len(hits) >= l.max {
		return false, hits[0].Add(l.window).Sub(now)
	}

	l.entries[key] = append(hits, now)
	return true, 0
}

// prune drops expired timestamps for key. Callers hold l.mu.
func (l *SlidingWindowLimiter) prune(key string, now time.Time) []time.Time {
	hits := l.entries[key]
	cutoff := now.Add(-l.window)

	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	hits = hits[i:]

	if len(hits) == 0 {
		delete(l.entries, key)
		return nil
	}
	l.entries[key] = hits
	return hits
}

// Cleanup removes keys whose requests have all left the window.
func (l *SlidingWindowLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key := range l.entries {
		l.prune(key, now)
	}
}

// StartCleanup runs Cleanup every interval until Stop is called.
func (l *SlidingWindowLimiter) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-l.stop:
				return
			case <-ticker.C:
				l.Cleanup()
			}
		}
	}()
}

func (l *SlidingWindowLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *SlidingWindowLimiter) trackedKeys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// RateLimit rejects requests over the limiter's budget, keyed by client IP.
func RateLimit(limiter *SlidingWindowLimiter, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, retryAfter := limiter.Allow(c.IP())
		if allowed {
			return c.Next()
		}

		if metrics != nil {
			metrics.IncrementRateLimited()
		}

		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))

		return apperrors.New(apperrors.KindTooManyRequests, rateLimitMessage)
	}
}
