package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-optimizer/internal/apperrors"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter() (*SlidingWindowLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewSlidingWindowLimiter(AnalyzeWindow, AnalyzeMaxRequests)
	l.now = clock.Now
	return l, clock
}

func TestSlidingWindowLimiter_FourthRequestRejected(t *testing.T) {
	l, clock := newTestLimiter()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("10.0.0.1")
		assert.True(t, allowed, "request %d", i+1)
		clock.Advance(10 * time.Second)
	}

	allowed, retryAfter := l.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, 30*time.Second, retryAfter)

	allowed, _ = l.Allow("10.0.0.2")
	assert.True(t, allowed, "other addresses have their own budget")
}

func TestSlidingWindowLimiter_WindowElapses(t *testing.T) {
	l, clock := newTestLimiter()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("ip")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("ip")
	require.False(t, allowed)

	clock.Advance(AnalyzeWindow)

	allowed, _ = l.Allow("ip")
	assert.True(t, allowed)
}

func TestSlidingWindowLimiter_Slides(t *testing.T) {
	l, clock := newTestLimiter()

	l.Allow("ip")
	clock.Advance(40 * time.Second)
	l.Allow("ip")
	l.Allow("ip")

	clock.Advance(19 * time.Second)
	allowed, _ := l.Allow("ip")
	assert.False(t, allowed, "first request is still inside the window")

	clock.Advance(time.Second)
	allowed, _ = l.Allow("ip")
	assert.True(t, allowed, "first request just left the window")
}

func TestSlidingWindowLimiter_ConcurrentBurst(t *testing.T) {
	l, _ := newTestLimiter()

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("burst"); ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, AnalyzeMaxRequests, accepted)
}

func TestSlidingWindowLimiter_Cleanup(t *testing.T) {
	l, clock := newTestLimiter()
	l.Allow("a")
	l.Allow("b")
	require.Equal(t, 2, l.trackedKeys())

	clock.Advance(2 * AnalyzeWindow)
	l.Cleanup()

	assert.Equal(t, 0, l.trackedKeys())
}

func TestRateLimitMiddleware(t *testing.T) {
	l, _ := newTestLimiter()
	metrics := NewMetrics()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if apperrors.KindOf(err) == apperrors.KindTooManyRequests {
				status = fiber.StatusTooManyRequests
			}
			return c.Status(status).SendString(err.Error())
		},
	})
	app.Use(metrics.Track())
	app.Post("/api/analyze", RateLimit(l, metrics), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/analyze", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/analyze", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	snapshot := metrics.Snapshot()
	assert.EqualValues(t, 1, snapshot["rate_limited_total"])
	assert.EqualValues(t, 4, snapshot["requests_total"])
	assert.EqualValues(t, 3, snapshot["requests_success"])
	assert.EqualValues(t, 1, snapshot["requests_failed"])
}
