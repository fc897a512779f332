package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newLimiter(t *testing.T, perMinute int) (*RateLimiter, *fakeClock) {
	t.Helper()
	rl := New(Config{MaxRequestsPerMinute: perMinute})
	t.Cleanup(rl.Stop)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl.now = clock.now
	return rl, clock
}

func allowed(rl *RateLimiter, key string) bool {
	ok, _ := rl.allow(key)
	return ok
}

func TestAllow_ExhaustsAndRefills(t *testing.T) {
	rl, clock := newLimiter(t, 2)

	assert.True(t, allowed(rl, "1.2.3.4"))
	assert.True(t, allowed(rl, "1.2.3.4"))
	assert.False(t, allowed(rl, "1.2.3.4"))
	assert.True(t, allowed(rl, "5.6.7.8"), "buckets are per key")

	clock.t = clock.t.Add(30 * time.Second)
	assert.True(t, allowed(rl, "1.2.3.4"))
	assert.False(t, allowed(rl, "1.2.3.4"))
}

func TestAllow_ReportsWaitUntilRefill(t *testing.T) {
	rl, clock := newLimiter(t, 2)
	allowed(rl, "1.2.3.4")
	allowed(rl, "1.2.3.4")

	clock.t = clock.t.Add(10 * time.Second)
	ok, wait := rl.allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 20*time.Second, wait)
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(500*time.Millisecond))
	assert.Equal(t, 2, retryAfterSeconds(1500*time.Millisecond))
	assert.Equal(t, 60, retryAfterSeconds(time.Minute))
}

func TestEvictIdle(t *testing.T) {
	rl, clock := newLimiter(t, 10)
	rl.allow("1.2.3.4")

	clock.t = clock.t.Add(11 * time.Minute)
	rl.evictIdle()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Empty(t, rl.buckets)
}

func TestMiddleware_Returns429(t *testing.T) {
	rl, _ := newLimiter(t, 1)
	app := fiber.New()
	app.Use(rl.Middleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}

func TestMiddleware_RetryAfterFollowsRefillRate(t *testing.T) {
	rl, _ := newLimiter(t, 120)
	app := fiber.New()
	app.Use(rl.Middleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	var resp *http.Response
	for i := 0; i <= 120; i++ {
		var err error
		resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
	}
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestStop_Idempotent(t *testing.T) {
	rl := New(Config{})
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
