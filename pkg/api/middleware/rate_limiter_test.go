package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRequest(t *testing.T, rl *RateLimiter, ip string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	c := e.NewContext(req, httptest.NewRecorder())
	return rl.Middleware()(func(c echo.Context) error { return nil })(c)
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.NoError(t, limitedRequest(t, rl, "10.0.0.1"))
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	require.NoError(t, limitedRequest(t, rl, "10.0.0.1"))
	require.NoError(t, limitedRequest(t, rl, "10.0.0.1"))

	err := limitedRequest(t, rl, "10.0.0.1")
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
}

func TestRateLimiter_BurstBelowWindowBudget(t *testing.T) {
	// 100 per minute, but at most 2 back to back
	rl := NewRateLimiterWithBurst(100, 2, time.Minute)

	require.NoError(t, limitedRequest(t, rl, "10.0.0.1"))
	require.NoError(t, limitedRequest(t, rl, "10.0.0.1"))

	err := limitedRequest(t, rl, "10.0.0.1")
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
}

func TestRateLimiter_ZeroBurstFallsBack(t *testing.T) {
	rl := NewRateLimiterWithBurst(3, 0, time.Minute)

	for i := 0; i < 3; i++ {
		assert.NoError(t, limitedRequest(t, rl, "10.0.0.1"))
	}
	assert.Error(t, limitedRequest(t, rl, "10.0.0.1"))
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	require.NoError(t, limitedRequest(t, rl, "10.0.0.1"))
	assert.Error(t, limitedRequest(t, rl, "10.0.0.1"))

	// A different client still has its own budget
	assert.NoError(t, limitedRequest(t, rl, "10.0.0.2"))
}
