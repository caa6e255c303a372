package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	e := echo.New()
	e.POST("/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimit(rl))

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	// burst of 2, then the bucket is empty
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Stop()
	rl.Stop()

	// a stopped limiter still limits; Stop only ends the cleanup loop
	assert.True(t, rl.get("10.0.0.1").Allow())
	assert.False(t, rl.get("10.0.0.1").Allow())
}
