package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func limitedRouter(cfg RateLimiterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(cfg).RateLimit())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func pingFrom(r *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitExceeded(t *testing.T) {
	r := limitedRouter(RateLimiterConfig{Rate: 1, Burst: 1})

	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(r, "10.0.0.1:1234"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	r := limitedRouter(RateLimiterConfig{Rate: 1, Burst: 1})

	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(r, "10.0.0.1:1234"))

	// A different client has its own bucket.
	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.2:1234"))
}

func TestRateLimitUnlimited(t *testing.T) {
	r := limitedRouter(RateLimiterConfig{Rate: rate.Inf, Burst: 0})

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1:1234"))
	}
}

func TestRateLimitIdleClientEvicted(t *testing.T) {
	r := limitedRouter(RateLimiterConfig{Rate: 1, Burst: 1, ClientTTL: 20 * time.Millisecond})

	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(r, "10.0.0.1:1234"))

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, http.StatusOK, pingFrom(r, "10.0.0.1:1234"))
}
