package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/bookline/booking-api/internal/handler"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/pkg/auth"
)

type stubHandler struct{}

func (stubHandler) RegisterRoutes(*gin.RouterGroup) {}

type stubDirectoryHandler struct{ stubHandler }

func (stubDirectoryHandler) RegisterProtectedRoutes(*gin.RouterGroup) {}

func TestRouterExportsRequestMetrics(t *testing.T) {
	authMw := middleware.NewAuthMiddleware(auth.NewTokenService("test-secret"))
	r := NewRouter(
		authMw,
		stubDirectoryHandler{},
		stubHandler{},
		stubHandler{},
		stubHandler{},
		stubHandler{},
		handler.NewHandler(nil),
		RouterConfig{
			RateLimit:     rate.Inf,
			RateBurst:     1,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "router_test",
		},
	)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	r.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["router_test_requests_total"])
	assert.True(t, names["router_test_request_duration_seconds"])
}
