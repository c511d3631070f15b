package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apikeyService "github.com/allisson/paytrust/internal/apikey/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingPinger always fails the readiness probe.
type failingPinger struct{}

func (f *failingPinger) PingContext(ctx context.Context) error {
	return errors.New("connection refused")
}

func performRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := performRequest(router, http.MethodGet, "/test")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-PCI-Compliant"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware(testLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("sensitive internal detail")
	})

	w := performRequest(router, http.MethodGet, "/panic")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
	assert.NotContains(t, w.Body.String(), "sensitive internal detail")
}

func TestHealthHandler(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthHandler)

	w := performRequest(router, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestReadinessHandler(t *testing.T) {
	t.Run("Success_NilPingerAlwaysReady", func(t *testing.T) {
		router := gin.New()
		router.GET("/ready", ReadinessHandler(nil, testLogger()))

		w := performRequest(router, http.MethodGet, "/ready")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ready")
	})

	t.Run("Error_PingFailureReportsNotReady", func(t *testing.T) {
		router := gin.New()
		router.GET("/ready", ReadinessHandler(&failingPinger{}, testLogger()))

		w := performRequest(router, http.MethodGet, "/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "not ready")
	})
}

func TestAPIKeyAuthMiddleware(t *testing.T) {
	service := apikeyService.NewAPIKeyService()
	plainKey, hashedKey, err := service.GenerateKey()
	require.NoError(t, err)

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(APIKeyAuthMiddleware(service, hashedKey, testLogger()))
		router.GET("/protected", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return router
	}

	t.Run("Success_ValidKey", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(APIKeyHeader, plainKey)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingKey", func(t *testing.T) {
		w := performRequest(newRouter(), http.MethodGet, "/protected")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_WrongKey", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(APIKeyHeader, "not-the-key")
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIPRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(IPRateLimitMiddleware(0.001, 2, testLogger()))
	router.GET("/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Burst of 2 allows the first two requests from one IP.
	for i := 0; i < 2; i++ {
		w := performRequest(router, http.MethodGet, "/limited")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := performRequest(router, http.MethodGet, "/limited")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}
