// Package http provides the HTTP server and shared middleware for the API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apikeyService "github.com/allisson/paytrust/internal/apikey/service"
	apperrors "github.com/allisson/paytrust/internal/errors"
	"github.com/allisson/paytrust/internal/httputil"
)

// APIKeyHeader carries the service API key on authenticated requests.
const APIKeyHeader = "X-API-Key"

// CustomLoggerMiddleware logs one line per request with the request id,
// method, route, status, and duration. Never logs request or response bodies;
// payloads may carry payment data.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.ClientIP()),
		)
	}
}

// RecoveryMiddleware recovers from handler panics and returns a generic 500.
// Panic values are logged but never exposed to the client.
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					slog.Any("error", err),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, httputil.ErrorResponse{
					Error:   "internal_error",
					Message: "An internal error occurred",
				})
			}
		}()

		c.Next()
	}
}

// SecurityHeadersMiddleware sets the response headers required on every
// endpoint that may carry payment data.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-PCI-Compliant", "true")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		c.Next()
	}
}

// APIKeyAuthMiddleware authenticates requests by comparing the X-API-Key
// header against the configured Argon2id hash.
//
// Error handling:
//   - Missing or empty header → 401 Unauthorized
//   - Key does not match the hash → 401 Unauthorized
//
// The Argon2id comparison is constant-time; the response never distinguishes
// a missing key from a wrong one.
func APIKeyAuthMiddleware(
	service apikeyService.APIKeyService,
	hashedKey string,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainKey := c.GetHeader(APIKeyHeader)
		if plainKey == "" {
			logger.Debug("authentication failed: missing api key header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !service.CompareKey(plainKey, hashedKey) {
			logger.Debug("authentication failed: invalid api key")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports process liveness.
// GET /health
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ReadinessHandler reports readiness to serve traffic by pinging the
// database. A nil pinger always reports ready.
// GET /ready
func ReadinessHandler(pinger Pinger, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger != nil {
			if err := pinger.PingContext(c.Request.Context()); err != nil {
				logger.Warn("readiness check failed", slog.Any("error", err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
