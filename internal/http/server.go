package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	artifactHTTP "github.com/allisson/paytrust/internal/artifact/http"
	complianceHTTP "github.com/allisson/paytrust/internal/compliance/http"
	webhookHTTP "github.com/allisson/paytrust/internal/webhook/http"
)

// RouterConfig carries the handlers and optional middleware for the API router.
// Nil optional middleware entries are skipped.
type RouterConfig struct {
	Logger *slog.Logger

	ComplianceHandler *complianceHTTP.ComplianceHandler
	AuditEntryHandler *complianceHTTP.AuditEntryHandler
	ArtifactHandler   *artifactHTTP.ArtifactHandler
	WebhookHandler    *webhookHTTP.WebhookHandler

	// Readiness is the dependency ping for /ready. Nil always reports ready.
	Readiness Pinger

	// APIKeyAuth protects the /v1 API group. Nil disables authentication.
	APIKeyAuth gin.HandlerFunc
	// WebhookRateLimit limits the webhook endpoint per IP. Nil disables it.
	WebhookRateLimit gin.HandlerFunc
	// CORS is the CORS middleware. Nil disables CORS.
	CORS gin.HandlerFunc
	// HTTPMetrics records request metrics. Nil disables it.
	HTTPMetrics gin.HandlerFunc
}

// Server represents the HTTP server for the API.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server with all routes registered.
func NewServer(host string, port int, cfg RouterConfig) *Server {
	router := newRouter(cfg)

	return &Server{
		logger: cfg.Logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// newRouter builds the gin engine with middleware and routes.
func newRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(requestid.New())
	router.Use(RecoveryMiddleware(cfg.Logger))
	router.Use(CustomLoggerMiddleware(cfg.Logger))
	router.Use(SecurityHeadersMiddleware())
	if cfg.CORS != nil {
		router.Use(cfg.CORS)
	}
	if cfg.HTTPMetrics != nil {
		router.Use(cfg.HTTPMetrics)
	}

	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler(cfg.Readiness, cfg.Logger))

	// Webhook deliveries authenticate by HMAC signature, not API key.
	webhooks := router.Group("/v1/webhooks")
	if cfg.WebhookRateLimit != nil {
		webhooks.Use(cfg.WebhookRateLimit)
	}
	webhooks.POST("/payment", cfg.WebhookHandler.PaymentHandler)

	v1 := router.Group("/v1")
	if cfg.APIKeyAuth != nil {
		v1.Use(cfg.APIKeyAuth)
	}

	v1.POST("/compliance/sanitize", cfg.ComplianceHandler.SanitizeHandler)
	v1.POST("/compliance/audit", cfg.ComplianceHandler.AuditHandler)
	v1.POST("/compliance/idempotency-key", cfg.ComplianceHandler.IdempotencyKeyHandler)

	v1.GET("/audit-entries", cfg.AuditEntryHandler.ListHandler)
	v1.GET("/audit-entries/:id", cfg.AuditEntryHandler.GetHandler)
	v1.POST("/audit-entries/verify", cfg.AuditEntryHandler.VerifyHandler)

	v1.POST("/artifacts", cfg.ArtifactHandler.CreateHandler)
	v1.GET("/artifacts/:id", cfg.ArtifactHandler.GetHandler)
	v1.DELETE("/artifacts/:id", cfg.ArtifactHandler.DeleteHandler)

	return router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
