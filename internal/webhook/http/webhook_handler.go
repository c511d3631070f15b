// Package http provides the payment-provider webhook endpoint. Webhooks are
// authenticated by HMAC signature rather than API key and every accepted
// payload is run through the compliance auditor.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	complianceDomain "github.com/allisson/paytrust/internal/compliance/domain"
	complianceUseCase "github.com/allisson/paytrust/internal/compliance/usecase"
	cryptoService "github.com/allisson/paytrust/internal/crypto/service"
	"github.com/allisson/paytrust/internal/httputil"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 signature of the raw
// webhook body.
const SignatureHeader = "X-Signature"

// WebhookHandler handles signed payment-provider webhook deliveries.
type WebhookHandler struct {
	verifier *cryptoService.SignatureVerifier
	secret   []byte
	auditor  complianceUseCase.ComplianceAuditor
	logger   *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with required dependencies.
func NewWebhookHandler(
	verifier *cryptoService.SignatureVerifier,
	secret []byte,
	auditor complianceUseCase.ComplianceAuditor,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		secret:   secret,
		auditor:  auditor,
		logger:   logger,
	}
}

// webhookPayload is the minimal envelope expected from the payment provider.
// The full payload is passed through to the auditor untyped.
type webhookPayload struct {
	RequestID string         `json:"request_id"`
	Method    string         `json:"method"`
	UserID    string         `json:"user_id"`
	Data      map[string]any `json:"data"`
}

// PaymentHandler verifies and audits a payment-provider webhook delivery.
// POST /v1/webhooks/payment
//
// The raw body is verified against the X-Signature header before any parsing.
// Every rejection is a generic 400: the response must not reveal whether the
// signature, the header, or the payload was the problem.
// Returns 202 Accepted with the compliance verdict for verified deliveries.
func (h *WebhookHandler) PaymentHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.reject(c, "failed to read webhook body", err)
		return
	}

	signature := c.GetHeader(SignatureHeader)
	if !h.verifier.Verify(body, signature, h.secret) {
		h.reject(c, "webhook signature verification failed", nil)
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.reject(c, "failed to parse webhook payload", err)
		return
	}
	if payload.Method == "" {
		h.reject(c, "webhook payload missing method", nil)
		return
	}

	result, err := h.auditor.Audit(c.Request.Context(), complianceDomain.AuditRequest{
		RequestID: payload.RequestID,
		Method:    payload.Method,
		Data:      payload.Data,
		UserID:    payload.UserID,
		IP:        c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":    "accepted",
		"compliant": result.Compliant,
	})
}

// reject writes the uniform 400 response for unverifiable deliveries. The
// reason is logged, never returned.
func (h *WebhookHandler) reject(c *gin.Context, reason string, err error) {
	h.logger.Warn(reason,
		slog.String("remote_addr", c.ClientIP()),
		slog.Any("error", err),
	)

	c.JSON(http.StatusBadRequest, httputil.ErrorResponse{
		Error:   "bad_request",
		Message: "Invalid webhook delivery",
	})
}
