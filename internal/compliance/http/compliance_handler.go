// Package http provides HTTP handlers for compliance operations: payload
// sanitization, exchange auditing, idempotency key derivation, and read access
// to the signed audit trail.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	complianceDomain "github.com/allisson/paytrust/internal/compliance/domain"
	complianceService "github.com/allisson/paytrust/internal/compliance/service"
	"github.com/allisson/paytrust/internal/compliance/http/dto"
	complianceUseCase "github.com/allisson/paytrust/internal/compliance/usecase"
	"github.com/allisson/paytrust/internal/httputil"
	idempotencyService "github.com/allisson/paytrust/internal/idempotency/service"
	customValidation "github.com/allisson/paytrust/internal/validation"
)

// ComplianceHandler handles HTTP requests for compliance operations.
type ComplianceHandler struct {
	auditor      complianceUseCase.ComplianceAuditor
	redactor     *complianceService.Redactor
	keyGenerator *idempotencyService.KeyGenerator
	logger       *slog.Logger
}

// NewComplianceHandler creates a new compliance handler with required dependencies.
func NewComplianceHandler(
	auditor complianceUseCase.ComplianceAuditor,
	redactor *complianceService.Redactor,
	keyGenerator *idempotencyService.KeyGenerator,
	logger *slog.Logger,
) *ComplianceHandler {
	return &ComplianceHandler{
		auditor:      auditor,
		redactor:     redactor,
		keyGenerator: keyGenerator,
		logger:       logger,
	}
}

// SanitizeHandler redacts sensitive values from a structured payload and/or
// free-form text.
// POST /v1/compliance/sanitize
// Returns 200 OK with the redacted content and the cumulative detection count.
func (h *ComplianceHandler) SanitizeHandler(c *gin.Context) {
	var req dto.SanitizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	response := dto.SanitizeResponse{}
	if req.Data != nil {
		response.Data = h.redactor.SanitizeStructured(req.Data)
	}
	if req.Text != "" {
		response.Text = h.redactor.RedactText(req.Text)
	}
	response.Detections = h.redactor.DetectionCount()

	c.JSON(http.StatusOK, response)
}

// AuditHandler audits one payment exchange against the active compliance policy.
// POST /v1/compliance/audit
// Returns 200 OK with the verdict; a non-compliant exchange is still a 200.
func (h *ComplianceHandler) AuditHandler(c *gin.Context) {
	var req dto.AuditExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.auditor.Audit(c.Request.Context(), complianceDomain.AuditRequest{
		RequestID: req.RequestID,
		Method:    req.Method,
		Data:      req.Data,
		UserID:    req.UserID,
		IP:        c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditResultToResponse(result))
}

// IdempotencyKeyHandler derives a deterministic idempotency key from a payload.
// POST /v1/compliance/idempotency-key
// Returns 200 OK with the key. Payloads differing only in sensitive values
// yield the same key within the same minute.
func (h *ComplianceHandler) IdempotencyKeyHandler(c *gin.Context) {
	var req dto.IdempotencyKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	key, err := h.keyGenerator.Generate(req.Data, time.Now().UTC())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.IdempotencyKeyResponse{Key: key})
}
