package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/paytrust/internal/compliance/http/dto"
	complianceUseCase "github.com/allisson/paytrust/internal/compliance/usecase"
	"github.com/allisson/paytrust/internal/httputil"
)

// AuditEntryHandler handles HTTP read and verification access to the signed
// audit trail. Entries are append-only; there is no write endpoint, the
// auditor is the only writer.
type AuditEntryHandler struct {
	auditor   complianceUseCase.ComplianceAuditor
	auditRepo complianceUseCase.AuditEntryRepository
	logger    *slog.Logger
}

// NewAuditEntryHandler creates a new audit entry handler with required dependencies.
func NewAuditEntryHandler(
	auditor complianceUseCase.ComplianceAuditor,
	auditRepo complianceUseCase.AuditEntryRepository,
	logger *slog.Logger,
) *AuditEntryHandler {
	return &AuditEntryHandler{
		auditor:   auditor,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// GetHandler retrieves a single audit entry by its identifier.
// GET /v1/audit-entries/:id
// Returns 200 OK with the entry, 404 if it does not exist.
func (h *AuditEntryHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid id parameter: must be a valid UUID"),
			h.logger,
		)
		return
	}

	entry, err := h.auditRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEntryToResponse(entry))
}

// ListHandler retrieves audit entries with pagination and optional time filters.
// GET /v1/audit-entries?offset=0&limit=50&created_at_from=...&created_at_to=...
// Time filters are inclusive RFC 3339 timestamps.
func (h *AuditEntryHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	from, err := parseTimeQuery(c, "created_at_from")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	to, err := parseTimeQuery(c, "created_at_to")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.auditRepo.List(c.Request.Context(), offset, limit, from, to)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEntriesToListResponse(entries))
}

// VerifyHandler checks the HMAC signature of every audit entry in an optional
// time range and reports tampering.
// POST /v1/audit-entries/verify?created_at_from=...&created_at_to=...
// Returns 200 OK with the verification report.
func (h *AuditEntryHandler) VerifyHandler(c *gin.Context) {
	from, err := parseTimeQuery(c, "created_at_from")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	to, err := parseTimeQuery(c, "created_at_to")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	report, err := h.auditor.VerifyTrail(c.Request.Context(), from, to)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVerificationReportToResponse(report))
}

// parseTimeQuery parses an optional RFC 3339 time query parameter. Returns nil
// when the parameter is absent.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter: must be an RFC 3339 timestamp", name)
	}
	return &parsed, nil
}
