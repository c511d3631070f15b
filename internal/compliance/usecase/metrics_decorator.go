package usecase

import (
	"context"
	"time"

	"github.com/allisson/paytrust/internal/compliance/domain"
	"github.com/allisson/paytrust/internal/metrics"
)

// complianceAuditorWithMetrics decorates ComplianceAuditor with metrics instrumentation.
type complianceAuditorWithMetrics struct {
	next    ComplianceAuditor
	metrics metrics.BusinessMetrics
}

// NewComplianceAuditorWithMetrics wraps a ComplianceAuditor with metrics recording.
func NewComplianceAuditorWithMetrics(auditor ComplianceAuditor, m metrics.BusinessMetrics) ComplianceAuditor {
	return &complianceAuditorWithMetrics{
		next:    auditor,
		metrics: m,
	}
}

// Audit records metrics for audit operations. A completed audit with a
// non-compliant verdict is still a successful operation; the verdict is
// recorded as its own status dimension.
func (c *complianceAuditorWithMetrics) Audit(
	ctx context.Context,
	req domain.AuditRequest,
) (*domain.AuditResult, error) {
	start := time.Now()
	result, err := c.next.Audit(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "compliance", "audit", status)
	c.metrics.RecordDuration(ctx, "compliance", "audit", time.Since(start), status)

	if err == nil && result != nil {
		verdict := "compliant"
		if !result.Compliant {
			verdict = "non_compliant"
		}
		c.metrics.RecordOperation(ctx, "compliance", "audit_verdict", verdict)
	}

	return result, err
}

// VerifyTrail records metrics for audit trail verification sweeps.
func (c *complianceAuditorWithMetrics) VerifyTrail(
	ctx context.Context,
	createdAtFrom, createdAtTo *time.Time,
) (*VerificationReport, error) {
	start := time.Now()
	report, err := c.next.VerifyTrail(ctx, createdAtFrom, createdAtTo)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "compliance", "verify_trail", status)
	c.metrics.RecordDuration(ctx, "compliance", "verify_trail", time.Since(start), status)

	return report, err
}
