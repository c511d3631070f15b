// Package usecase implements compliance orchestration: per-exchange auditing
// against the active policy, alert escalation, and the signed audit trail.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/paytrust/internal/alert"
	"github.com/allisson/paytrust/internal/compliance/domain"
	"github.com/allisson/paytrust/internal/compliance/service"
)

// verifyTrailBatchSize is the repository page size for trail verification.
const verifyTrailBatchSize = 500

// complianceAuditor implements the ComplianceAuditor interface.
type complianceAuditor struct {
	policies      *domain.PolicyHolder
	redactor      *service.Redactor
	signer        service.AuditSigner
	signingSecret []byte
	auditRepo     AuditEntryRepository
	notifier      alert.Notifier
	logger        *slog.Logger
}

// NewComplianceAuditor creates a ComplianceAuditor with the provided
// dependencies. The signing secret is the service encryption secret; the
// signer derives a dedicated audit signing key from it.
func NewComplianceAuditor(
	policies *domain.PolicyHolder,
	redactor *service.Redactor,
	signer service.AuditSigner,
	signingSecret []byte,
	auditRepo AuditEntryRepository,
	notifier alert.Notifier,
	logger *slog.Logger,
) ComplianceAuditor {
	return &complianceAuditor{
		policies:      policies,
		redactor:      redactor,
		signer:        signer,
		signingSecret: signingSecret,
		auditRepo:     auditRepo,
		notifier:      notifier,
		logger:        logger,
	}
}

// Audit runs the compliance checks in fixed order against one exchange:
// method allow-list, raw card number scan, labeled CVV scan, transport
// encryption flag, tokenization requirement. The verdict is computed against
// a single policy snapshot; a concurrent policy swap never produces a
// mixed-policy result.
func (c *complianceAuditor) Audit(
	ctx context.Context,
	req domain.AuditRequest,
) (*domain.AuditResult, error) {
	policy := c.policies.Load()

	var violations []string
	var warnings []string

	// Step 1: payment method allow-list.
	if !policy.MethodAllowed(req.Method) {
		violations = append(violations, fmt.Sprintf("Payment method not allowed: %s", req.Method))
	}

	// Step 2: scan the serialized payload for leaked card data. A payload
	// that cannot be serialized cannot be inspected and is treated as a
	// violation rather than an error.
	serialized, err := json.Marshal(req.Data)
	if err != nil {
		violations = append(violations, "Request data could not be serialized for inspection")
	} else {
		text := string(serialized)
		if service.ContainsCardNumber(text) {
			violations = append(violations, "Raw card number detected in request")
		}
		if service.ContainsLabeledCVV(text) {
			violations = append(violations, "CVV code detected in request")
		}
	}

	// Step 3: transport encryption flag. Advisory only; encryption in
	// transit is normally enforced by TLS termination upstream.
	if policy.EnforceStrongEncryption && !truthy(req.Data["encrypted"]) {
		warnings = append(warnings, "Request data is not marked as encrypted")
	}

	// Step 4: tokenization requirement.
	if policy.RequireTokenization && !truthy(req.Data["token"]) && !truthy(req.Data["paymentMethodId"]) {
		violations = append(violations, "Tokenization required: request carries no token or payment method reference")
	}

	result := &domain.AuditResult{
		Compliant:  len(violations) == 0,
		Violations: violations,
		Warnings:   warnings,
	}

	// The audit log line carries only the masked user and counts, never the
	// payload.
	c.logger.InfoContext(ctx, "payment exchange audited",
		slog.String("method", req.Method),
		slog.Bool("compliant", result.Compliant),
		slog.Int("violations", len(violations)),
		slog.Int("warnings", len(warnings)),
		slog.String("user_id", domain.MaskIdentifier(req.UserID)),
		slog.String("merchant_id", policy.MaskedMerchantID()),
	)

	if !result.Compliant && policy.AlertOnSuspiciousActivity {
		// Best-effort escalation. A failing alert sink never fails the audit.
		_ = c.notifier.Notify(ctx, alert.Alert{
			Type:     "compliance_violation",
			Message:  "non-compliant payment exchange detected",
			Severity: alert.SeverityCritical,
			Context: map[string]any{
				"violations": violations,
				"warnings":   warnings,
				"userId":     req.UserID,
				"ip":         req.IP,
			},
		})
	}

	if policy.LogAllTransactions || !result.Compliant {
		c.persistEntry(ctx, req, result)
	}

	return result, nil
}

// persistEntry signs and stores the audit trail record for one verdict.
// Trail persistence is best-effort from the caller's perspective: a storage
// or signing failure is logged and escalated but never fails the audit.
func (c *complianceAuditor) persistEntry(
	ctx context.Context,
	req domain.AuditRequest,
	result *domain.AuditResult,
) {
	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		requestID = uuid.Must(uuid.NewV7())
	}

	entry := &domain.AuditEntry{
		ID:             uuid.Must(uuid.NewV7()),
		RequestID:      requestID,
		Method:         req.Method,
		Compliant:      result.Compliant,
		ViolationCount: len(result.Violations),
		WarningCount:   len(result.Warnings),
		UserID:         domain.MaskIdentifier(req.UserID),
		CreatedAt:      time.Now().UTC(),
	}
	if req.IP != "" {
		entry.Metadata = map[string]any{"ip": req.IP}
	}

	signature, err := c.signer.Sign(c.signingSecret, entry)
	if err != nil {
		c.failTrail(ctx, entry.ID, "failed to sign audit entry", err)
		return
	}
	entry.Signature = signature

	if err := c.auditRepo.Create(ctx, entry); err != nil {
		c.failTrail(ctx, entry.ID, "failed to persist audit entry", err)
	}
}

// failTrail reports a gap in the audit trail. The gap itself is a compliance
// incident, so it is escalated through the notifier in addition to the log.
func (c *complianceAuditor) failTrail(ctx context.Context, entryID uuid.UUID, msg string, err error) {
	c.logger.ErrorContext(ctx, msg,
		slog.String("entry_id", entryID.String()),
		slog.Any("error", err),
	)
	_ = c.notifier.Notify(ctx, alert.Alert{
		Type:     "audit_trail_gap",
		Message:  msg,
		Severity: alert.SeverityCritical,
		Context:  map[string]any{"entryId": entryID.String()},
	})
}

// VerifyTrail pages through the persisted audit trail and verifies every
// entry signature against the current signing secret.
func (c *complianceAuditor) VerifyTrail(
	ctx context.Context,
	createdAtFrom, createdAtTo *time.Time,
) (*VerificationReport, error) {
	report := &VerificationReport{}

	offset := 0
	for {
		entries, err := c.auditRepo.List(ctx, offset, verifyTrailBatchSize, createdAtFrom, createdAtTo)
		if err != nil {
			return nil, fmt.Errorf("failed to list audit entries: %w", err)
		}
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			report.TotalChecked++
			if err := c.signer.Verify(c.signingSecret, entry); err != nil {
				report.InvalidCount++
				report.InvalidEntries = append(report.InvalidEntries, entry.ID)
				continue
			}
			report.ValidCount++
		}

		offset += len(entries)
	}

	return report, nil
}

// truthy applies JSON-style truthiness to a decoded payload value: absent
// values, false, empty strings, and zero numbers are all falsy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}
