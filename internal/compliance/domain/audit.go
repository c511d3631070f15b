package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRequest is a single payment request/response exchange submitted for
// compliance auditing.
type AuditRequest struct {
	// RequestID optionally carries the caller's request correlation ID. When
	// it is not a valid UUID a fresh one is assigned during auditing.
	RequestID string
	// Method is the payment method name (e.g., "card").
	Method string
	// Data is the raw request payload. It is scanned for leaked secrets but
	// never logged or persisted by the auditor.
	Data map[string]any
	// UserID optionally identifies the end user for alert context.
	UserID string
	// IP optionally carries the caller address for alert context.
	IP string
}

// AuditResult is the verdict for one audited exchange. Compliant is true iff
// Violations is empty. It is ephemeral: created per call and not persisted
// beyond the log/alert sink.
type AuditResult struct {
	Compliant  bool     `json:"compliant"`
	Violations []string `json:"violations"`
	Warnings   []string `json:"warnings"`
}

// AuditEntry is the persisted, HMAC-signed record of one audited exchange.
// It carries only counts and masked identifiers; raw payment data never
// reaches the audit trail.
type AuditEntry struct {
	ID             uuid.UUID
	RequestID      uuid.UUID
	Method         string
	Compliant      bool
	ViolationCount int
	WarningCount   int
	UserID         string
	Metadata       map[string]any
	Signature      []byte
	CreatedAt      time.Time
}
