package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/paytrust/internal/compliance/domain"
)

// ComplianceAuditor audits payment request/response exchanges against the
// active compliance policy and maintains the signed audit trail.
type ComplianceAuditor interface {
	// Audit runs the compliance checks against one exchange and returns the
	// verdict. Never fails for well-formed input; malformed payloads degrade
	// to a non-compliant verdict instead of an error.
	Audit(ctx context.Context, req domain.AuditRequest) (*domain.AuditResult, error)

	// VerifyTrail checks the HMAC signature of every persisted audit entry in
	// the given time range (nil means unbounded) and reports tampering.
	VerifyTrail(ctx context.Context, createdAtFrom, createdAtTo *time.Time) (*VerificationReport, error)
}

// AuditEntryRepository persists signed audit entries.
type AuditEntryRepository interface {
	// Create persists a new audit entry.
	Create(ctx context.Context, entry *domain.AuditEntry) error

	// GetByID retrieves an audit entry by its identifier.
	// Returns domain.ErrAuditEntryNotFound if no entry exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditEntry, error)

	// List retrieves audit entries ordered by created_at ascending with
	// pagination and optional inclusive time filters (nil means no filter).
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*domain.AuditEntry, error)

	// DeleteCreatedBefore removes audit entries created strictly before the
	// cutoff and returns the number of entries removed. Used by the retention
	// sweep.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// VerificationReport summarizes an audit trail signature sweep.
type VerificationReport struct {
	TotalChecked   int64
	ValidCount     int64
	InvalidCount   int64
	InvalidEntries []uuid.UUID
}
