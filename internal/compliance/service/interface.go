package service

import (
	"github.com/allisson/paytrust/internal/compliance/domain"
)

// AuditSigner signs and verifies audit entries so the audit trail is tamper
// evident.
type AuditSigner interface {
	// Sign generates the HMAC signature for the audit entry.
	Sign(key []byte, entry *domain.AuditEntry) ([]byte, error)

	// Verify checks the entry's signature. Returns nil if valid,
	// domain.ErrAuditSignatureInvalid if the entry was tampered with.
	Verify(key []byte, entry *domain.AuditEntry) error
}
