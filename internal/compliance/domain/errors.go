// Package domain defines compliance policy and audit domain models and errors.
package domain

import (
	"github.com/allisson/paytrust/internal/errors"
)

// Compliance domain error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for compliance failures.
var (
	// ErrInvalidPolicy indicates the compliance policy failed validation.
	// Policy errors are configuration errors and fatal at startup.
	ErrInvalidPolicy = errors.Wrap(errors.ErrConfiguration, "invalid compliance policy")

	// ErrAuditEntryNotFound indicates the requested audit entry was not found.
	ErrAuditEntryNotFound = errors.Wrap(errors.ErrNotFound, "audit entry not found")

	// ErrAuditSignatureInvalid indicates an audit entry signature does not match
	// its content, meaning the entry was tampered with after being written.
	ErrAuditSignatureInvalid = errors.Wrap(errors.ErrInvalidInput, "audit entry signature invalid")
)
