// Package domain defines cryptographic domain models and errors.
package domain

import (
	"github.com/allisson/paytrust/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures.
var (
	// ErrMissingKey indicates no encryption key is available: neither an
	// explicit key parameter nor a configured default secret.
	//
	// This is a configuration error and fatal at construction time. The
	// process must refuse to start rather than fail lazily on the first
	// encrypt call.
	ErrMissingKey = errors.Wrap(errors.ErrConfiguration, "encryption key not configured")

	// ErrWeakKey indicates the configured secret provides fewer than 32
	// usable bytes of key material. Short secrets are rejected instead of
	// being silently truncated into weak keys.
	ErrWeakKey = errors.Wrap(errors.ErrConfiguration, "encryption secret must be at least 32 bytes")

	// ErrInvalidBlobFormat indicates the encrypted blob serialization is
	// malformed (wrong segment count or non-hex segments).
	ErrInvalidBlobFormat = errors.Wrap(errors.ErrInvalidInput, "invalid encrypted blob format")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong decryption key used
	//   - Ciphertext or tag tampered with (authentication failure)
	//   - Invalid IV provided
	//
	// Decryption fails closed: tampered input never yields partial or
	// guessed plaintext. For security reasons, the specific cause is not
	// disclosed to prevent information leakage.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrSignatureInvalid indicates a webhook payload signature does not
	// match the expected HMAC.
	ErrSignatureInvalid = errors.Wrap(errors.ErrUnauthorized, "signature invalid")
)
