package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/allisson/paytrust/internal/compliance/domain"
	cryptoDomain "github.com/allisson/paytrust/internal/crypto/domain"
)

type auditSigner struct{}

// NewAuditSigner creates a new HMAC-based audit entry signer using HKDF-SHA256
// for key derivation and HMAC-SHA256 for signature generation.
func NewAuditSigner() AuditSigner {
	return &auditSigner{}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// service secret. Separates encryption key usage from signing key usage.
// Info parameter: "audit-entry-signing-v1" (versioned for future algorithm changes).
func (a *auditSigner) deriveSigningKey(secret []byte) ([]byte, error) {
	info := []byte("audit-entry-signing-v1")
	hash := sha256.New
	hkdf := hkdf.New(hash, secret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalizeEntry converts an audit entry to canonical byte representation
// for signing. Uses length-prefixed encoding for variable-length fields to
// prevent ambiguity.
func (a *auditSigner) canonicalizeEntry(entry *domain.AuditEntry) ([]byte, error) {
	buf := make([]byte, 0, 512)

	// Append UUIDs (16 bytes each)
	buf = append(buf, entry.ID[:]...)
	buf = append(buf, entry.RequestID[:]...)

	// Append method and user id (length-prefixed)
	buf = appendLengthPrefixed(buf, []byte(entry.Method))
	buf = appendLengthPrefixed(buf, []byte(entry.UserID))

	// Append verdict and counts
	if entry.Compliant {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	counts := make([]byte, 8)
	binary.BigEndian.PutUint32(counts[0:4], uint32(entry.ViolationCount))
	binary.BigEndian.PutUint32(counts[4:8], uint32(entry.WarningCount))
	buf = append(buf, counts...)

	// Append metadata JSON (length-prefixed, deterministic serialization)
	if entry.Metadata != nil {
		metadataBytes, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	// Append timestamp (Unix nano for precision)
	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(entry.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Panics if data length exceeds uint32 max to prevent integer overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max (4GB)")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates the HMAC-SHA256 signature for the audit entry.
// Returns a 32-byte signature or an error if signing fails.
func (a *auditSigner) Sign(key []byte, entry *domain.AuditEntry) ([]byte, error) {
	signingKey, err := a.deriveSigningKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer cryptoDomain.Zero(signingKey)

	canonical, err := a.canonicalizeEntry(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize entry: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	signature := mac.Sum(nil)

	return signature, nil
}

// Verify checks if the audit entry signature is valid.
// Returns nil if valid, domain.ErrAuditSignatureInvalid if tampered or invalid.
func (a *auditSigner) Verify(key []byte, entry *domain.AuditEntry) error {
	expectedSig, err := a.Sign(key, entry)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(entry.Signature, expectedSig) {
		return domain.ErrAuditSignatureInvalid
	}

	return nil
}
