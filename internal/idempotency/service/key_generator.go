// Package service implements deterministic idempotency key derivation for
// payment requests.
package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	complianceService "github.com/allisson/paytrust/internal/compliance/service"
)

// KeyGenerator derives idempotency keys from payment request payloads.
//
// The key is SHA-256 over the sanitized canonical JSON of the payload plus a
// minute-granularity timestamp bucket. Two consequences:
//   - Sensitive fields are redacted before hashing, so requests differing only
//     in redacted values (e.g., CVV) produce the same key. The key can never
//     be used as an oracle to brute-force a redacted value.
//   - Identical requests within the same minute collapse to one key; the same
//     request a minute later is a new operation.
type KeyGenerator struct {
	redactor *complianceService.Redactor
}

// NewKeyGenerator creates a KeyGenerator sanitizing payloads through the
// given redactor.
func NewKeyGenerator(redactor *complianceService.Redactor) *KeyGenerator {
	return &KeyGenerator{redactor: redactor}
}

// Generate returns the hex-encoded idempotency key for the payload at the
// given time. Deterministic: equal payloads in the same minute bucket always
// produce equal keys, regardless of map iteration order.
func (g *KeyGenerator) Generate(data map[string]any, now time.Time) (string, error) {
	sanitized := g.redactor.SanitizeStructured(data)

	// encoding/json serializes map keys in sorted order, which makes the
	// serialization canonical.
	canonical, err := json.Marshal(sanitized)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize payload: %w", err)
	}

	bucket := now.UTC().Truncate(time.Minute).Unix()

	h := sha256.New()
	h.Write(canonical)
	fmt.Fprintf(h, "|%d", bucket)

	return hex.EncodeToString(h.Sum(nil)), nil
}
