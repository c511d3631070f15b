package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier validates HMAC-SHA256 signatures on webhook payloads.
//
// Signatures are lowercase hex digests of HMAC-SHA256(secret, payload).
// Verification is constant-time and never panics: a signature whose length
// does not match the expected digest is simply invalid.
type SignatureVerifier struct{}

// NewSignatureVerifier creates a new SignatureVerifier.
func NewSignatureVerifier() *SignatureVerifier {
	return &SignatureVerifier{}
}

// Sign computes the hex-encoded HMAC-SHA256 signature of payload under secret.
func (v *SignatureVerifier) Sign(payload []byte, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the valid HMAC-SHA256 hex digest of
// payload under secret. Length mismatches return false rather than erroring,
// and the comparison is constant-time to avoid timing side channels.
func (v *SignatureVerifier) Verify(payload []byte, signature string, secret []byte) bool {
	expected := v.Sign(payload, secret)
	if len(signature) != len(expected) {
		return false
	}
	return hmac.Equal([]byte(signature), []byte(expected))
}
