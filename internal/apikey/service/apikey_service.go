// Package service provides API key generation and verification for service
// authentication. Keys are random 256-bit values hashed with Argon2id; only
// the hash is ever configured on the server side.
package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/paytrust/internal/errors"
)

// APIKeyService generates and verifies service API keys.
type APIKeyService interface {
	// GenerateKey creates a new random API key and returns both the plain key
	// (shown once to the operator) and its Argon2id hash (stored in config).
	GenerateKey() (plainKey string, hashedKey string, err error)

	// HashKey hashes a plain API key using Argon2id.
	HashKey(plainKey string) (hashedKey string, err error)

	// CompareKey performs a constant-time comparison between a plain API key
	// and its hash.
	CompareKey(plainKey string, hashedKey string) bool
}

// apiKeyService implements APIKeyService using Argon2id hashing.
type apiKeyService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateKey creates a new cryptographically secure 32-byte random API key.
// The key is base64-encoded for easy transmission and storage.
func (s *apiKeyService) GenerateKey() (plainKey string, hashedKey string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random api key")
	}

	plainKey = base64.URLEncoding.EncodeToString(randomBytes)

	hashedKey, err = s.HashKey(plainKey)
	if err != nil {
		return "", "", err
	}

	return plainKey, hashedKey, nil
}

// HashKey hashes a plain API key using Argon2id.
func (s *apiKeyService) HashKey(plainKey string) (string, error) {
	hashedKey, err := s.hasher.Hash([]byte(plainKey))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash api key")
	}
	return hashedKey, nil
}

// CompareKey performs a constant-time comparison between a plain API key and
// its hash.
func (s *apiKeyService) CompareKey(plainKey string, hashedKey string) bool {
	ok, err := s.hasher.Verify([]byte(plainKey), hashedKey)
	if err != nil {
		return false
	}
	return ok
}

// NewAPIKeyService creates a new APIKeyService instance using Argon2id hashing.
// Uses the Moderate policy for a balance between security and performance.
func NewAPIKeyService() APIKeyService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &apiKeyService{
		hasher: hasher,
	}
}
