// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	artifactDomain "github.com/allisson/paytrust/internal/artifact/domain"
)

// ArtifactResponse represents a payment artifact in API responses.
// SECURITY: The Value field contains plaintext and is only included in GET
// responses. Must be transmitted over HTTPS in production.
type ArtifactResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Value     []byte    `json:"value,omitempty"` // Only included in GET responses
	CreatedAt time.Time `json:"created_at"`
}

// MapArtifactToCreateResponse converts a domain artifact to an API response
// for POST operations. The plaintext value is excluded; only metadata is
// returned on creation.
func MapArtifactToCreateResponse(artifact *artifactDomain.PaymentArtifact) ArtifactResponse {
	return ArtifactResponse{
		ID:        artifact.ID.String(),
		Kind:      artifact.Kind,
		CreatedAt: artifact.CreatedAt,
	}
}

// MapArtifactToGetResponse converts a domain artifact to an API response for
// GET operations. The decrypted value is included. SECURITY: Caller must zero
// the plaintext from the domain object after mapping using
// cryptoDomain.Zero(artifact.Plaintext).
func MapArtifactToGetResponse(artifact *artifactDomain.PaymentArtifact) ArtifactResponse {
	return ArtifactResponse{
		ID:        artifact.ID.String(),
		Kind:      artifact.Kind,
		Value:     artifact.Plaintext,
		CreatedAt: artifact.CreatedAt,
	}
}
