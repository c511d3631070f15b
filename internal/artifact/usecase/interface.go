package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/paytrust/internal/artifact/domain"
)

// ArtifactUseCase manages the lifecycle of encrypted payment artifacts:
// store (encrypt and persist), retrieve (fetch and decrypt), delete, and the
// retention sweep that removes records past the retention window.
type ArtifactUseCase interface {
	// Store encrypts the payload and persists it as a new artifact. The
	// returned artifact carries the serialized blob, never the plaintext.
	Store(ctx context.Context, kind string, payload []byte) (*domain.PaymentArtifact, error)

	// Get retrieves an artifact and decrypts its blob into Plaintext.
	// Returns domain.ErrArtifactNotFound if no artifact exists.
	Get(ctx context.Context, id uuid.UUID) (*domain.PaymentArtifact, error)

	// Delete removes an artifact ahead of its retention expiry, e.g. after
	// successful tokenization. Returns domain.ErrArtifactNotFound if no
	// artifact exists.
	Delete(ctx context.Context, id uuid.UUID) error

	// SweepExpired deletes artifacts and audit entries that have outlived the
	// retention window. A no-op when automatic deletion is disabled.
	SweepExpired(ctx context.Context) (*SweepResult, error)
}

// ArtifactRepository persists encrypted payment artifacts.
type ArtifactRepository interface {
	// Create persists a new payment artifact.
	Create(ctx context.Context, artifact *domain.PaymentArtifact) error

	// GetByID retrieves a payment artifact by its identifier.
	// Returns domain.ErrArtifactNotFound if no artifact exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentArtifact, error)

	// ListOldestFirst retrieves payment artifacts ordered by created_at
	// ascending, limited to the given page size.
	ListOldestFirst(ctx context.Context, limit int) ([]*domain.PaymentArtifact, error)

	// Delete hard-deletes a payment artifact.
	// Returns domain.ErrArtifactNotFound if no artifact exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

// SweepResult summarizes one retention sweep run.
type SweepResult struct {
	ArtifactsDeleted    int64
	AuditEntriesDeleted int64
}
