// Package usecase implements the encrypted artifact store and the retention
// sweep that enforces the data retention policy across artifacts and the
// audit trail.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/paytrust/internal/artifact/domain"
	complianceDomain "github.com/allisson/paytrust/internal/compliance/domain"
	complianceService "github.com/allisson/paytrust/internal/compliance/service"
	complianceUsecase "github.com/allisson/paytrust/internal/compliance/usecase"
	cryptoService "github.com/allisson/paytrust/internal/crypto/service"
	"github.com/allisson/paytrust/internal/database"
	apperrors "github.com/allisson/paytrust/internal/errors"
)

// sweepBatchSize is the repository page size for the retention sweep.
const sweepBatchSize = 500

// artifactUseCase implements the ArtifactUseCase interface.
type artifactUseCase struct {
	artifactRepo ArtifactRepository
	auditRepo    complianceUsecase.AuditEntryRepository
	cryptoBox    *cryptoService.CryptoBox
	retention    *complianceService.RetentionPolicy
	policies     *complianceDomain.PolicyHolder
	txManager    database.TxManager
	logger       *slog.Logger
}

// NewArtifactUseCase creates an ArtifactUseCase with the provided dependencies.
func NewArtifactUseCase(
	artifactRepo ArtifactRepository,
	auditRepo complianceUsecase.AuditEntryRepository,
	cryptoBox *cryptoService.CryptoBox,
	retention *complianceService.RetentionPolicy,
	policies *complianceDomain.PolicyHolder,
	txManager database.TxManager,
	logger *slog.Logger,
) ArtifactUseCase {
	return &artifactUseCase{
		artifactRepo: artifactRepo,
		auditRepo:    auditRepo,
		cryptoBox:    cryptoBox,
		retention:    retention,
		policies:     policies,
		txManager:    txManager,
		logger:       logger,
	}
}

// Store encrypts the payload with the service secret and persists the
// resulting blob. The plaintext is never written to storage or logs.
func (a *artifactUseCase) Store(
	ctx context.Context,
	kind string,
	payload []byte,
) (*domain.PaymentArtifact, error) {
	if kind == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "artifact kind is required")
	}
	if len(payload) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "artifact payload is required")
	}

	blob, err := a.cryptoBox.Encrypt(payload, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt payment artifact")
	}

	artifact := &domain.PaymentArtifact{
		ID:        uuid.Must(uuid.NewV7()),
		Kind:      kind,
		Blob:      blob.String(),
		CreatedAt: time.Now().UTC(),
	}

	if err := a.artifactRepo.Create(ctx, artifact); err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "payment artifact stored",
		slog.String("artifact_id", artifact.ID.String()),
		slog.String("kind", artifact.Kind),
	)

	return artifact, nil
}

// Get retrieves an artifact and decrypts its blob into Plaintext. Decryption
// fails closed: a tampered blob surfaces an error, never partial plaintext.
func (a *artifactUseCase) Get(
	ctx context.Context,
	id uuid.UUID,
) (*domain.PaymentArtifact, error) {
	artifact, err := a.artifactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	plaintext, err := a.cryptoBox.DecryptString(artifact.Blob, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decrypt payment artifact")
	}
	artifact.Plaintext = plaintext

	return artifact, nil
}

// Delete removes an artifact ahead of its retention expiry.
func (a *artifactUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := a.artifactRepo.Delete(ctx, id); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "payment artifact deleted",
		slog.String("artifact_id", id.String()),
	)

	return nil
}

// SweepExpired runs the artifact sweep and the audit trail prune concurrently
// against a single policy snapshot and reference time, so both sides apply
// the same retention window.
func (a *artifactUseCase) SweepExpired(ctx context.Context) (*SweepResult, error) {
	now := time.Now().UTC()
	result := &SweepResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deleted, err := a.sweepArtifacts(gctx, now)
		result.ArtifactsDeleted = deleted
		return err
	})
	g.Go(func() error {
		deleted, err := a.pruneAuditEntries(gctx, now)
		result.AuditEntriesDeleted = deleted
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "retention sweep completed",
		slog.Int64("artifacts_deleted", result.ArtifactsDeleted),
		slog.Int64("audit_entries_deleted", result.AuditEntriesDeleted),
	)

	return result, nil
}

// sweepArtifacts deletes expired artifacts oldest-first. Pages are re-fetched
// from the start after each batch of deletions; the ascending order lets the
// sweep stop at the first record still inside the retention window. Each page
// of deletions commits atomically.
func (a *artifactUseCase) sweepArtifacts(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64

	for {
		artifacts, err := a.artifactRepo.ListOldestFirst(ctx, sweepBatchSize)
		if err != nil {
			return deleted, apperrors.Wrap(err, "failed to list artifacts for retention sweep")
		}
		if len(artifacts) == 0 {
			return deleted, nil
		}

		var batchDeleted int64
		var done bool
		err = a.txManager.WithTx(ctx, func(txCtx context.Context) error {
			for _, artifact := range artifacts {
				if !a.retention.IsExpired(artifact.CreatedAt, now) {
					done = true
					return nil
				}

				err := a.artifactRepo.Delete(txCtx, artifact.ID)
				if err != nil {
					// Already gone, e.g. deleted out-of-band after tokenization.
					if errors.Is(err, domain.ErrArtifactNotFound) {
						continue
					}
					return apperrors.Wrap(err, "failed to delete expired artifact")
				}
				batchDeleted++
			}
			return nil
		})
		if err != nil {
			return deleted, err
		}
		deleted += batchDeleted

		if done || len(artifacts) < sweepBatchSize {
			return deleted, nil
		}
	}
}

// pruneAuditEntries bulk-deletes audit entries older than the retention
// window. A no-op when automatic deletion is disabled.
func (a *artifactUseCase) pruneAuditEntries(ctx context.Context, now time.Time) (int64, error) {
	policy := a.policies.Load()
	if !policy.AutoDeleteExpiredData {
		return 0, nil
	}

	window := time.Duration(policy.MaxDataRetentionDays) * 24 * time.Hour
	cutoff := now.Add(-window)

	deleted, err := a.auditRepo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to prune expired audit entries")
	}

	return deleted, nil
}
