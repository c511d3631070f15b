package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/paytrust/internal/artifact/domain"
	"github.com/allisson/paytrust/internal/metrics"
)

// artifactUseCaseWithMetrics decorates ArtifactUseCase with metrics instrumentation.
type artifactUseCaseWithMetrics struct {
	next    ArtifactUseCase
	metrics metrics.BusinessMetrics
}

// NewArtifactUseCaseWithMetrics wraps an ArtifactUseCase with metrics recording.
func NewArtifactUseCaseWithMetrics(uc ArtifactUseCase, m metrics.BusinessMetrics) ArtifactUseCase {
	return &artifactUseCaseWithMetrics{
		next:    uc,
		metrics: m,
	}
}

// Store records metrics for artifact store operations.
func (a *artifactUseCaseWithMetrics) Store(
	ctx context.Context,
	kind string,
	payload []byte,
) (*domain.PaymentArtifact, error) {
	start := time.Now()
	artifact, err := a.next.Store(ctx, kind, payload)
	a.record(ctx, "store", start, err)
	return artifact, err
}

// Get records metrics for artifact retrieval operations.
func (a *artifactUseCaseWithMetrics) Get(
	ctx context.Context,
	id uuid.UUID,
) (*domain.PaymentArtifact, error) {
	start := time.Now()
	artifact, err := a.next.Get(ctx, id)
	a.record(ctx, "get", start, err)
	return artifact, err
}

// Delete records metrics for artifact delete operations.
func (a *artifactUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := a.next.Delete(ctx, id)
	a.record(ctx, "delete", start, err)
	return err
}

// SweepExpired records metrics for retention sweep runs.
func (a *artifactUseCaseWithMetrics) SweepExpired(ctx context.Context) (*SweepResult, error) {
	start := time.Now()
	result, err := a.next.SweepExpired(ctx)
	a.record(ctx, "sweep_expired", start, err)
	return result, err
}

func (a *artifactUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "artifacts", operation, status)
	a.metrics.RecordDuration(ctx, "artifacts", operation, time.Since(start), status)
}
