// Package mocks provides mock implementations for testing artifact HTTP
// handlers and CLI commands.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	artifactDomain "github.com/allisson/paytrust/internal/artifact/domain"
	artifactUseCase "github.com/allisson/paytrust/internal/artifact/usecase"
)

// MockArtifactUseCase is a mock implementation of ArtifactUseCase for testing.
type MockArtifactUseCase struct {
	mock.Mock
}

// Store mocks the Store method of ArtifactUseCase.
func (m *MockArtifactUseCase) Store(
	ctx context.Context,
	kind string,
	payload []byte,
) (*artifactDomain.PaymentArtifact, error) {
	args := m.Called(ctx, kind, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*artifactDomain.PaymentArtifact), args.Error(1)
}

// Get mocks the Get method of ArtifactUseCase.
func (m *MockArtifactUseCase) Get(
	ctx context.Context,
	id uuid.UUID,
) (*artifactDomain.PaymentArtifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*artifactDomain.PaymentArtifact), args.Error(1)
}

// Delete mocks the Delete method of ArtifactUseCase.
func (m *MockArtifactUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SweepExpired mocks the SweepExpired method of ArtifactUseCase.
func (m *MockArtifactUseCase) SweepExpired(ctx context.Context) (*artifactUseCase.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*artifactUseCase.SweepResult), args.Error(1)
}
