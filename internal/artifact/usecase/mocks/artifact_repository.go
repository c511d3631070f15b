// Package mocks provides mock implementations for testing artifact use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	artifactDomain "github.com/allisson/paytrust/internal/artifact/domain"
)

// MockArtifactRepository is a mock implementation of ArtifactRepository for testing.
type MockArtifactRepository struct {
	mock.Mock
}

// Create mocks the Create method of ArtifactRepository.
func (m *MockArtifactRepository) Create(
	ctx context.Context,
	artifact *artifactDomain.PaymentArtifact,
) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

// GetByID mocks the GetByID method of ArtifactRepository.
func (m *MockArtifactRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*artifactDomain.PaymentArtifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*artifactDomain.PaymentArtifact), args.Error(1)
}

// ListOldestFirst mocks the ListOldestFirst method of ArtifactRepository.
func (m *MockArtifactRepository) ListOldestFirst(
	ctx context.Context,
	limit int,
) ([]*artifactDomain.PaymentArtifact, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*artifactDomain.PaymentArtifact), args.Error(1)
}

// Delete mocks the Delete method of ArtifactRepository.
func (m *MockArtifactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
