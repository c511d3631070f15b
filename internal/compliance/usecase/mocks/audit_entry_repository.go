// Package mocks provides mock implementations for testing compliance use cases.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	complianceDomain "github.com/allisson/paytrust/internal/compliance/domain"
)

// MockAuditEntryRepository is a mock implementation of AuditEntryRepository for testing.
type MockAuditEntryRepository struct {
	mock.Mock
}

// Create mocks the Create method of AuditEntryRepository.
func (m *MockAuditEntryRepository) Create(ctx context.Context, entry *complianceDomain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// GetByID mocks the GetByID method of AuditEntryRepository.
func (m *MockAuditEntryRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*complianceDomain.AuditEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*complianceDomain.AuditEntry), args.Error(1)
}

// DeleteCreatedBefore mocks the DeleteCreatedBefore method of AuditEntryRepository.
func (m *MockAuditEntryRepository) DeleteCreatedBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// List mocks the List method of AuditEntryRepository.
func (m *MockAuditEntryRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*complianceDomain.AuditEntry, error) {
	args := m.Called(ctx, offset, limit, createdAtFrom, createdAtTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*complianceDomain.AuditEntry), args.Error(1)
}
