// Package mocks provides mock implementations for testing compliance HTTP
// handlers and CLI commands.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	complianceDomain "github.com/allisson/paytrust/internal/compliance/domain"
	complianceUseCase "github.com/allisson/paytrust/internal/compliance/usecase"
)

// MockComplianceAuditor is a mock implementation of ComplianceAuditor for testing.
type MockComplianceAuditor struct {
	mock.Mock
}

// Audit mocks the Audit method of ComplianceAuditor.
func (m *MockComplianceAuditor) Audit(
	ctx context.Context,
	req complianceDomain.AuditRequest,
) (*complianceDomain.AuditResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*complianceDomain.AuditResult), args.Error(1)
}

// VerifyTrail mocks the VerifyTrail method of ComplianceAuditor.
func (m *MockComplianceAuditor) VerifyTrail(
	ctx context.Context,
	createdAtFrom, createdAtTo *time.Time,
) (*complianceUseCase.VerificationReport, error) {
	args := m.Called(ctx, createdAtFrom, createdAtTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*complianceUseCase.VerificationReport), args.Error(1)
}
