package service

import (
	"time"

	"github.com/allisson/paytrust/internal/compliance/domain"
)

// RetentionPolicy decides whether a stored payment artifact is past its
// retention window and eligible for deletion. Pure decision logic: executing
// the deletion is the caller's responsibility.
type RetentionPolicy struct {
	policies *domain.PolicyHolder
}

// NewRetentionPolicy creates a RetentionPolicy reading its window from the
// given policy holder on every call, so hot-swapped policies take effect
// immediately.
func NewRetentionPolicy(policies *domain.PolicyHolder) *RetentionPolicy {
	return &RetentionPolicy{policies: policies}
}

// IsExpired reports whether a record created at createdAt has outlived the
// configured retention window as of now. Always false when automatic deletion
// is disabled, regardless of age.
func (r *RetentionPolicy) IsExpired(createdAt, now time.Time) bool {
	policy := r.policies.Load()
	if !policy.AutoDeleteExpiredData {
		return false
	}

	window := time.Duration(policy.MaxDataRetentionDays) * 24 * time.Hour
	return now.Sub(createdAt) > window
}
