// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/hex"
	"time"

	complianceDomain "github.com/allisson/paytrust/internal/compliance/domain"
	complianceUseCase "github.com/allisson/paytrust/internal/compliance/usecase"
)

// SanitizeResponse carries the redacted payload and/or text plus the
// cumulative process-wide detection count.
type SanitizeResponse struct {
	Data       map[string]any `json:"data,omitempty"`
	Text       string         `json:"text,omitempty"`
	Detections int64          `json:"detections"`
}

// AuditResponse represents a compliance verdict in API responses.
type AuditResponse struct {
	Compliant  bool     `json:"compliant"`
	Violations []string `json:"violations"`
	Warnings   []string `json:"warnings"`
}

// MapAuditResultToResponse converts a domain audit result to an API response.
// Violations and warnings serialize as empty arrays rather than null.
func MapAuditResultToResponse(result *complianceDomain.AuditResult) AuditResponse {
	violations := result.Violations
	if violations == nil {
		violations = []string{}
	}
	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return AuditResponse{
		Compliant:  result.Compliant,
		Violations: violations,
		Warnings:   warnings,
	}
}

// IdempotencyKeyResponse carries a derived idempotency key.
type IdempotencyKeyResponse struct {
	Key string `json:"key"`
}

// AuditEntryResponse represents a signed audit trail entry in API responses.
// The signature is hex-encoded; raw payment data is never part of an entry.
type AuditEntryResponse struct {
	ID             string         `json:"id"`
	RequestID      string         `json:"request_id"`
	Method         string         `json:"method"`
	Compliant      bool           `json:"compliant"`
	ViolationCount int            `json:"violation_count"`
	WarningCount   int            `json:"warning_count"`
	UserID         string         `json:"user_id"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Signature      string         `json:"signature"`
	CreatedAt      time.Time      `json:"created_at"`
}

// MapAuditEntryToResponse converts a domain audit entry to an API response.
func MapAuditEntryToResponse(entry *complianceDomain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:             entry.ID.String(),
		RequestID:      entry.RequestID.String(),
		Method:         entry.Method,
		Compliant:      entry.Compliant,
		ViolationCount: entry.ViolationCount,
		WarningCount:   entry.WarningCount,
		UserID:         entry.UserID,
		Metadata:       entry.Metadata,
		Signature:      hex.EncodeToString(entry.Signature),
		CreatedAt:      entry.CreatedAt,
	}
}

// ListAuditEntriesResponse represents a paginated list of audit entries.
type ListAuditEntriesResponse struct {
	Data []AuditEntryResponse `json:"data"`
}

// MapAuditEntriesToListResponse converts a slice of domain audit entries to a
// list response.
func MapAuditEntriesToListResponse(entries []*complianceDomain.AuditEntry) ListAuditEntriesResponse {
	data := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, MapAuditEntryToResponse(entry))
	}

	return ListAuditEntriesResponse{
		Data: data,
	}
}

// VerificationReportResponse summarizes an audit trail signature sweep.
type VerificationReportResponse struct {
	TotalChecked   int64    `json:"total_checked"`
	ValidCount     int64    `json:"valid_count"`
	InvalidCount   int64    `json:"invalid_count"`
	InvalidEntries []string `json:"invalid_entries"`
}

// MapVerificationReportToResponse converts a verification report to an API response.
func MapVerificationReportToResponse(report *complianceUseCase.VerificationReport) VerificationReportResponse {
	invalid := make([]string, 0, len(report.InvalidEntries))
	for _, id := range report.InvalidEntries {
		invalid = append(invalid, id.String())
	}

	return VerificationReportResponse{
		TotalChecked:   report.TotalChecked,
		ValidCount:     report.ValidCount,
		InvalidCount:   report.InvalidCount,
		InvalidEntries: invalid,
	}
}
