// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/paytrust/internal/validation"
)

// SanitizeRequest contains a structured payload and/or free-form text to be
// redacted. At least one of the two must be present.
type SanitizeRequest struct {
	Data map[string]any `json:"data"`
	Text string         `json:"text"`
}

// Validate checks if the sanitize request is valid.
func (r *SanitizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Data,
			validation.Required.When(r.Text == "").
				Error("either data or text must be provided"),
		),
	)
}

// AuditExchangeRequest contains one payment request/response exchange to be
// audited against the active compliance policy.
type AuditExchangeRequest struct {
	RequestID string         `json:"request_id"`
	Method    string         `json:"method"`
	Data      map[string]any `json:"data"`
	UserID    string         `json:"user_id"`
}

// Validate checks if the audit request is valid.
func (r *AuditExchangeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Method,
			validation.Required,
			validation.Length(1, 64),
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.Data, validation.Required),
	)
}

// IdempotencyKeyRequest contains the payload an idempotency key is derived from.
type IdempotencyKeyRequest struct {
	Data map[string]any `json:"data"`
}

// Validate checks if the idempotency key request is valid.
func (r *IdempotencyKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Data, validation.Required),
	)
}
