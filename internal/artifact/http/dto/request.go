// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/paytrust/internal/validation"
)

// CreateArtifactRequest contains the parameters for storing a payment artifact.
// The value is base64-encoded in transit and encrypted before persistence.
type CreateArtifactRequest struct {
	Kind  string `json:"kind" binding:"required"`
	Value []byte `json:"value" binding:"required"`
}

// Validate checks if the create artifact request is valid.
func (r *CreateArtifactRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind,
			validation.Required,
			validation.Length(1, 64),
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.Value,
			validation.Required,
			validation.Length(1, 0), // At least 1 byte
		),
	)
}
