package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/paytrust/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("Success_NilError", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("Success_WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(errors.New("method: cannot be blank"))
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "method: cannot be blank")
	})
}

func TestNotBlank(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "Success_NonBlank", value: "card", valid: true},
		{name: "Error_Empty", value: "", valid: false},
		{name: "Error_WhitespaceOnly", value: "   ", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validation.Validate(tc.value, NotBlank)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, validation.Validate("merchant-1", NoWhitespace))
	assert.Error(t, validation.Validate(" merchant-1", NoWhitespace))
	assert.Error(t, validation.Validate("merchant-1 ", NoWhitespace))
}

