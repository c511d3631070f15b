package domain

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/paytrust/internal/errors"
)

func validBlobString() string {
	iv := strings.Repeat("0a", IVSize)
	tag := strings.Repeat("0b", TagSize)
	ciphertext := "deadbeef"
	return iv + ":" + tag + ":" + ciphertext
}

func TestNewEncryptedBlob(t *testing.T) {
	t.Run("Success_ValidBlob", func(t *testing.T) {
		blob, err := NewEncryptedBlob(validBlobString())
		require.NoError(t, err)
		assert.Len(t, blob.IV, IVSize)
		assert.Len(t, blob.AuthTag, TagSize)
		assert.Equal(t, "deadbeef", hex.EncodeToString(blob.Ciphertext))
	})

	t.Run("Success_EmptyCiphertext", func(t *testing.T) {
		content := strings.Repeat("00", IVSize) + ":" + strings.Repeat("00", TagSize) + ":"
		blob, err := NewEncryptedBlob(content)
		require.NoError(t, err)
		assert.Empty(t, blob.Ciphertext)
	})

	errorCases := []struct {
		name    string
		content string
	}{
		{
			name:    "Error_TooFewParts",
			content: "aabb:ccdd",
		},
		{
			name:    "Error_TooManyParts",
			content: "aa:bb:cc:dd",
		},
		{
			name:    "Error_EmptyString",
			content: "",
		},
		{
			name:    "Error_NonHexIV",
			content: "zzzz:" + strings.Repeat("00", TagSize) + ":deadbeef",
		},
		{
			name:    "Error_WrongIVSize",
			content: "aabb:" + strings.Repeat("00", TagSize) + ":deadbeef",
		},
		{
			name:    "Error_NonHexTag",
			content: strings.Repeat("00", IVSize) + ":zzzz:deadbeef",
		},
		{
			name:    "Error_WrongTagSize",
			content: strings.Repeat("00", IVSize) + ":aabb:deadbeef",
		},
		{
			name:    "Error_NonHexCiphertext",
			content: strings.Repeat("00", IVSize) + ":" + strings.Repeat("00", TagSize) + ":not-hex",
		},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEncryptedBlob(tc.content)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidBlobFormat)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

func TestEncryptedBlob_String(t *testing.T) {
	t.Run("Success_RoundTrip", func(t *testing.T) {
		original := validBlobString()
		blob, err := NewEncryptedBlob(original)
		require.NoError(t, err)
		assert.Equal(t, original, blob.String())
	})
}

func TestZero(t *testing.T) {
	t.Run("Success_ClearsBytes", func(t *testing.T) {
		b := []byte{1, 2, 3, 4}
		Zero(b)
		assert.Equal(t, []byte{0, 0, 0, 0}, b)
	})

	t.Run("Success_NilIsNoop", func(t *testing.T) {
		assert.NotPanics(t, func() { Zero(nil) })
	})
}
