package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyService_GenerateKey(t *testing.T) {
	service := NewAPIKeyService()

	t.Run("Success_GeneratesValidKey", func(t *testing.T) {
		plainKey, hashedKey, err := service.GenerateKey()
		require.NoError(t, err)

		assert.NotEmpty(t, plainKey)

		decoded, err := base64.URLEncoding.DecodeString(plainKey)
		require.NoError(t, err)
		assert.Len(t, decoded, 32)

		assert.NotEmpty(t, hashedKey)
		assert.NotEqual(t, plainKey, hashedKey)
		assert.Contains(t, hashedKey, "$argon2id$")
	})

	t.Run("Success_GeneratesUniqueKeys", func(t *testing.T) {
		plainKey1, hashedKey1, err := service.GenerateKey()
		require.NoError(t, err)

		plainKey2, hashedKey2, err := service.GenerateKey()
		require.NoError(t, err)

		assert.NotEqual(t, plainKey1, plainKey2)
		assert.NotEqual(t, hashedKey1, hashedKey2)
	})

	t.Run("Success_GeneratedKeyCanBeVerified", func(t *testing.T) {
		plainKey, hashedKey, err := service.GenerateKey()
		require.NoError(t, err)

		assert.True(t, service.CompareKey(plainKey, hashedKey))
	})
}

func TestAPIKeyService_HashKey(t *testing.T) {
	service := NewAPIKeyService()

	t.Run("Success_SameKeyProducesDifferentHashes", func(t *testing.T) {
		plainKey := "test-api-key-123"

		hashedKey1, err := service.HashKey(plainKey)
		require.NoError(t, err)

		hashedKey2, err := service.HashKey(plainKey)
		require.NoError(t, err)

		// Different hashes due to different salts, both verify.
		assert.NotEqual(t, hashedKey1, hashedKey2)
		assert.True(t, service.CompareKey(plainKey, hashedKey1))
		assert.True(t, service.CompareKey(plainKey, hashedKey2))
	})
}

func TestAPIKeyService_CompareKey(t *testing.T) {
	service := NewAPIKeyService()

	t.Run("Success_CorrectKeyMatches", func(t *testing.T) {
		hashedKey, err := service.HashKey("correct-key")
		require.NoError(t, err)

		assert.True(t, service.CompareKey("correct-key", hashedKey))
	})

	t.Run("Failure_IncorrectKeyDoesNotMatch", func(t *testing.T) {
		hashedKey, err := service.HashKey("correct-key")
		require.NoError(t, err)

		assert.False(t, service.CompareKey("wrong-key", hashedKey))
		assert.False(t, service.CompareKey("", hashedKey))
	})

	t.Run("Failure_InvalidHashFormat", func(t *testing.T) {
		assert.False(t, service.CompareKey("correct-key", "invalid-hash-format"))
		assert.False(t, service.CompareKey("correct-key", ""))
	})
}
