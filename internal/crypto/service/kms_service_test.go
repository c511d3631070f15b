package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"gocloud.dev/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		require.NotNil(t, keeper)

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok, "keeper should be *secrets.Keeper")

		assert.NoError(t, keeper.Close())
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})

	t.Run("Error_EmptyURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "")
		assert.Error(t, err)
		assert.Nil(t, keeper)
	})
}

func TestKMSService_UnwrapSecret(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()
	keyURI := generateLocalSecretsURI(t)

	wrapSecret := func(t *testing.T, plaintext []byte) string {
		t.Helper()
		keeperInterface, err := kmsService.OpenKeeper(ctx, keyURI)
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, keeperInterface.Close())
		}()

		keeper, ok := keeperInterface.(*secrets.Keeper)
		require.True(t, ok)

		ciphertext, err := keeper.Encrypt(ctx, plaintext)
		require.NoError(t, err)
		return base64.StdEncoding.EncodeToString(ciphertext)
	}

	t.Run("Success_RoundTrip", func(t *testing.T) {
		plaintext := make([]byte, 32)
		_, err := rand.Read(plaintext)
		require.NoError(t, err)

		unwrapped, err := kmsService.UnwrapSecret(ctx, keyURI, wrapSecret(t, plaintext))
		require.NoError(t, err)
		assert.Equal(t, plaintext, unwrapped)
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		unwrapped, err := kmsService.UnwrapSecret(ctx, keyURI, "not base64!!!")
		assert.Error(t, err)
		assert.Nil(t, unwrapped)
		assert.Contains(t, err.Error(), "failed to decode wrapped secret")
	})

	t.Run("Error_InvalidCiphertext", func(t *testing.T) {
		garbage := base64.StdEncoding.EncodeToString([]byte("not a valid ciphertext"))
		unwrapped, err := kmsService.UnwrapSecret(ctx, keyURI, garbage)
		assert.Error(t, err)
		assert.Nil(t, unwrapped)
	})

	t.Run("Error_WrongKeeperKey", func(t *testing.T) {
		wrapped := wrapSecret(t, []byte("secret material goes here 32 by!"))
		unwrapped, err := kmsService.UnwrapSecret(ctx, generateLocalSecretsURI(t), wrapped)
		assert.Error(t, err)
		assert.Nil(t, unwrapped)
	})
}
