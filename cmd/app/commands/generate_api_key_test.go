package commands

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apikeyService "github.com/allisson/paytrust/internal/apikey/service"
)

func TestRunGenerateAPIKey(t *testing.T) {
	logger := slog.Default()
	service := apikeyService.NewAPIKeyService()

	t.Run("text-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunGenerateAPIKey(service, logger, &out, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "API Key Hash (set as API_KEY_HASH)")
		require.Contains(t, out.String(), "$argon2id$")
	})

	t.Run("json-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunGenerateAPIKey(service, logger, &out, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"api_key"`)
		require.Contains(t, out.String(), `"api_key_hash"`)
	})

	t.Run("generated-key-verifies-against-hash", func(t *testing.T) {
		plainKey, hashedKey, err := service.GenerateKey()

		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hashedKey, "$argon2id$"))
		require.True(t, service.CompareKey(plainKey, hashedKey))
	})
}
