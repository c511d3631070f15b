package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	apikeyService "github.com/allisson/paytrust/internal/apikey/service"
)

// RunGenerateAPIKey generates a new service API key and prints the plain key
// together with its Argon2id hash. The hash goes into the API_KEY_HASH
// environment variable; the plain key goes to the API consumer and is never
// stored by the service.
func RunGenerateAPIKey(
	service apikeyService.APIKeyService,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	plainKey, hashedKey, err := service.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate API key: %w", err)
	}

	if format == "json" {
		result := map[string]string{
			"api_key":      plainKey,
			"api_key_hash": hashedKey,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(writer, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(writer, "API Key (give to the consumer, shown only once):\n")
		_, _ = fmt.Fprintf(writer, "  %s\n\n", plainKey)
		_, _ = fmt.Fprintf(writer, "API Key Hash (set as API_KEY_HASH):\n")
		_, _ = fmt.Fprintf(writer, "  %s\n", hashedKey)
	}

	logger.Info("API key generated")
	return nil
}
