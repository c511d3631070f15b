package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	artifactUseCase "github.com/allisson/paytrust/internal/artifact/usecase"
)

// RunSweepExpiredArtifacts deletes payment artifacts past the configured
// retention window and prunes audit entries older than the window when
// auto-deletion is enabled. Intended to run periodically (e.g., cron).
//
// Requirements: Database must be migrated and accessible.
func RunSweepExpiredArtifacts(
	ctx context.Context,
	useCase artifactUseCase.ArtifactUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("sweeping expired payment artifacts")

	result, err := useCase.SweepExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep expired artifacts: %w", err)
	}

	// Output result based on format
	if format == "json" {
		if err := outputSweepJSON(writer, result); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputSweepText(writer, result)
	}

	logger.Info("sweep completed",
		slog.Int64("artifacts_deleted", result.ArtifactsDeleted),
		slog.Int64("audit_entries_deleted", result.AuditEntriesDeleted),
	)

	return nil
}

// outputSweepText outputs the result in human-readable text format.
func outputSweepText(writer io.Writer, result *artifactUseCase.SweepResult) {
	_, _ = fmt.Fprintf(writer, "Deleted %d expired payment artifact(s)\n", result.ArtifactsDeleted)
	_, _ = fmt.Fprintf(writer, "Deleted %d expired audit entry(ies)\n", result.AuditEntriesDeleted)
}

// outputSweepJSON outputs the result in JSON format for machine consumption.
func outputSweepJSON(writer io.Writer, result *artifactUseCase.SweepResult) error {
	output := map[string]interface{}{
		"artifacts_deleted":     result.ArtifactsDeleted,
		"audit_entries_deleted": result.AuditEntriesDeleted,
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
