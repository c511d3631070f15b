package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	complianceUseCase "github.com/allisson/paytrust/internal/compliance/usecase"
)

// RunVerifyAuditEntries verifies the HMAC signature of every audit entry in a
// time range and reports tampering. Both dates are optional: an empty value
// leaves that side of the range unbounded.
//
// Requirements: Database must be migrated and the service encryption secret
// must match the one the entries were signed with.
func RunVerifyAuditEntries(
	ctx context.Context,
	auditor complianceUseCase.ComplianceAuditor,
	logger *slog.Logger,
	writer io.Writer,
	startDate, endDate string,
	format string,
) error {
	start, err := parseOptionalDate(startDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}

	end, err := parseOptionalDate(endDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	if start != nil && end != nil && !end.After(*start) {
		return fmt.Errorf("end date must be after start date")
	}

	logger.Info("verifying audit entries",
		slog.Any("start_date", startDate),
		slog.Any("end_date", endDate),
	)

	report, err := auditor.VerifyTrail(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to verify audit entries: %w", err)
	}

	// Output result based on format
	if format == "json" {
		if err := outputVerifyJSON(writer, report); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputVerifyText(writer, report)
	}

	logger.Info("verification completed",
		slog.Int64("total_checked", report.TotalChecked),
		slog.Int64("valid", report.ValidCount),
		slog.Int64("invalid", report.InvalidCount),
	)

	// Exit with error code if integrity check failed
	if report.InvalidCount > 0 {
		return fmt.Errorf("integrity check failed: %d invalid signature(s)", report.InvalidCount)
	}

	return nil
}

// parseOptionalDate parses a date string in format "YYYY-MM-DD" or
// "YYYY-MM-DD HH:MM:SS". An empty string returns nil.
func parseOptionalDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	// Try full datetime format first
	t, err := time.Parse("2006-01-02 15:04:05", dateStr)
	if err == nil {
		return &t, nil
	}

	// Try date-only format (defaults to start of day)
	t, err = time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf(
			"invalid date format (expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS): %s",
			dateStr,
		)
	}

	return &t, nil
}

// outputVerifyText outputs the verification result in human-readable text format.
func outputVerifyText(writer io.Writer, report *complianceUseCase.VerificationReport) {
	_, _ = fmt.Fprintf(writer, "Audit Trail Integrity Verification\n")
	_, _ = fmt.Fprintf(writer, "==================================\n\n")

	_, _ = fmt.Fprintf(writer, "Total Checked:  %d\n", report.TotalChecked)
	_, _ = fmt.Fprintf(writer, "Valid:          %d\n", report.ValidCount)
	_, _ = fmt.Fprintf(writer, "Invalid:        %d\n\n", report.InvalidCount)

	switch {
	case report.InvalidCount > 0:
		_, _ = fmt.Fprintf(writer, "WARNING: %d entry(ies) failed integrity check!\n\n", report.InvalidCount)
		_, _ = fmt.Fprintf(writer, "Invalid Entry IDs:\n")
		for _, id := range report.InvalidEntries {
			_, _ = fmt.Fprintf(writer, "  - %s\n", id)
		}
		_, _ = fmt.Fprintf(writer, "\nStatus: FAILED\n")
	case report.TotalChecked == 0:
		_, _ = fmt.Fprintf(writer, "Status: No entries found in specified time range\n")
	default:
		_, _ = fmt.Fprintf(writer, "Status: PASSED\n")
	}
}

// outputVerifyJSON outputs the verification result in JSON format for machine consumption.
func outputVerifyJSON(writer io.Writer, report *complianceUseCase.VerificationReport) error {
	result := map[string]interface{}{
		"total_checked":   report.TotalChecked,
		"valid_count":     report.ValidCount,
		"invalid_count":   report.InvalidCount,
		"invalid_entries": report.InvalidEntries,
		"passed":          report.InvalidCount == 0,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
