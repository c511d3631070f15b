package service

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/allisson/paytrust/internal/alert"
	"github.com/allisson/paytrust/internal/compliance/domain"
)

// sensitiveKeys is the fixed deny-list of payload keys whose values are
// always replaced during structured sanitization. Matched case-insensitively.
var sensitiveKeys = map[string]struct{}{
	"cardnumber":      {},
	"card_number":     {},
	"cvv":             {},
	"cvc":             {},
	"cvv2":            {},
	"pin":             {},
	"securitycode":    {},
	"security_code":   {},
	"track1":          {},
	"track2":          {},
	"magnetic_stripe": {},
}

// sampleLogLength is how much of a matched sample may appear in a warning
// log. The full matched value never reaches the log.
const sampleLogLength = 10

// Redactor removes or masks sensitive values from structured payloads and
// free-form text before anything is logged or persisted.
//
// Each instance owns a cumulative detection counter. The counter is never
// reset: in a long-lived process, cumulative detections are a standing signal
// of systemic leakage, not a per-request statistic. When the count crosses
// DetectionAlertThreshold the redactor escalates through the notifier.
//
// Safe for concurrent use; the counter is atomic.
type Redactor struct {
	logger   *slog.Logger
	notifier alert.Notifier

	detections atomic.Int64
}

// NewRedactor creates a Redactor reporting detections to the given notifier.
// Construct one per process and share it via dependency injection so the
// detection counter reflects process-wide leakage.
func NewRedactor(logger *slog.Logger, notifier alert.Notifier) *Redactor {
	return &Redactor{
		logger:   logger,
		notifier: notifier,
	}
}

// DetectionCount returns the cumulative number of sensitive-data detections
// made by this redactor instance.
func (r *Redactor) DetectionCount() int64 {
	return r.detections.Load()
}

// SanitizeStructured returns a deep copy of the payload with every value
// under a deny-listed key replaced by the redaction marker. Nested objects
// and arrays are walked; non-sensitive keys pass through untouched. The input
// is never mutated.
func (r *Redactor) SanitizeStructured(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	return r.sanitizeMap(payload)
}

func (r *Redactor) sanitizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		if _, sensitive := sensitiveKeys[strings.ToLower(key)]; sensitive {
			out[key] = domain.RedactedMarker
			continue
		}
		out[key] = r.sanitizeValue(value)
	}
	return out
}

func (r *Redactor) sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return r.sanitizeMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = r.sanitizeValue(item)
		}
		return out
	default:
		return val
	}
}

// RedactText scans free-form text (e.g., pre-formatted log lines) and masks
// every match from the sensitive pattern library: API keys and bearer tokens
// collapse to redaction markers, card numbers keep only their last 4 digits,
// and labeled CVV values collapse to "<label>***". Each replacement counts as
// one detection.
func (r *Redactor) RedactText(text string) string {
	// Credential-shaped tokens first so their digit runs cannot be consumed
	// by the card matcher.
	text = apiKeyPattern.ReplaceAllStringFunc(text, func(match string) string {
		r.recordDetection("api_key", match)
		name := apiKeyPattern.FindStringSubmatch(match)[1]
		return name + "=" + domain.RedactedMarker
	})

	text = bearerTokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		r.recordDetection("bearer_token", match)
		return "Bearer " + domain.RedactedMarker
	})

	text = cardNumberPattern.ReplaceAllStringFunc(text, func(match string) string {
		r.recordDetection("card_number", match)
		digits := digitsOnly(match)
		return "****-****-****-" + digits[len(digits)-4:]
	})

	text = cvvPattern.ReplaceAllStringFunc(text, func(match string) string {
		r.recordDetection("cvv", match)
		label := cvvPattern.FindStringSubmatch(match)[1]
		return label + "***"
	})

	return text
}

// MaskIdentifier masks an opaque identifier for logging: identifiers of 8
// characters or fewer collapse to "****", longer ones keep the first and last
// 4 characters around a fixed-width mask.
func (r *Redactor) MaskIdentifier(id string) string {
	return domain.MaskIdentifier(id)
}

// recordDetection increments the detection counter, logs a truncated sample,
// and escalates once the cumulative count crosses the alert threshold.
// Escalation is best-effort and never blocks or fails the caller.
func (r *Redactor) recordDetection(class, sample string) {
	count := r.detections.Add(1)

	truncated := sample
	if len(truncated) > sampleLogLength {
		truncated = truncated[:sampleLogLength]
	}
	r.logger.Warn("sensitive data redacted",
		slog.String("class", class),
		slog.String("sample", truncated+"..."),
		slog.Int64("detections", count),
	)

	if count > domain.DetectionAlertThreshold {
		_ = r.notifier.Notify(context.Background(), alert.Alert{
			Type:     "sensitive_data_detections",
			Message:  "cumulative sensitive data detections exceeded threshold",
			Severity: alert.SeverityCritical,
			Context: map[string]any{
				"detections": count,
				"threshold":  domain.DetectionAlertThreshold,
			},
		})
	}
}
