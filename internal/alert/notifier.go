// Package alert provides best-effort delivery of compliance alerts to an
// external sink. Alert delivery is fire-and-forget: a failure to deliver an
// alert must never fail the payment or audit operation that raised it.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Severity classifies how urgent an alert is.
type Severity string

// Alert severity levels.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is a single notification to the external alert sink.
type Alert struct {
	// Type identifies the alert class (e.g., "compliance_violation",
	// "sensitive_data_detections").
	Type string `json:"type"`
	// Message is a human-readable summary.
	Message string `json:"message"`
	// Severity is the alert severity.
	Severity Severity `json:"severity"`
	// Context carries structured details. It must never contain unredacted
	// sensitive payment data.
	Context map[string]any `json:"context,omitempty"`
}

// Notifier delivers alerts to a sink.
type Notifier interface {
	// Notify delivers the alert. Implementations should honor ctx deadlines.
	Notify(ctx context.Context, a Alert) error
}

// LogNotifier writes alerts to the structured log. Used as the default sink
// when no external alert endpoint is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a Notifier that logs alerts through the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the alert at a level matching its severity.
func (n *LogNotifier) Notify(_ context.Context, a Alert) error {
	attrs := []any{
		slog.String("type", a.Type),
		slog.String("severity", string(a.Severity)),
		slog.Any("context", a.Context),
	}
	switch a.Severity {
	case SeverityCritical:
		n.logger.Error(a.Message, attrs...)
	case SeverityWarning:
		n.logger.Warn(a.Message, attrs...)
	default:
		n.logger.Info(a.Message, attrs...)
	}
	return nil
}

// HTTPNotifier posts alerts as JSON to an external HTTP sink.
type HTTPNotifier struct {
	url    string
	client *http.Client
}

// NewHTTPNotifier creates a Notifier that delivers alerts to the given URL.
func NewHTTPNotifier(url string, timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify posts the alert to the sink. Non-2xx responses are errors.
func (n *HTTPNotifier) Notify(ctx context.Context, a Alert) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver alert: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("alert sink returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier discards all alerts. Used in tests and when alerting is disabled.
type NoopNotifier struct{}

// NewNoopNotifier creates a Notifier that discards alerts.
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

// Notify does nothing.
func (n *NoopNotifier) Notify(_ context.Context, _ Alert) error {
	return nil
}
