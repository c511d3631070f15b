package domain

// RetentionFloorDays is the compliant minimum retention window for payment
// artifacts. Regulators require records to be kept for at least this long.
// Policies configured below the floor are accepted but flagged with a warning
// at construction time.
const RetentionFloorDays = 90

// RedactedMarker replaces the value of any sensitive key during sanitization.
const RedactedMarker = "[REDACTED]"

// DetectionAlertThreshold is the cumulative detection count at which a
// redactor escalates to a critical alert. Checked after each detection.
const DetectionAlertThreshold = 10

// Known payment methods used in examples and defaults. The policy accepts any
// non-empty set of method names; these are not an allow-list by themselves.
const (
	MethodCard         = "card"
	MethodWallet       = "wallet"
	MethodBankTransfer = "bank_transfer"
)
