package domain

import (
	"fmt"
	"sync/atomic"

	validation "github.com/jellydator/validation"

	"github.com/allisson/paytrust/internal/errors"
)

// Policy is the compliance configuration consumed by every component on every
// call. It is a value object: validated at construction and immutable until
// explicitly replaced through a PolicyHolder swap.
type Policy struct {
	// AllowedPaymentMethods is the set of accepted payment method names.
	// Must be non-empty.
	AllowedPaymentMethods []string
	// MerchantID is an opaque merchant identifier. Never logged unmasked.
	MerchantID string
	// MaxDataRetentionDays is the retention window for stored payment artifacts.
	MaxDataRetentionDays int
	// AutoDeleteExpiredData enables the retention sweep to delete expired artifacts.
	AutoDeleteExpiredData bool
	// EnforceStrongEncryption makes audits warn when a request lacks the
	// transport encryption flag.
	EnforceStrongEncryption bool
	// RequireTokenization makes audits fail requests carrying neither a token
	// nor a payment method reference.
	RequireTokenization bool
	// EnableFraudDetection enables fraud detection heuristics.
	EnableFraudDetection bool
	// LogAllTransactions logs every audited exchange, compliant or not.
	LogAllTransactions bool
	// AlertOnSuspiciousActivity raises alerts for non-compliant exchanges.
	AlertOnSuspiciousActivity bool

	// methods is the validated method set for O(1) allow-list lookups.
	methods map[string]struct{}
}

// NewPolicy validates the given policy and returns it together with any
// construction-time warnings. Validation failures wrap ErrConfiguration and
// must abort process startup. Warnings (e.g., retention below the regulatory
// floor) never hard-fail: regulators require *at least* RetentionFloorDays,
// but the operator stays in control of the configured value.
func NewPolicy(p Policy) (*Policy, []string, error) {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.AllowedPaymentMethods,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.Required, validation.Length(1, 64)),
		),
		validation.Field(&p.MerchantID,
			validation.Required,
			validation.Length(1, 255),
		),
		validation.Field(&p.MaxDataRetentionDays,
			validation.Required,
			validation.Min(1),
		),
	)
	if err != nil {
		return nil, nil, errors.Wrap(ErrInvalidPolicy, err.Error())
	}

	var warnings []string
	if p.MaxDataRetentionDays < RetentionFloorDays {
		warnings = append(warnings, fmt.Sprintf(
			"max data retention of %d days is below the %d-day compliance floor",
			p.MaxDataRetentionDays, RetentionFloorDays,
		))
	}

	p.methods = make(map[string]struct{}, len(p.AllowedPaymentMethods))
	for _, m := range p.AllowedPaymentMethods {
		p.methods[m] = struct{}{}
	}

	return &p, warnings, nil
}

// MethodAllowed reports whether the payment method is in the allow-list.
func (p *Policy) MethodAllowed(method string) bool {
	_, ok := p.methods[method]
	return ok
}

// MaskedMerchantID returns the merchant ID in its masked log-safe form:
// first 4 characters + "****" + last 4 characters, or a fixed "****" for
// identifiers of 8 characters or fewer. Downstream log consumers depend on
// this fixed-width shape for redaction audits.
func (p *Policy) MaskedMerchantID() string {
	return MaskIdentifier(p.MerchantID)
}

// MaskIdentifier masks an opaque identifier (merchant ID, account number) for
// logging. Identifiers of 8 characters or fewer collapse to "****"; longer
// identifiers keep only the first and last 4 characters.
func MaskIdentifier(id string) string {
	if len(id) <= 8 {
		return "****"
	}
	return id[:4] + "****" + id[len(id)-4:]
}

// PolicyHolder provides atomic whole-object policy replacement so that no
// in-flight audit observes a half-updated configuration. Readers call Load
// once per operation and work against that snapshot.
type PolicyHolder struct {
	current atomic.Pointer[Policy]
}

// NewPolicyHolder creates a holder seeded with the given validated policy.
func NewPolicyHolder(p *Policy) *PolicyHolder {
	h := &PolicyHolder{}
	h.current.Store(p)
	return h
}

// Load returns the current policy snapshot.
func (h *PolicyHolder) Load() *Policy {
	return h.current.Load()
}

// Update validates the replacement policy and swaps it in atomically.
// Returns construction-time warnings from the new policy. The previous policy
// remains in effect if validation fails.
func (h *PolicyHolder) Update(p Policy) ([]string, error) {
	validated, warnings, err := NewPolicy(p)
	if err != nil {
		return nil, err
	}
	h.current.Store(validated)
	return warnings, nil
}
