// Package service implements the compliance core: sensitive-data pattern
// matching, payload redaction, audit-entry signing, and retention decisions.
//
// The pattern matchers are best-effort heuristics, not a certified PAN
// detector. Card numbers are matched by shape alone (no Luhn checksum), the
// PIN matcher flags any bare 4-6 digit run, and CVV detection relies on simple
// label adjacency. Expect false positives on order numbers, years, and similar
// digit runs; callers combine matches with context-specific handling.
package service

import (
	"regexp"
	"strings"
)

// Compiled matchers, one per sensitive-data class.
var (
	// cardNumberPattern matches 13-19 digit sequences, optionally grouped
	// with single spaces or hyphens (e.g., "4242 4242 4242 4242").
	cardNumberPattern = regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`)

	// cvvPattern matches a 3-4 digit run directly after a label token. Allows
	// quote characters around the separator so labels inside serialized JSON
	// ("cvv":"123") are matched too.
	cvvPattern = regexp.MustCompile(`(?i)\b(cvv2|cvv|cvc|security code)\b["']?\s*[:=]?\s*["']?(\d{3,4})\b`)

	// expiryPattern matches MM/YY or MM/YYYY shaped tokens.
	expiryPattern = regexp.MustCompile(`\b(0[1-9]|1[0-2])/(\d{4}|\d{2})\b`)

	// pinPattern matches bare 4-6 digit runs. Intentionally broad.
	pinPattern = regexp.MustCompile(`\b\d{4,6}\b`)

	// apiKeyPattern matches label-prefixed secret tokens (api_key=..., secret_key: ...).
	apiKeyPattern = regexp.MustCompile(`(?i)\b(api[_-]?key|secret[_-]?key|access[_-]?key)\s*[:=]\s*([A-Za-z0-9._\-]+)`)

	// bearerTokenPattern matches Authorization-style bearer tokens.
	bearerTokenPattern = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._~+/\-]+=*`)
)

// MatchCardNumbers returns all card-number-shaped sequences in the text.
func MatchCardNumbers(text string) []string {
	return cardNumberPattern.FindAllString(text, -1)
}

// ContainsCardNumber reports whether the text contains a card-number-shaped sequence.
func ContainsCardNumber(text string) bool {
	return cardNumberPattern.MatchString(text)
}

// ContainsLabeledCVV reports whether the text contains a CVV/CVC label
// adjacent to a 3-4 digit run.
func ContainsLabeledCVV(text string) bool {
	return cvvPattern.MatchString(text)
}

// MatchExpiryDates returns all MM/YY and MM/YYYY shaped tokens in the text.
func MatchExpiryDates(text string) []string {
	return expiryPattern.FindAllString(text, -1)
}

// MatchPINCandidates returns all bare 4-6 digit runs in the text. The matcher
// over-matches by design; callers decide how much context to require.
func MatchPINCandidates(text string) []string {
	return pinPattern.FindAllString(text, -1)
}

// ContainsAPIKey reports whether the text contains a label-prefixed API key.
func ContainsAPIKey(text string) bool {
	return apiKeyPattern.MatchString(text)
}

// ContainsBearerToken reports whether the text contains a bearer token.
func ContainsBearerToken(text string) bool {
	return bearerTokenPattern.MatchString(text)
}

// digitsOnly strips every non-digit rune from s.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
