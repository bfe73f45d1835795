// Package patterns provides the deterministic detection library used both as
// a pre-filter and as the guaranteed fallback when the classifier backend is
// unavailable. Everything here is a pure function over text with zero network
// dependencies.
package patterns

import (
	"regexp"
	"strings"
)

// PIIType is a category of personally identifiable information.
type PIIType string

const (
	SSN        PIIType = "ssn"
	CreditCard PIIType = "credit_card"
	Phone      PIIType = "phone"
	Email      PIIType = "email"
	IPAddress  PIIType = "ip_address"
)

var piiPatterns = map[PIIType]*regexp.Regexp{
	Email:      regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	SSN:        regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	CreditCard: regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
	Phone:      regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
	IPAddress:  regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
}

// detectionOrder fixes the priority between overlapping patterns: more
// specific numeric shapes run before looser ones so a card-like number is not
// consumed by the phone matcher. Placeholders contain no digits or '@', so a
// later pattern can never re-match an already redacted span.
var detectionOrder = []PIIType{SSN, CreditCard, Phone, Email, IPAddress}

// redactionMasks gives each category a unique placeholder so multiple
// detections in one string do not collide.
var redactionMasks = map[PIIType]string{
	SSN:        "[REDACTED_SSN]",
	CreditCard: "[REDACTED_CC]",
	Phone:      "[REDACTED_PHONE]",
	Email:      "[REDACTED_EMAIL]",
	IPAddress:  "[REDACTED_IP]",
}

// Mask returns the redaction placeholder for a PII category.
func Mask(t PIIType) string {
	return redactionMasks[t]
}

// Span is a matched region of the input text.
type Span struct {
	Start int
	End   int
}

// Find returns the spans of every match for the given category.
func Find(text string, t PIIType) []Span {
	re, ok := piiPatterns[t]
	if !ok {
		return nil
	}
	var spans []Span
	for _, loc := range re.FindAllStringIndex(text, -1) {
		spans = append(spans, Span{Start: loc[0], End: loc[1]})
	}
	return spans
}

// DetectPII scans the text for all PII categories in detection order and
// returns the categories found plus the redacted variant. The redacted text
// equals the input with each matched span replaced by its category
// placeholder and no other characters changed.
func DetectPII(text string) ([]string, string) {
	var found []string
	redacted := text
	for _, t := range detectionOrder {
		re := piiPatterns[t]
		if !re.MatchString(redacted) {
			continue
		}
		found = append(found, string(t))
		redacted = re.ReplaceAllString(redacted, redactionMasks[t])
	}
	return found, redacted
}

// Injection phrase families. Scores are derived from the number of distinct
// families matched, not the raw pattern count.
const (
	FamilyInstructionOverride = "instruction_override"
	FamilyRoleManipulation    = "role_manipulation"
	FamilyJailbreak           = "jailbreak"
	FamilySystemProbe         = "system_probe"
)

var injectionPatterns = []struct {
	re     *regexp.Regexp
	family string
}{
	{regexp.MustCompile(`ignore\s+(all\s+)?(previous|prior|above)\s+instructions?`), FamilyInstructionOverride},
	{regexp.MustCompile(`disregard\s+(all\s+)?(previous|prior|above)\s+instructions?`), FamilyInstructionOverride},
	{regexp.MustCompile(`you\s+are\s+now\s+`), FamilyRoleManipulation},
	{regexp.MustCompile(`pretend\s+(to\s+be|you\s+are)`), FamilyRoleManipulation},
	{regexp.MustCompile(`act\s+as\s+(if|though)`), FamilyRoleManipulation},
	{regexp.MustCompile(`developer\s+mode`), FamilyJailbreak},
	{regexp.MustCompile(`\bdan\b`), FamilyJailbreak},
	{regexp.MustCompile(`do\s+anything\s+now`), FamilyJailbreak},
	{regexp.MustCompile(`jailbreak`), FamilyJailbreak},
	{regexp.MustCompile(`bypass\s+(the\s+)?(filter|restriction|rule)`), FamilyJailbreak},
	{regexp.MustCompile(`reveal\s+(your\s+)?(system\s+)?prompt`), FamilySystemProbe},
	{regexp.MustCompile(`what\s+are\s+your\s+instructions`), FamilySystemProbe},
}

// MatchInjection returns the distinct injection families matched in the text
// and the source patterns that fired, in a fixed order.
func MatchInjection(text string) (families []string, matched []string) {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	for _, p := range injectionPatterns {
		if !p.re.MatchString(lower) {
			continue
		}
		matched = append(matched, p.re.String())
		if !seen[p.family] {
			seen[p.family] = true
			families = append(families, p.family)
		}
	}
	return families, matched
}

// SensitiveType is a category of secret a text may solicit from the reader.
type SensitiveType string

const (
	SensitiveSSN         SensitiveType = "ssn"
	SensitiveCreditCard  SensitiveType = "credit_card"
	SensitiveBankAccount SensitiveType = "bank_account"
	SensitivePassword    SensitiveType = "password"
)

// Solicitation patterns pair a verb of request with a sensitive noun inside a
// short window, so "provide your credit card number" matches but a plain
// mention of cards does not.
var sensitiveRequestPatterns = map[SensitiveType][]*regexp.Regexp{
	SensitiveSSN: {
		regexp.MustCompile(`(provide|enter|give|share|what is|tell me).{0,30}(ssn|social security)`),
		regexp.MustCompile(`(ssn|social security).{0,20}(number|#)`),
		regexp.MustCompile(`your social security`),
	},
	SensitiveCreditCard: {
		regexp.MustCompile(`(provide|enter|give|share).{0,30}(credit card|card number|cvv|expir)`),
		regexp.MustCompile(`(credit card|debit card).{0,20}(number|details|info)`),
		regexp.MustCompile(`your (credit|debit) card`),
	},
	SensitiveBankAccount: {
		regexp.MustCompile(`(provide|enter|give|share).{0,30}(bank account|routing number|account number)`),
		regexp.MustCompile(`your bank.{0,20}(account|details|number)`),
	},
	SensitivePassword: {
		regexp.MustCompile(`(provide|enter|give|share|what is).{0,20}(password|pin|passcode)`),
		regexp.MustCompile(`your (password|pin)`),
	},
}

var sensitiveOrder = []SensitiveType{
	SensitiveSSN, SensitiveCreditCard, SensitiveBankAccount, SensitivePassword,
}

// MatchSensitiveRequest returns the sensitive data types the text asks the
// reader to supply. Detection is direction-agnostic: it applies equally to
// user prompts and generated responses.
func MatchSensitiveRequest(text string) []SensitiveType {
	lower := strings.ToLower(text)
	var found []SensitiveType
	for _, t := range sensitiveOrder {
		for _, re := range sensitiveRequestPatterns[t] {
			if re.MatchString(lower) {
				found = append(found, t)
				break
			}
		}
	}
	return found
}

var toxicKeywords = []string{
	"hate", "kill", "die", "stupid", "idiot", "dumb",
	"racist", "sexist", "threat", "attack", "destroy",
}

// ContainsToxicKeyword is the low-reliability toxicity heuristic used when
// the classifier backend is unavailable.
func ContainsToxicKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range toxicKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
