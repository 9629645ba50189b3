// Package validate screens user-entered free text before it is stored.
package validate

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// UnsafeInputResult describes why a free-text value was rejected.
type UnsafeInputResult struct {
	Field       string // Name of the field that failed the check
	IsSQLi      bool   // True if a SQL injection pattern was detected
	IsXSS       bool   // True if a cross-site-scripting pattern was detected
	Fingerprint string // libinjection fingerprint for SQLi detections
}

// CheckFreeText screens a free-text value (item names, descriptions, context
// dumps) for injection payloads. Parameterized queries already make stored
// SQLi inert here; the screen exists because these values are echoed back
// into browser-rendered documents and LLM prompts.
//
// Returns nil if the value is clean.
func CheckFreeText(field, value string) *UnsafeInputResult {
	if value == "" {
		return nil
	}

	if isSQLi, fingerprint := libinjection.IsSQLi(value); isSQLi {
		return &UnsafeInputResult{
			Field:       field,
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
		}
	}

	if libinjection.IsXSS(value) {
		return &UnsafeInputResult{
			Field: field,
			IsXSS: true,
		}
	}

	return nil
}

// CheckFields screens multiple named values and returns every failure.
// Returns an empty slice when all values are clean.
func CheckFields(fields map[string]string) []*UnsafeInputResult {
	results := make([]*UnsafeInputResult, 0)
	for field, value := range fields {
		if result := CheckFreeText(field, value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
