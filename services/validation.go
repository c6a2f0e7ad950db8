// ABOUTME: Input validation functions for proxied path parameters
// ABOUTME: Prevents URL injection via resource ID validation

package services

import (
	"fmt"
	"regexp"
	"strings"
)

// idPattern matches backend resource IDs (alphanumeric with hyphens and
// underscores, no leading separator). Tight enough to block path traversal.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

// periodPattern matches billing periods in YYYY-MM form.
var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// sanitizeForLog removes control characters from strings to prevent log
// injection when including user input in error messages.
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// ValidateID validates that a resource ID has a safe format before it is
// interpolated into an upstream URL path.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid id format: %s", sanitizeForLog(id))
	}
	return nil
}

// ValidatePeriod validates a billing period string (e.g. "2026-08").
func ValidatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return fmt.Errorf("invalid billing period: %s", sanitizeForLog(period))
	}
	return nil
}
