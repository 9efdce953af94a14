package errors

import (
	"strings"
	"unicode"
)

// ValidatePositive rejects zero, negative and NaN values for a named option.
func ValidatePositive(field string, v float64) error {
	if !(v > 0) {
		return New(ErrCodeInvalidInput, "%s must be positive, got %v", field, v)
	}
	return nil
}

// ValidateSymbolName validates a symbol name taken from a file name or a
// names file. Names end up in legend sheets and output file names, so they
// must be non-empty, single-line and free of path separators.
func ValidateSymbolName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidPool, "symbol name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidPool, "symbol name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPool, "symbol name contains control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPool, "symbol name cannot contain path separators: %q", name)
	}
	return nil
}
