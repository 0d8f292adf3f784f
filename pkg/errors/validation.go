package errors

import (
	"strings"
	"unicode"
)

// ValidatePlanogramID validates an id used as a storage key. File-backed
// stores build paths from the id, so anything that could escape the
// storage directory is rejected.
func ValidatePlanogramID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "planogram id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidID, "planogram id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "planogram id contains control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "planogram id contains invalid sequence %q", pattern)
		}
	}
	return nil
}

// ValidateSKU validates a product SKU used as a cache and catalog key.
func ValidateSKU(sku string) error {
	if sku == "" {
		return New(ErrCodeInvalidInput, "sku cannot be empty")
	}
	if len(sku) > 64 {
		return New(ErrCodeInvalidInput, "sku too long (max 64 characters)")
	}
	for _, r := range sku {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "sku contains whitespace or control characters")
		}
	}
	return nil
}
