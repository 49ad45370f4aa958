package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxIDLength bounds taxon identifiers and configuration keys.
const maxIDLength = 256

// ValidateTaxonID validates a taxon identifier read from external input.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No surrounding whitespace
//   - Maximum length of 256 characters
func ValidateTaxonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "taxon id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "taxon id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "taxon id contains invalid control characters")
		}
	}
	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "taxon id %q has surrounding whitespace", id)
	}
	return nil
}

// ValidateConfigurationKey validates an inference configuration key.
// Keys are opaque to the index; only emptiness and control characters matter.
func ValidateConfigurationKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "configuration key cannot be empty")
	}
	if len(key) > maxIDLength {
		return New(ErrCodeInvalidInput, "configuration key too long (max %d characters)", maxIDLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "configuration key contains invalid control characters")
		}
	}
	return nil
}

// ValidateTime rejects NaN and infinite time values.
// Callers map missing destruction times to the observation ceiling before
// validation.
func ValidateTime(name string, t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number, got %v", name, t)
	}
	return nil
}

// ValidateBounds checks that an estimate's bounds are ordered and finite and
// that its confidence lies in [0, 1].
func ValidateBounds(lower, upper, confidence float64) error {
	if err := ValidateTime("lower bound", lower); err != nil {
		return err
	}
	if err := ValidateTime("upper bound", upper); err != nil {
		return err
	}
	if lower > upper {
		return New(ErrCodeInvalidInput, "lower bound %g exceeds upper bound %g", lower, upper)
	}
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return New(ErrCodeInvalidInput, "confidence must be within [0, 1], got %v", confidence)
	}
	return nil
}
