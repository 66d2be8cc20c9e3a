package errors

import (
	"strings"
	"unicode"
)

// maxItemIDLength bounds item identifiers accepted by the deck.
const maxItemIDLength = 128

// ValidateItemID validates a deck item identifier.
//
// Identifiers end up in surface element names, z-index projections, DOT
// node names and storage keys, so the rules are conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of 128 characters
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidIdentifier, "item id cannot be empty")
	}

	if len(id) > maxItemIDLength {
		return New(ErrCodeInvalidIdentifier, "item id too long (max %d characters)", maxItemIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIdentifier, "item id %q contains control characters", id)
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidIdentifier, "item id %q has surrounding whitespace", id)
	}

	return nil
}

// ValidateDeckName validates a deck name used as a snapshot key.
// It rejects names that could escape a storage namespace.
func ValidateDeckName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "deck name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "deck name too long (max 64 characters)")
	}

	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.') {
			return New(ErrCodeInvalidInput, "deck name contains invalid character %q", r)
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "deck name cannot contain path traversal sequences (..)")
	}

	return nil
}
