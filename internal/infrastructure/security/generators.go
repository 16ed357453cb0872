// Package security provides identifier generation utilities
package security

import (
	"github.com/oklog/ulid/v2"
)

// GenerateULID generates a new ULID string.
func GenerateULID() string {
	return ulid.Make().String()
}

// IsValidULID reports whether s is a canonical ULID string
func IsValidULID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
