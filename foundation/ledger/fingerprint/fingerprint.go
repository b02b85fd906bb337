// Package fingerprint produces deterministic content fingerprints for
// ledger values.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SerializationError is returned when a value cannot be serialized into
// its canonical form for hashing.
type SerializationError struct {
	Type string
	Err  error
}

// Error implements the error interface.
func (se *SerializationError) Error() string {
	return fmt.Sprintf("unable to serialize value of type %s: %s", se.Type, se.Err)
}

// Unwrap provides access to the underlying encoding error.
func (se *SerializationError) Unwrap() error {
	return se.Err
}

// =============================================================================

// Hash returns the unique fingerprint for the value by serializing it into
// its canonical JSON form and performing a SHA-256 hashing operation. The
// encoding/json package writes map keys in sorted order at every nesting
// level, so two structurally equal values always produce the same
// fingerprint regardless of construction order. Struct types hashed by the
// ledger declare their fields in tag-sorted order to keep the full
// serialization canonical.
func Hash(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", &SerializationError{Type: fmt.Sprintf("%T", value), Err: err}
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
