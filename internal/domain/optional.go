package domain

import (
	"bytes"
	"encoding/json"
)

// Optional models a single field of a partial-update payload. Present is
// true iff the key appeared in the input at all; an explicitly null value
// sets Null and leaves Value at the zero value. Merge decisions must look
// at Present, never at the value itself: an absent key is a no-op, a
// present zero value overwrites.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Some returns a present Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// Null returns a present, explicitly-null Optional.
func NullOptional[T any]() Optional[T] {
	return Optional[T]{Present: true, Null: true}
}

var jsonNull = []byte("null")

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// which is exactly what marks the field as set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON renders the value, or null when the field was set to null.
// Absent fields still produce "null"; callers that need to distinguish
// must check Present before serializing.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Null {
		return jsonNull, nil
	}
	return json.Marshal(o.Value)
}
