// Package optional provides a present/absent wrapper for values whose absence
// must stay distinguishable from their zero value on the wire.
//
// An absent Optional is omitted by encoding/json when the field is tagged
// `omitzero`; a present zero value is encoded as-is.
package optional

import (
	"bytes"
	"encoding/json"
)

// Optional holds a value of type T that may be absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool { return o.set }

// IsZero reports whether the Optional is absent. encoding/json consults it for `omitzero`.
func (o Optional[T]) IsZero() bool { return !o.set }

// ValueOr returns the value when present, fallback otherwise.
func (o Optional[T]) ValueOr(fallback T) T {
	if !o.set {
		return fallback
	}
	return o.value
}

// MarshalJSON encodes the held value, or null when absent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON treats a JSON null as absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
