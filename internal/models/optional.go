package models

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that remembers whether its key appeared in the
// payload. Set is false when the key was absent; Value is nil when the key
// was present with a null value. Plain pointers cannot tell those apart,
// and updates treat them differently (leave untouched vs. clear).
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Get returns the inner value, or the zero value when the field is unset
// or null.
func (o Optional[T]) Get() T {
	if o.Value == nil {
		var zero T
		return zero
	}
	return *o.Value
}
