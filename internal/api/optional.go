package api

import (
	"bytes"
	"encoding/json"
)

// Optional is a PATCH field that distinguishes three states: absent from
// the body (Set is false), explicitly null (Set and Null), or a value.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON is only called when the key is present in the body.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// HasValue reports whether a non-null value was supplied.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// applyTo overwrites dst when the field was supplied. An explicit null
// resets dst to the zero value, which validation then judges.
func (o Optional[T]) applyTo(dst *T) {
	if !o.Set {
		return
	}
	if o.Null {
		var zero T
		*dst = zero
		return
	}
	*dst = o.Value
}

// applyToPtr overwrites a nullable dst when the field was supplied; an
// explicit null clears it.
func (o Optional[T]) applyToPtr(dst **T) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = nil
		return
	}
	v := o.Value
	*dst = &v
}
