// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import "sort"

// Kind identifies the variant of a [Value].
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lowercase JSON name of the kind, as used in
// validation error messages ("expected string, got object").
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one JSON value. The set of implementations is closed: only
// the six types in this package satisfy it.
type Value interface {
	Kind() Kind
	MarshalJSON() ([]byte, error)
	sealed()
}

// String is a JSON string.
type String string

// Number is a JSON number. Integral literals decode to Number too.
type Number float64

// Bool is a JSON boolean.
type Bool bool

// Null is the JSON null literal.
type Null struct{}

// Array is a JSON array.
type Array []Value

// Object is a JSON object. Key order is not significant.
type Object map[string]Value

func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }
func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }
func (Array) Kind() Kind  { return KindArray }
func (Object) Kind() Kind { return KindObject }

func (String) sealed() {}
func (Number) sealed() {}
func (Bool) sealed()   {}
func (Null) sealed()   {}
func (Array) sealed()  {}
func (Object) sealed() {}

// Get returns the member stored under key.
func (o Object) Get(key string) (Value, bool) {
	member, ok := o[key]
	return member, ok
}

// Keys returns the object's keys in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for key := range o {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// KindOf returns the kind of v, treating a nil (absent) value as null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// IsNull reports whether v is absent or the null literal.
func IsNull(v Value) bool {
	return v == nil || v.Kind() == KindNull
}

// AsString returns the string held by v, if v is a [String].
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// AsNumber returns the number held by v, if v is a [Number].
func AsNumber(v Value) (float64, bool) {
	n, ok := v.(Number)
	return float64(n), ok
}

// AsBool returns the boolean held by v, if v is a [Bool].
func AsBool(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return bool(b), ok
}

// AsArray returns the elements of v, if v is an [Array].
func AsArray(v Value) (Array, bool) {
	a, ok := v.(Array)
	return a, ok
}

// AsObject returns the members of v, if v is an [Object].
func AsObject(v Value) (Object, bool) {
	o, ok := v.(Object)
	return o, ok
}

// Equal reports whether a and b are structurally equal. Object member
// order never matters; array element order does. Absent and null are
// not equal: callers that want to conflate them check [IsNull] first.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch left := a.(type) {
	case String:
		return left == b.(String)
	case Number:
		return left == b.(Number)
	case Bool:
		return left == b.(Bool)
	case Null:
		return true
	case Array:
		right := b.(Array)
		if len(left) != len(right) {
			return false
		}
		for i := range left {
			if !Equal(left[i], right[i]) {
				return false
			}
		}
		return true
	case Object:
		right := b.(Object)
		if len(left) != len(right) {
			return false
		}
		for key, member := range left {
			other, ok := right[key]
			if !ok || !Equal(member, other) {
				return false
			}
		}
		return true
	}
	return false
}
