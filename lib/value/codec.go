// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// maxDepth bounds array/object nesting during Parse so a hostile
// document cannot exhaust the goroutine stack.
const maxDepth = 512

// ErrSyntax is wrapped by every error Parse returns for input that is
// not exactly one well-formed JSON document.
var ErrSyntax = errors.New("value: invalid JSON")

// Parse decodes exactly one JSON document into a Value. Leading and
// trailing whitespace is allowed; any other trailing content is an
// error.
func Parse(data []byte) (Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	parsed, err := parseNext(decoder, 0)
	if err != nil {
		return nil, err
	}

	if _, err := decoder.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("%w: trailing data after document", ErrSyntax)
		}
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return parsed, nil
}

func parseNext(decoder *json.Decoder, depth int) (Value, error) {
	token, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
		}
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return parseToken(decoder, token, depth)
}

func parseToken(decoder *json.Decoder, token json.Token, depth int) (Value, error) {
	switch t := token.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: number %s out of range", ErrSyntax, t)
		}
		return Number(f), nil
	case json.Delim:
		if depth >= maxDepth {
			return nil, fmt.Errorf("%w: nesting deeper than %d", ErrSyntax, maxDepth)
		}
		switch t {
		case '[':
			return parseArray(decoder, depth+1)
		case '{':
			return parseObject(decoder, depth+1)
		}
	}
	return nil, fmt.Errorf("%w: unexpected token %v", ErrSyntax, token)
}

func parseArray(decoder *json.Decoder, depth int) (Value, error) {
	elements := Array{}
	for decoder.More() {
		element, err := parseNext(decoder, depth)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return elements, nil
}

func parseObject(decoder *json.Decoder, depth int) (Value, error) {
	members := Object{}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key %v is not a string", ErrSyntax, keyToken)
		}
		member, err := parseNext(decoder, depth)
		if err != nil {
			return nil, err
		}
		// Duplicate keys: the last occurrence wins, matching
		// encoding/json, so keys stay unique.
		members[key] = member
	}
	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return members, nil
}

// Marshal encodes v as compact JSON. Object keys are written in sorted
// order so equal values always encode to identical bytes. A nil Value
// encodes as null. NaN and infinite numbers cannot be encoded.
func Marshal(v Value) ([]byte, error) {
	return appendValue(nil, v)
}

// MarshalIndent is like [Marshal] but applies indentation.
func MarshalIndent(v Value, prefix, indent string) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buffer bytes.Buffer
	if err := json.Indent(&buffer, compact, prefix, indent); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Of converts a Go value into a Value. Values pass through unchanged;
// anything else is encoded with encoding/json and parsed back, so
// struct tags (including omitempty) shape the result.
func Of(v any) (Value, error) {
	if existing, ok := v.(Value); ok {
		return existing, nil
	}
	if v == nil {
		return Null{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value: encoding %T: %w", v, err)
	}
	return Parse(data)
}

func (s String) MarshalJSON() ([]byte, error) { return appendValue(nil, s) }
func (n Number) MarshalJSON() ([]byte, error) { return appendValue(nil, n) }
func (b Bool) MarshalJSON() ([]byte, error)   { return appendValue(nil, b) }
func (n Null) MarshalJSON() ([]byte, error)   { return appendValue(nil, n) }
func (a Array) MarshalJSON() ([]byte, error)  { return appendValue(nil, a) }
func (o Object) MarshalJSON() ([]byte, error) { return appendValue(nil, o) }

func appendValue(buffer []byte, v Value) ([]byte, error) {
	if v == nil {
		return append(buffer, "null"...), nil
	}
	switch t := v.(type) {
	case Null:
		return append(buffer, "null"...), nil
	case Bool:
		return strconv.AppendBool(buffer, bool(t)), nil
	case Number:
		return appendNumber(buffer, float64(t))
	case String:
		return appendString(buffer, string(t))
	case Array:
		if t == nil {
			return append(buffer, "[]"...), nil
		}
		buffer = append(buffer, '[')
		for i, element := range t {
			if i > 0 {
				buffer = append(buffer, ',')
			}
			var err error
			if buffer, err = appendValue(buffer, element); err != nil {
				return nil, err
			}
		}
		return append(buffer, ']'), nil
	case Object:
		buffer = append(buffer, '{')
		for i, key := range t.Keys() {
			if i > 0 {
				buffer = append(buffer, ',')
			}
			var err error
			if buffer, err = appendString(buffer, key); err != nil {
				return nil, err
			}
			buffer = append(buffer, ':')
			if buffer, err = appendValue(buffer, t[key]); err != nil {
				return nil, err
			}
		}
		return append(buffer, '}'), nil
	}
	return nil, fmt.Errorf("value: unknown variant %T", v)
}

// appendNumber formats f the way encoding/json does: plain decimal
// notation between 1e-6 and 1e21, exponent notation outside it.
func appendNumber(buffer []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("value: unsupported number %v", f)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	buffer = strconv.AppendFloat(buffer, f, format, -1, 64)
	if format == 'e' {
		// Clean up e-09 to e-9.
		n := len(buffer)
		if n >= 4 && buffer[n-4] == 'e' && buffer[n-3] == '-' && buffer[n-2] == '0' {
			buffer[n-2] = buffer[n-1]
			buffer = buffer[:n-1]
		}
	}
	return buffer, nil
}

func appendString(buffer []byte, s string) ([]byte, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(buffer, encoded...), nil
}
