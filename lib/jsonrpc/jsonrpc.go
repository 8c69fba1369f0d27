// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/bradwindy/app-intents-mcp/lib/value"
)

// Version is the only protocol version accepted and emitted.
const Version = "2.0"

// Reserved JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// IDKind is the variant of a [RequestID].
type IDKind int

const (
	IDAbsent IDKind = iota
	IDString
	IDInteger
)

// RequestID identifies a request. The zero value is the absent id.
type RequestID struct {
	kind    IDKind
	text    string
	integer int64
}

// StringID returns a string request id.
func StringID(s string) RequestID { return RequestID{kind: IDString, text: s} }

// IntegerID returns an integer request id.
func IntegerID(n int64) RequestID { return RequestID{kind: IDInteger, integer: n} }

// Kind returns the id's variant.
func (id RequestID) Kind() IDKind { return id.kind }

// IsAbsent reports whether the request carried no id (or a null id).
func (id RequestID) IsAbsent() bool { return id.kind == IDAbsent }

// String renders the id for logs. String ids are quoted so "1" and 1
// stay distinguishable.
func (id RequestID) String() string {
	switch id.kind {
	case IDString:
		return strconv.Quote(id.text)
	case IDInteger:
		return strconv.FormatInt(id.integer, 10)
	default:
		return "null"
	}
}

// MarshalJSON encodes the id in its original variant.
func (id RequestID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case IDString:
		return json.Marshal(id.text)
	case IDInteger:
		return []byte(strconv.FormatInt(id.integer, 10)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a string, integer or null id. Fractional
// numbers and every other JSON type are rejected.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	parsed, err := parseID(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func parseID(raw []byte) (RequestID, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return RequestID{}, nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return RequestID{}, fmt.Errorf("invalid string id: %w", err)
		}
		return StringID(s), nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n, err := strconv.ParseInt(string(trimmed), 10, 64)
		if err != nil {
			return RequestID{}, fmt.Errorf("id %s is not an integer", trimmed)
		}
		return IntegerID(n), nil
	}
	return RequestID{}, fmt.Errorf("id must be a string, integer or null")
}

// Request is a decoded JSON-RPC request. Params is nil when the request
// carried no params member.
type Request struct {
	ID     RequestID
	Method string
	Params value.Value
}

// IsNotification reports whether the request has no id.
func (r *Request) IsNotification() bool { return r.ID.IsAbsent() }

// ErrorInfo is the error member of a response.
type ErrorInfo struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    value.Value `json:"data,omitempty"`
}

// Error lets an *ErrorInfo travel through error returns inside the
// dispatcher.
func (e *ErrorInfo) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewError builds an ErrorInfo with a formatted message.
func NewError(code int, format string, args ...any) *ErrorInfo {
	return &ErrorInfo{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Response is a JSON-RPC response. Exactly one of Result and Error must
// be set; use [NewResult] and [NewErrorResponse] to build one.
type Response struct {
	ID     RequestID
	Result value.Value
	Error  *ErrorInfo
}

// NewResult builds a success response. A nil result becomes an empty
// object so the response is never left without a payload.
func NewResult(id RequestID, result value.Value) Response {
	if result == nil {
		result = value.Object{}
	}
	return Response{ID: id, Result: result}
}

// NewErrorResponse builds an error response.
func NewErrorResponse(id RequestID, info *ErrorInfo) Response {
	return Response{ID: id, Error: info}
}

// ErrMalformedResponse is returned when encoding a Response that has
// both a result and an error, or neither.
var ErrMalformedResponse = errors.New("jsonrpc: response must carry exactly one of result or error")

type wireResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      RequestID   `json:"id"`
	Result  value.Value `json:"result,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// MarshalJSON encodes the response, enforcing result/error exclusivity.
func (r Response) MarshalJSON() ([]byte, error) {
	if (r.Result == nil) == (r.Error == nil) {
		return nil, ErrMalformedResponse
	}
	return json.Marshal(wireResponse{
		JSONRPC: Version,
		ID:      r.ID,
		Result:  r.Result,
		Error:   r.Error,
	})
}

// UnmarshalJSON decodes a response, used by clients and tests.
func (r *Response) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	id, err := parseID(members["id"])
	if err != nil {
		return err
	}
	decoded := Response{ID: id}
	if raw, ok := members["result"]; ok {
		if decoded.Result, err = value.Parse(raw); err != nil {
			return err
		}
	}
	if raw, ok := members["error"]; ok && string(bytes.TrimSpace(raw)) != "null" {
		var info struct {
			Code    int             `json:"code"`
			Message string          `json:"message"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &info); err != nil {
			return err
		}
		decoded.Error = &ErrorInfo{Code: info.Code, Message: info.Message}
		if len(info.Data) > 0 {
			if decoded.Error.Data, err = value.Parse(info.Data); err != nil {
				return err
			}
		}
	}
	if (decoded.Result == nil) == (decoded.Error == nil) {
		return ErrMalformedResponse
	}
	*r = decoded
	return nil
}
