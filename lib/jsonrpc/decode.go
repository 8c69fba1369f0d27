// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bradwindy/app-intents-mcp/lib/value"
)

// DecodeError reports why a message body could not be decoded into a
// Request. Code is the reserved error code to answer with; ID is the
// request id when it could be recovered, so the error response can
// still be correlated.
type DecodeError struct {
	Code    int
	Message string
	ID      RequestID
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding request: %s", e.Message)
}

// Info converts the decode failure into the error member of a response.
func (e *DecodeError) Info() *ErrorInfo {
	return &ErrorInfo{Code: e.Code, Message: e.Message}
}

// DecodeRequest decodes one message body. Envelope members may appear
// in any order; members other than jsonrpc, id, method and params are
// ignored. The params member is decoded into a [value.Value] verbatim,
// so unknown keys inside it are preserved.
func DecodeRequest(body []byte) (Request, error) {
	if !json.Valid(body) {
		return Request{}, &DecodeError{Code: CodeParseError, Message: "parse error: body is not valid JSON"}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Request{}, &DecodeError{Code: CodeInvalidRequest, Message: "invalid request: envelope must be a JSON object"}
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &members); err != nil {
		return Request{}, &DecodeError{Code: CodeInvalidRequest, Message: "invalid request: " + err.Error()}
	}

	// Recover the id first so every later failure can echo it.
	id, err := parseID(members["id"])
	if err != nil {
		return Request{}, &DecodeError{Code: CodeInvalidRequest, Message: "invalid request: " + err.Error()}
	}

	var version string
	if raw, ok := members["jsonrpc"]; !ok || json.Unmarshal(raw, &version) != nil || version != Version {
		return Request{}, &DecodeError{Code: CodeInvalidRequest, Message: `invalid request: jsonrpc must be "2.0"`, ID: id}
	}

	rawMethod, ok := members["method"]
	if !ok {
		return Request{}, &DecodeError{Code: CodeInvalidRequest, Message: "invalid request: missing method", ID: id}
	}
	methodValue, err := value.Parse(rawMethod)
	if err != nil {
		return Request{}, &DecodeError{Code: CodeInvalidRequest, Message: "invalid request: " + err.Error(), ID: id}
	}
	method, ok := value.AsString(methodValue)
	if !ok {
		return Request{}, &DecodeError{
			Code:    CodeInvalidRequest,
			Message: fmt.Sprintf("invalid request: method must be a string, got %s", methodValue.Kind()),
			ID:      id,
		}
	}

	request := Request{ID: id, Method: method}
	if raw, ok := members["params"]; ok {
		params, err := value.Parse(raw)
		if err != nil {
			return Request{}, &DecodeError{Code: CodeInvalidRequest, Message: "invalid request: " + err.Error(), ID: id}
		}
		request.Params = params
	}
	return request, nil
}

// EncodeRequest encodes a request. Used by tests and by clients of the
// protocol; the server itself only decodes requests.
func EncodeRequest(request Request) ([]byte, error) {
	envelope := struct {
		JSONRPC string      `json:"jsonrpc"`
		ID      *RequestID  `json:"id,omitempty"`
		Method  string      `json:"method"`
		Params  value.Value `json:"params,omitempty"`
	}{
		JSONRPC: Version,
		Method:  request.Method,
		Params:  request.Params,
	}
	if !request.ID.IsAbsent() {
		id := request.ID
		envelope.ID = &id
	}
	return json.Marshal(envelope)
}
