// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonrpc

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bradwindy/app-intents-mcp/lib/value"
)

func TestDecodeRequestIDVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want RequestID
	}{
		{"string", `{"jsonrpc":"2.0","id":"abc","method":"ping"}`, StringID("abc")},
		{"numeric string", `{"jsonrpc":"2.0","id":"1","method":"ping"}`, StringID("1")},
		{"integer", `{"jsonrpc":"2.0","id":7,"method":"ping"}`, IntegerID(7)},
		{"negative", `{"jsonrpc":"2.0","id":-3,"method":"ping"}`, IntegerID(-3)},
		{"absent", `{"jsonrpc":"2.0","method":"initialized"}`, RequestID{}},
		{"null", `{"jsonrpc":"2.0","id":null,"method":"initialized"}`, RequestID{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			request, err := DecodeRequest([]byte(test.body))
			if err != nil {
				t.Fatalf("DecodeRequest: %v", err)
			}
			if request.ID != test.want {
				t.Errorf("id = %v (kind %d), want %v (kind %d)", request.ID, request.ID.Kind(), test.want, test.want.Kind())
			}
		})
	}
}

func TestRequestIDEchoPreservesVariant(t *testing.T) {
	for _, id := range []RequestID{StringID("1"), IntegerID(1), {}} {
		data, err := json.Marshal(NewResult(id, value.Object{}))
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var decoded Response
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal %s: %v", data, err)
		}
		if decoded.ID != id {
			t.Errorf("echoed id %v, want %v (wire %s)", decoded.ID, id, data)
		}
	}
	if StringID("1") == IntegerID(1) {
		t.Error("string and integer ids must not compare equal")
	}
}

func TestDecodeRequestIgnoresOrderAndUnknownKeys(t *testing.T) {
	body := `{"params":{"name":"get_intent","arguments":{"intent_id":"a.b.Create"},"extra":[1]},"method":"tools/call","trace":"x","id":3,"jsonrpc":"2.0"}`
	request, err := DecodeRequest([]byte(body))
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if request.Method != "tools/call" {
		t.Errorf("method = %q", request.Method)
	}
	params, ok := value.AsObject(request.Params)
	if !ok {
		t.Fatalf("params kind = %v", value.KindOf(request.Params))
	}
	if _, ok := params.Get("extra"); !ok {
		t.Error("unknown params key dropped")
	}
}

func TestDecodeRequestFailures(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantID   RequestID
	}{
		{"not json", `{"jsonrpc":`, CodeParseError, RequestID{}},
		{"array envelope", `[1,2]`, CodeInvalidRequest, RequestID{}},
		{"method object", `{"jsonrpc":"2.0","id":4,"method":{"x":1}}`, CodeInvalidRequest, IntegerID(4)},
		{"missing method", `{"jsonrpc":"2.0","id":"q"}`, CodeInvalidRequest, StringID("q")},
		{"wrong version", `{"jsonrpc":"1.0","id":1,"method":"ping"}`, CodeInvalidRequest, IntegerID(1)},
		{"missing version", `{"id":1,"method":"ping"}`, CodeInvalidRequest, IntegerID(1)},
		{"fractional id", `{"jsonrpc":"2.0","id":1.5,"method":"ping"}`, CodeInvalidRequest, RequestID{}},
		{"boolean id", `{"jsonrpc":"2.0","id":true,"method":"ping"}`, CodeInvalidRequest, RequestID{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(test.body))
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected *DecodeError, got %v", err)
			}
			if decodeErr.Code != test.wantCode {
				t.Errorf("code = %d, want %d (%s)", decodeErr.Code, test.wantCode, decodeErr.Message)
			}
			if decodeErr.ID != test.wantID {
				t.Errorf("id = %v, want %v", decodeErr.ID, test.wantID)
			}
		})
	}
}

func TestResponseExclusivity(t *testing.T) {
	if _, err := json.Marshal(Response{ID: IntegerID(1)}); err == nil {
		t.Error("response with neither result nor error encoded")
	}
	both := Response{ID: IntegerID(1), Result: value.Object{}, Error: NewError(CodeInternalError, "x")}
	if _, err := json.Marshal(both); err == nil {
		t.Error("response with both result and error encoded")
	}

	data, err := json.Marshal(NewErrorResponse(StringID("a"), NewError(CodeMethodNotFound, "unknown method: %s", "foo/bar")))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text := string(data)
	if strings.Contains(text, `"result"`) {
		t.Errorf("error response carries result: %s", text)
	}
	if !strings.Contains(text, `"code":-32601`) || !strings.Contains(text, `"id":"a"`) {
		t.Errorf("unexpected encoding: %s", text)
	}
}

func TestNewResultDefaultsToEmptyObject(t *testing.T) {
	data, err := json.Marshal(NewResult(RequestID{}, nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"jsonrpc":"2.0","id":null,"result":{}}` {
		t.Errorf("encoding = %s", data)
	}
}

func TestEncodeRequestRoundTrip(t *testing.T) {
	original := Request{ID: StringID("r1"), Method: "tools/call", Params: value.Object{"name": value.String("list_intents")}}
	data, err := EncodeRequest(original)
	if err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	decoded, err := DecodeRequest(data)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if decoded.ID != original.ID || decoded.Method != original.Method || !value.Equal(decoded.Params, original.Params) {
		t.Errorf("roundtrip mismatch: %+v", decoded)
	}

	notification, err := EncodeRequest(Request{Method: "initialized"})
	if err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	if strings.Contains(string(notification), `"id"`) {
		t.Errorf("notification encoded an id: %s", notification)
	}
}
