// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"github.com/bradwindy/app-intents-mcp/lib/jsonrpc"
	"github.com/bradwindy/app-intents-mcp/lib/value"
)

func invalidParams(format string, args ...any) *jsonrpc.ErrorInfo {
	return jsonrpc.NewError(jsonrpc.CodeInvalidParams, format, args...)
}

// objectParams returns params as an object. Absent or null params are
// an empty object; any other variant is InvalidParams.
func objectParams(params value.Value, what string) (value.Object, *jsonrpc.ErrorInfo) {
	if value.IsNull(params) {
		return value.Object{}, nil
	}
	object, ok := value.AsObject(params)
	if !ok {
		return nil, invalidParams("%s must be an object, got %s", what, value.KindOf(params))
	}
	return object, nil
}

// requiredString returns the string member key of object.
func requiredString(object value.Object, key string) (string, *jsonrpc.ErrorInfo) {
	member, ok := object.Get(key)
	if !ok || value.IsNull(member) {
		return "", invalidParams("missing required argument %q", key)
	}
	s, ok := value.AsString(member)
	if !ok {
		return "", invalidParams("argument %q must be a string, got %s", key, value.KindOf(member))
	}
	return s, nil
}

// optionalString returns the string member key of object, or "" when
// it is absent or null.
func optionalString(object value.Object, key string) (string, *jsonrpc.ErrorInfo) {
	member, ok := object.Get(key)
	if !ok || value.IsNull(member) {
		return "", nil
	}
	s, ok := value.AsString(member)
	if !ok {
		return "", invalidParams("argument %q must be a string, got %s", key, value.KindOf(member))
	}
	return s, nil
}
