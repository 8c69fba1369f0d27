// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package jsonrpc defines the JSON-RPC 2.0 envelopes exchanged with the
// assistant client: [Request], [Response] and [ErrorInfo], plus the
// request identifier type [RequestID].
//
// Two invariants are enforced here rather than left to callers:
//
//   - A RequestID keeps its variant. A string id "1" and an integer id
//     1 are different identifiers and are echoed back exactly as they
//     arrived; an absent id is echoed as null.
//   - A Response carries exactly one of result or error. Encoding a
//     Response with both or neither fails.
//
// [DecodeRequest] tolerates field reordering and unknown envelope keys.
// It reports failures as a [*DecodeError] carrying the reserved code the
// dispatcher should reply with: [CodeParseError] when the body is not
// JSON at all, [CodeInvalidRequest] when it is JSON but not a request.
package jsonrpc
