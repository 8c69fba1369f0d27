// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package framing delimits JSON message bodies on a duplex byte stream.
//
// Two strategies are provided, selected once per connection:
//
//   - [LineFramer]: one body per line. Outbound bodies have every '\n'
//     and '\r' removed before the terminating '\n' is appended, so a
//     pretty-printed payload cannot split a record. Inbound, a trailing
//     '\r' is trimmed and blank lines are skipped.
//   - [HeaderFramer]: each body is preceded by "Content-Length: N\r\n\r\n"
//     and read as exactly N raw bytes, embedded newlines included.
//
// Both framers buffer reads internally, so short reads from the
// underlying reader are reassembled and bytes belonging to the next
// message are retained for the next call.
//
// End of stream between messages is reported as [ErrEndOfInput], which
// callers treat as a clean shutdown. Errors wrapping [ErrFraming] mean
// one message was rejected and the stream has been resynchronized; the
// caller can keep reading. [ErrTruncated] means the stream ended inside
// a message.
package framing
