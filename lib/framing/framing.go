// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framing

import (
	"errors"
	"fmt"
	"io"
)

// Framer reads and writes discrete message bodies over a byte stream.
// A Framer is owned by a single reader goroutine and a single writer
// goroutine; it is not safe for concurrent calls to the same method.
type Framer interface {
	// ReadMessage returns the next message body. It returns
	// [ErrEndOfInput] when the stream ends cleanly between messages.
	ReadMessage() ([]byte, error)

	// WriteMessage frames body and writes it to the stream, flushing
	// before returning.
	WriteMessage(body []byte) error
}

// Strategy names a framing strategy.
type Strategy string

const (
	// StrategyLine delimits messages with a single '\n'.
	StrategyLine Strategy = "line"

	// StrategyHeader prefixes each message with a Content-Length
	// header block.
	StrategyHeader Strategy = "header"
)

// ParseStrategy validates a strategy name from flags or config.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyLine, StrategyHeader:
		return Strategy(name), nil
	}
	return "", fmt.Errorf("unknown framing strategy %q (want %q or %q)", name, StrategyLine, StrategyHeader)
}

// Limits constrains the size of a single message body.
type Limits struct {
	MaxBodyBytes int
}

// DefaultLimits returns the limits used when a zero Limits is supplied.
func DefaultLimits() Limits {
	return Limits{MaxBodyBytes: 16 * 1024 * 1024}
}

func (l Limits) normalized() Limits {
	if l.MaxBodyBytes <= 0 {
		return DefaultLimits()
	}
	return l
}

var (
	// ErrEndOfInput is returned by ReadMessage when the stream ends
	// while waiting for the start of a message.
	ErrEndOfInput = errors.New("framing: end of input")

	// ErrTruncated is returned when the stream ends in the middle of a
	// message (inside a header block or before the declared body length
	// was read).
	ErrTruncated = errors.New("framing: stream ended inside a message")

	// ErrFraming is wrapped by every recoverable framing error. The
	// framer has already resynchronized to the next message boundary
	// when one of these is returned, so the caller may keep reading.
	ErrFraming = errors.New("framing error")

	ErrMissingContentLength = fmt.Errorf("%w: missing Content-Length header", ErrFraming)
	ErrInvalidContentLength = fmt.Errorf("%w: invalid Content-Length header", ErrFraming)
	ErrMalformedHeader      = fmt.Errorf("%w: malformed header line", ErrFraming)
	ErrBodyTooLarge         = fmt.Errorf("%w: message body exceeds limit", ErrFraming)
)

// New returns a Framer for the given strategy.
func New(strategy Strategy, r io.Reader, w io.Writer, limits Limits) (Framer, error) {
	switch strategy {
	case StrategyLine:
		return NewLineFramer(r, w, limits), nil
	case StrategyHeader:
		return NewHeaderFramer(r, w, limits), nil
	}
	return nil, fmt.Errorf("unknown framing strategy %q", strategy)
}
