// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framing

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// LineFramer implements newline-delimited framing: one message per
// line, with a trailing '\r' tolerated on input.
type LineFramer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	limits Limits
}

// NewLineFramer returns a LineFramer reading from r and writing to w.
func NewLineFramer(r io.Reader, w io.Writer, limits Limits) *LineFramer {
	return &LineFramer{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
		limits: limits.normalized(),
	}
}

// EncodeLine returns body with every '\n' and '\r' removed, followed by
// a single '\n'. The stripped characters can only appear as insignificant
// whitespace in a JSON document (string contents escape them).
func EncodeLine(body []byte) []byte {
	encoded := make([]byte, 0, len(body)+1)
	for _, b := range body {
		if b == '\n' || b == '\r' {
			continue
		}
		encoded = append(encoded, b)
	}
	return append(encoded, '\n')
}

// ReadMessage returns the next non-blank line. A final line without a
// terminating '\n' is still returned; the call after it reports
// [ErrEndOfInput].
func (f *LineFramer) ReadMessage() ([]byte, error) {
	for {
		record, readErr := f.readRecord()
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, readErr
		}
		record = bytes.TrimSuffix(record, []byte{'\r'})
		if len(bytes.TrimSpace(record)) > 0 {
			return record, nil
		}
		if readErr != nil {
			return nil, ErrEndOfInput
		}
	}
}

// readRecord reads up to and excluding the next '\n'. An over-long line
// is consumed in full so the next call starts on a fresh line.
func (f *LineFramer) readRecord() ([]byte, error) {
	var record []byte
	overflow := false
	for {
		chunk, err := f.reader.ReadSlice('\n')
		if !overflow {
			if len(record)+len(chunk) > f.limits.MaxBodyBytes+1 {
				overflow = true
				record = nil
			} else {
				record = append(record, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if overflow {
			return nil, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, f.limits.MaxBodyBytes)
		}
		if err != nil {
			return record, err
		}
		return record[:len(record)-1], nil
	}
}

// WriteMessage writes body as a single line.
func (f *LineFramer) WriteMessage(body []byte) error {
	if len(body) > f.limits.MaxBodyBytes {
		return fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, len(body))
	}
	if _, err := f.writer.Write(EncodeLine(body)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := f.writer.Flush(); err != nil {
		return fmt.Errorf("flushing message: %w", err)
	}
	return nil
}
