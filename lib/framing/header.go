// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package framing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxHeaderLine bounds a single header line. Header blocks carry one
// or two short fields; anything longer is not a header.
const maxHeaderLine = 4096

// HeaderFramer implements length-prefixed framing: a header block
// terminated by an empty line, carrying Content-Length, followed by
// exactly that many body bytes.
type HeaderFramer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	limits Limits
}

// NewHeaderFramer returns a HeaderFramer reading from r and writing to w.
func NewHeaderFramer(r io.Reader, w io.Writer, limits Limits) *HeaderFramer {
	return &HeaderFramer{
		reader: bufio.NewReaderSize(r, maxHeaderLine),
		writer: bufio.NewWriter(w),
		limits: limits.normalized(),
	}
}

// EncodeHeader returns body preceded by its Content-Length header block.
func EncodeHeader(body []byte) []byte {
	header := "Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n"
	encoded := make([]byte, 0, len(header)+len(body))
	encoded = append(encoded, header...)
	return append(encoded, body...)
}

// ReadMessage reads one header block and its body. Header names are
// matched case-insensitively and headers other than Content-Length are
// ignored. Blank lines before a header block are skipped.
//
// On a malformed header block the rest of the block is consumed before
// the error is returned, and an over-limit body is discarded, so the
// next call starts at the following message.
func (f *HeaderFramer) ReadMessage() ([]byte, error) {
	contentLength := -1
	headerLines := 0
	var headerErr error

	for {
		line, tooLong, err := f.readHeaderLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if headerLines == 0 && strings.TrimSpace(line) == "" {
					return nil, ErrEndOfInput
				}
				return nil, fmt.Errorf("%w: end of input inside header block", ErrTruncated)
			}
			return nil, err
		}

		line = strings.TrimRight(line, "\r\n")
		if tooLong {
			headerLines++
			if headerErr == nil {
				headerErr = fmt.Errorf("%w: header line exceeds %d bytes", ErrMalformedHeader, maxHeaderLine)
			}
			continue
		}
		if line == "" {
			if headerLines == 0 {
				continue
			}
			break
		}
		headerLines++
		if headerErr != nil {
			continue
		}

		name, fieldValue, ok := strings.Cut(line, ":")
		if !ok {
			headerErr = fmt.Errorf("%w: %q", ErrMalformedHeader, line)
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		length, parseErr := strconv.Atoi(strings.TrimSpace(fieldValue))
		if parseErr != nil || length < 0 {
			headerErr = fmt.Errorf("%w: %q", ErrInvalidContentLength, strings.TrimSpace(fieldValue))
			continue
		}
		contentLength = length
	}

	if headerErr != nil {
		return nil, headerErr
	}
	if contentLength < 0 {
		return nil, ErrMissingContentLength
	}
	if contentLength > f.limits.MaxBodyBytes {
		if _, err := io.CopyN(io.Discard, f.reader, int64(contentLength)); err != nil {
			return nil, fmt.Errorf("%w: discarding oversized body: %v", ErrTruncated, err)
		}
		return nil, fmt.Errorf("%w (declared %d bytes)", ErrBodyTooLarge, contentLength)
	}

	body := make([]byte, contentLength)
	if n, err := io.ReadFull(f.reader, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: read %d of %d body bytes", ErrTruncated, n, contentLength)
		}
		return nil, fmt.Errorf("reading message body: %w", err)
	}
	return body, nil
}

// readHeaderLine reads one line. A line longer than the reader's
// buffer is consumed through its newline and reported as tooLong, with
// only its final fragment returned.
func (f *HeaderFramer) readHeaderLine() (line string, tooLong bool, err error) {
	chunk, err := f.reader.ReadSlice('\n')
	for errors.Is(err, bufio.ErrBufferFull) {
		tooLong = true
		chunk, err = f.reader.ReadSlice('\n')
	}
	return string(chunk), tooLong, err
}

// WriteMessage writes the header block and body.
func (f *HeaderFramer) WriteMessage(body []byte) error {
	if len(body) > f.limits.MaxBodyBytes {
		return fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, len(body))
	}
	if _, err := f.writer.Write(EncodeHeader(body)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := f.writer.Flush(); err != nil {
		return fmt.Errorf("flushing message: %w", err)
	}
	return nil
}
