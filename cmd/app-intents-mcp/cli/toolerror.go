// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies tool errors so that MCP clients can decide
// whether to retry, fix their input, or give up without parsing the
// error text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input.
	// The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced intent or app does not
	// exist. Retrying with the same arguments will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient indicates a temporary failure: a scan that was
	// interrupted, a runnable that timed out. The caller may retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error. The caller should
	// report it rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// Retryable reports whether repeating a call that failed with this
// category might succeed.
func (c ErrorCategory) Retryable() bool { return c == CategoryTransient }

// ToolError is a categorized error returned by tool handlers. The MCP
// server reports the category in the errorInfo member of the tool
// result, alongside the human-readable text.
//
// ToolError wraps an inner error so errors.Is and errors.As still see
// the full chain. Use the category constructors rather than building
// one directly.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional next step for the caller, appended to the
	// message after a blank line.
	Hint string
}

// Error returns the underlying message, followed by the hint if set.
// The category travels separately.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may
// succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure or bug.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
