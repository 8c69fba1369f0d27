// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package execution

import (
	"context"
	"time"
)

// Outcome is the normalized result of executing an action. Output is
// meaningful when Succeeded is true and ErrorMessage when it is false.
type Outcome struct {
	Succeeded      bool    `json:"success"`
	Output         string  `json:"output,omitempty"`
	ErrorMessage   string  `json:"error,omitempty"`
	ElapsedSeconds float64 `json:"executionTime"`
}

// Success returns a successful Outcome.
func Success(output string, elapsed time.Duration) Outcome {
	return Outcome{Succeeded: true, Output: output, ElapsedSeconds: elapsed.Seconds()}
}

// Failure returns a failed Outcome.
func Failure(message string, elapsed time.Duration) Outcome {
	return Outcome{Succeeded: false, ErrorMessage: message, ElapsedSeconds: elapsed.Seconds()}
}

// Runner executes named runnables. The shortcuts package provides the
// implementation backed by the shortcuts command-line tool.
type Runner interface {
	// Available reports whether the runner can be used at all.
	Available() bool

	// ListRunnables returns the names of every registered runnable.
	ListRunnables(ctx context.Context) ([]string, error)

	// Run executes the named runnable with optional textual input
	// (empty for none). A runnable that ran and failed is reported as
	// a failed Outcome; the error is reserved for failures to invoke
	// it at all.
	Run(ctx context.Context, name, input string) (Outcome, error)
}
