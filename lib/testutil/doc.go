// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] encapsulates the timeout safety valve pattern
// (select with a time.After fallback) so tests that wait on a
// goroutine do not hang when something deadlocks. It is the only place
// in the test suite where a real wall-clock timeout is used.
//
// [WriteTree] lays out a directory of fixture files, used to build
// fake application bundles for the scanner.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
