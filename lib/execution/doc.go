// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package execution turns an action ID into a run of an external
// automation.
//
// The [Coordinator] looks the action up, asks a [Runner] for its
// registered runnables, picks one by name with a [MatchPolicy], and
// runs it with the caller's arguments serialized as canonical JSON.
// The result is always an [Outcome]; an unknown action or a missing
// runnable is a failed outcome, not an error, because the request
// itself was valid.
package execution
