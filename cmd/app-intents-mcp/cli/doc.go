// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the process-level helpers shared by the
// app-intents-mcp binary and its protocol server: the stderr logger,
// categorized tool errors, and exit-code errors.
//
// Nothing here writes to stdout. When the server runs, stdout belongs
// to the protocol stream.
package cli
