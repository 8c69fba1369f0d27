// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package shortcuts runs user shortcuts through the macOS shortcuts
// command-line tool.
//
// [Runner] implements execution.Runner: "shortcuts list" enumerates the
// runnables and "shortcuts run <name> [-i <input>]" executes one. A
// shortcut that exits non-zero is a failed outcome carrying its stderr.
//
// Each invocation runs in its own process group. When the configured
// timeout expires the whole group is killed, so helper processes the
// shortcut spawned do not outlive it.
package shortcuts
